package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readReq(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	server, doc := newTestServer(t)

	result, err := server.handleDocumentsResource(context.Background(), readReq(uriScheme+"documents"))
	require.NoError(t, err)

	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, doc.ID)
	assert.Contains(t, result.Contents[0].Text, doc.BaseVersion)
}

func TestServer_handleBlocksResource(t *testing.T) {
	server, doc := newTestServer(t)

	uri := uriScheme + "documents/" + doc.ID + "/blocks"
	result, err := server.handleBlocksResource(context.Background(), readReq(uri))
	require.NoError(t, err)

	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, doc.Blocks[0].ID)
	assert.Contains(t, result.Contents[0].Text, doc.Blocks[0].Hash)
	assert.Contains(t, result.Contents[0].Text, doc.BaseVersion)
}

func TestServer_handleContentResource(t *testing.T) {
	server, doc := newTestServer(t)

	uri := uriScheme + "documents/" + doc.ID
	result, err := server.handleContentResource(context.Background(), readReq(uri))
	require.NoError(t, err)

	require.Len(t, result.Contents, 1)
	assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, "The cat walked quickly.")
}

func TestServer_handleContentResource_BadURI(t *testing.T) {
	server, _ := newTestServer(t)

	_, err := server.handleContentResource(context.Background(), readReq("inkwell://other/thing"))
	require.Error(t, err)
}

func TestExtractBlocksDocID(t *testing.T) {
	assert.Equal(t, "abc", extractBlocksDocID("inkwell://documents/abc/blocks"))
	assert.Empty(t, extractBlocksDocID("inkwell://documents/abc"))
	assert.Empty(t, extractBlocksDocID("other://documents/abc/blocks"))
}

func TestExtractDocumentID(t *testing.T) {
	assert.Equal(t, "abc", extractDocumentID("inkwell://documents/abc"))
	assert.Empty(t, extractDocumentID("inkwell://documents/abc/blocks"))
	assert.Empty(t, extractDocumentID("inkwell://sources/abc"))
}
