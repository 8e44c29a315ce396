package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// blockSeparator joins normalised block texts when hashing a document.
const blockSeparator = "\n\n"

// NormalizeText canonicalises text for hashing: CRLF and bare CR become
// LF, leading/trailing whitespace is trimmed, and runs of spaces
// collapse to a single space. Newlines and tabs inside the text are
// preserved. Idempotent: NormalizeText(NormalizeText(t)) == NormalizeText(t).
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(text)

	var sb strings.Builder
	sb.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// HashText computes the content hash of the normalised text as a
// fixed-width hex digest. Deterministic; used both as a version token
// and as a cheap equality check.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// DocumentHash computes the version hash over the normalised block
// texts joined by the block separator, in block order. Two documents
// with identical block sequences share a DocumentHash regardless of
// history.
func DocumentHash(blocks []Block) string {
	parts := make([]string, len(blocks))
	for i := range blocks {
		parts[i] = NormalizeText(blocks[i].Text)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, blockSeparator)))
	return hex.EncodeToString(sum[:])
}
