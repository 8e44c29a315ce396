package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

var (
	docCreateTitle string
	docCreateFile  string
	docShowJSON    bool
	docShowHashes  bool
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage documents",
	Long:  `Create, inspect, and list block-versioned documents.`,
}

var docCreateCmd = &cobra.Command{
	Use:   "create [doc-id]",
	Short: "Create a document from text",
	Long: `Creates a document from plain text read from --file or stdin.

Blank lines separate paragraphs. Lines starting with one or more '#'
characters become headings; the count sets the heading level (1-6).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocCreate,
}

var docShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document and its block hashes",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocShow,
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	RunE:  runDocList,
}

func init() {
	docCreateCmd.Flags().StringVarP(&docCreateTitle, "title", "t", "", "document title")
	docCreateCmd.Flags().StringVarP(&docCreateFile, "file", "f", "", "text file to read ('-' or empty = stdin)")
	docShowCmd.Flags().BoolVar(&docShowJSON, "json", false, "output the document as JSON")
	docShowCmd.Flags().BoolVar(&docShowHashes, "hashes", false, "include full block hashes")

	docCmd.AddCommand(docCreateCmd)
	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docListCmd)
	rootCmd.AddCommand(docCmd)
}

func runDocCreate(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	text, err := readInput(cmd, docCreateFile)
	if err != nil {
		return err
	}

	specs := splitBlocks(text)
	if len(specs) == 0 {
		return errors.New("input contains no blocks")
	}

	doc, err := documentService.Create(context.Background(), id, docCreateTitle, specs)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	cmd.Printf("Created document %s (%d blocks)\n", doc.ID, len(doc.Blocks))
	cmd.Printf("Base version: %s\n", doc.BaseVersion)
	return nil
}

func runDocShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if docShowJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Document: %s\n", doc.ID)
	if doc.Title != "" {
		cmd.Printf("  Title:        %s\n", doc.Title)
	}
	cmd.Printf("  Base version: %s\n", doc.BaseVersion)
	cmd.Printf("  Modified:     %s\n", doc.LastModified.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Blocks:       %d\n", len(doc.Blocks))
	cmd.Println()

	for i := range doc.Blocks {
		blk := &doc.Blocks[i]
		hash := blk.Hash
		if !docShowHashes && len(hash) > 12 {
			hash = hash[:12]
		}
		label := string(blk.Type)
		if blk.Type == domain.BlockHeading {
			label = fmt.Sprintf("heading %d", blk.Level)
		}
		cmd.Printf("  [%d] %s  %s (%s)\n", i, blk.ID, hash, label)
		cmd.Printf("      %s\n", blk.Text)
	}

	return nil
}

func runDocList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents.")
		return nil
	}

	for i := range docs {
		title := docs[i].Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("  %s  %s (%d blocks, version %.12s)\n",
			docs[i].ID, title, len(docs[i].Blocks), docs[i].BaseVersion)
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

// readInput reads the named file, or stdin for "" / "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// splitBlocks turns plain text into block specs: paragraphs separated
// by blank lines, leading '#' runs marking headings.
func splitBlocks(text string) []domain.NewBlockSpec {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var specs []domain.NewBlockSpec
	for _, chunk := range strings.Split(text, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		if strings.HasPrefix(chunk, "#") {
			level := 0
			for level < len(chunk) && chunk[level] == '#' {
				level++
			}
			if level <= 6 {
				specs = append(specs, domain.NewBlockSpec{
					Type:  domain.BlockHeading,
					Level: level,
					Text:  strings.TrimSpace(chunk[level:]),
				})
				continue
			}
		}
		specs = append(specs, domain.NewBlockSpec{Type: domain.BlockParagraph, Text: chunk})
	}
	return specs
}
