package services

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/inkwell-cli/internal/core/domain"
)

// Diff rendering for simulated batches. The markup is deliberately
// plain: <del>/<ins> spans inside otherwise verbatim block text, so any
// surface (CLI, TUI, editor webview) can restyle it.

// RenderDiff renders all block changes as displayable markup, one
// section per block in the order the batch touched them.
func RenderDiff(changes []domain.BlockChange) string {
	if len(changes) == 0 {
		return "(no changes)"
	}

	var sb strings.Builder
	for i, c := range changes {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("--- block %s (%s) ---\n", shortID(c.BlockID), c.Kind))
		switch c.Kind {
		case domain.ChangeInserted:
			sb.WriteString("<ins>" + c.NewText + "</ins>")
		case domain.ChangeDeleted:
			sb.WriteString("<del>" + c.OldText + "</del>")
		default:
			sb.WriteString(DiffWords(c.OldText, c.NewText))
		}
	}
	return sb.String()
}

// DiffWords computes a word-level diff between two texts, rendered
// inline with <del> spans for removed runs and <ins> spans for added
// runs. Unchanged runs pass through verbatim.
func DiffWords(oldText, newText string) string {
	a := tokenize(oldText)
	b := tokenize(newText)

	// Longest common subsequence over tokens. Block texts are small
	// (paragraphs), so the quadratic table is fine.
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var sb strings.Builder
	var del, ins []string
	flush := func() {
		if len(del) > 0 {
			sb.WriteString("<del>" + strings.Join(del, "") + "</del>")
			del = del[:0]
		}
		if len(ins) > 0 {
			sb.WriteString("<ins>" + strings.Join(ins, "") + "</ins>")
			ins = ins[:0]
		}
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			flush()
			sb.WriteString(a[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			del = append(del, a[i])
			i++
		default:
			ins = append(ins, b[j])
			j++
		}
	}
	for ; i < len(a); i++ {
		del = append(del, a[i])
	}
	for ; j < len(b); j++ {
		ins = append(ins, b[j])
	}
	flush()

	return sb.String()
}

// tokenize splits text into alternating word and whitespace tokens so
// the diff aligns on word boundaries but reproduces spacing exactly.
func tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	curSpace := false
	for _, r := range text {
		isSpace := r == ' ' || r == '\t' || r == '\n'
		if cur.Len() > 0 && isSpace != curSpace {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
		curSpace = isSpace
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// shortID abbreviates a block ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
