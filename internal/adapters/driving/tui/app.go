// Package tui provides the interactive diff-confirmation view shown
// before an edit batch is applied. The view only collects a decision;
// committing or rejecting the proposal stays with the caller, so
// quitting the view never mutates anything.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkwell-labs/inkwell-cli/internal/core/ports/driving"
)

// keyMap defines the key bindings for the confirmation view.
type keyMap struct {
	Accept key.Binding
	Reject key.Binding
	Up     key.Binding
	Down   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Accept: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "apply"),
		),
		Reject: key.NewBinding(
			key.WithKeys("n", "q", "esc", "ctrl+c"),
			key.WithHelp("n", "reject"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Confirm is the bubbletea model for the diff-confirmation view.
type Confirm struct {
	proposal *driving.Proposal
	styles   *Styles
	keys     keyMap
	viewport viewport.Model
	ready    bool
	accepted bool
	decided  bool
}

// NewConfirm creates the confirmation view for a held proposal.
func NewConfirm(proposal *driving.Proposal) *Confirm {
	return &Confirm{
		proposal: proposal,
		styles:   DefaultStyles(),
		keys:     defaultKeyMap(),
	}
}

// Accepted reports whether the user chose to apply the batch.
func (c *Confirm) Accepted() bool {
	return c.decided && c.accepted
}

// Init implements tea.Model.
func (c *Confirm) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (c *Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, c.keys.Accept):
			c.decided = true
			c.accepted = true
			return c, tea.Quit
		case key.Matches(msg, c.keys.Reject):
			c.decided = true
			c.accepted = false
			return c, tea.Quit
		}

	case tea.WindowSizeMsg:
		headerHeight := 4
		footerHeight := 2
		if !c.ready {
			c.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight)
			c.viewport.SetContent(c.renderDiff())
			c.ready = true
		} else {
			c.viewport.Width = msg.Width - 4
			c.viewport.Height = msg.Height - headerHeight - footerHeight
		}
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// View implements tea.Model.
func (c *Confirm) View() string {
	var sb strings.Builder

	stats := c.proposal.Preview.Stats
	sb.WriteString(c.styles.Title.Render("Proposed edit: "+c.proposal.Batch.DocID) + "\n")
	sb.WriteString(c.styles.Stats.Render(fmt.Sprintf(
		"%d ops, %d/%d blocks edited, +%d/-%d chars",
		stats.Operations, stats.BlocksEdited, stats.BlocksScanned,
		stats.CharsAdded, stats.CharsRemoved)) + "\n\n")

	if c.ready {
		sb.WriteString(c.styles.Border.Render(c.viewport.View()) + "\n")
	} else {
		sb.WriteString(c.renderDiff() + "\n")
	}

	sb.WriteString(c.styles.Help.Render("y apply · n reject · ↑/↓ scroll"))
	return sb.String()
}

// renderDiff styles the engine's <del>/<ins> markup for the terminal.
func (c *Confirm) renderDiff() string {
	return StyleDiffMarkup(c.proposal.Preview.DiffMarkup, c.styles)
}

// StyleDiffMarkup replaces the plain <del>/<ins> span markup produced
// by the engine with styled terminal text. Block section headers keep
// their own accent.
func StyleDiffMarkup(markup string, styles *Styles) string {
	var sb strings.Builder
	lines := strings.Split(markup, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if strings.HasPrefix(line, "--- block ") {
			sb.WriteString(styles.BlockHeader.Render(line))
			continue
		}
		sb.WriteString(styleSpans(line, styles))
	}
	return sb.String()
}

// styleSpans walks one line, styling <del> and <ins> spans.
func styleSpans(line string, styles *Styles) string {
	var sb strings.Builder
	for len(line) > 0 {
		del := strings.Index(line, "<del>")
		ins := strings.Index(line, "<ins>")

		next, tag, closer := -1, "", ""
		switch {
		case del >= 0 && (ins < 0 || del < ins):
			next, tag, closer = del, "<del>", "</del>"
		case ins >= 0:
			next, tag, closer = ins, "<ins>", "</ins>"
		}

		if next < 0 {
			sb.WriteString(line)
			break
		}

		sb.WriteString(line[:next])
		rest := line[next+len(tag):]
		end := strings.Index(rest, closer)
		if end < 0 {
			// Unterminated span; emit verbatim.
			sb.WriteString(line[next:])
			break
		}

		if tag == "<del>" {
			sb.WriteString(styles.Removed.Render(rest[:end]))
		} else {
			sb.WriteString(styles.Inserted.Render(rest[:end]))
		}
		line = rest[end+len(closer):]
	}
	return sb.String()
}
