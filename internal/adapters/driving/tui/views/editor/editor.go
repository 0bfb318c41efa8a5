// Package editor provides the selection editor view component for the
// TUI. It wraps a textarea; the document itself is only touched when
// the edit is applied.
package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/messages"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/styles"
)

// View is the selection editor.
type View struct {
	styles   *styles.Styles
	textarea textarea.Model

	original []string
	width    int
	height   int
}

// NewView creates a new editor view.
func NewView(s *styles.Styles) *View {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0

	return &View{
		styles:   s,
		textarea: ta,
		width:    80,
		height:   24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textarea.Blink
}

// SetContent loads the selected lines into the textarea.
func (v *View) SetContent(lines []string) tea.Cmd {
	v.original = append([]string(nil), lines...)
	v.textarea.SetValue(strings.Join(lines, "\n"))
	v.textarea.SetWidth(v.contentWidth())
	v.textarea.SetHeight(v.contentHeight())
	return v.textarea.Focus()
}

// Update handles messages for the editor.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.textarea.SetWidth(v.contentWidth())
		v.textarea.SetHeight(v.contentHeight())
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			lines := v.Lines()
			v.textarea.Blur()
			return v, func() tea.Msg {
				return messages.EditApplied{Lines: lines}
			}
		case "esc":
			v.textarea.Blur()
			return v, func() tea.Msg {
				return messages.EditCancelled{}
			}
		}
	}

	var cmd tea.Cmd
	v.textarea, cmd = v.textarea.Update(msg)
	return v, cmd
}

// Lines returns the editor content as a line sequence.
func (v *View) Lines() []string {
	return strings.Split(v.textarea.Value(), "\n")
}

// Modified reports whether the content differs from the loaded lines.
func (v *View) Modified() bool {
	lines := v.Lines()
	if len(lines) != len(v.original) {
		return true
	}
	for i := range lines {
		if lines[i] != v.original[i] {
			return true
		}
	}
	return false
}

// View renders the editor.
func (v *View) View() string {
	var b strings.Builder

	title := "✎ Edit selection"
	if v.Modified() {
		title += " [modified]"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n")
	b.WriteString(v.textarea.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(fmt.Sprintf("%d line(s)  [ctrl+s] apply  [esc] cancel", len(v.Lines()))))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.textarea.SetWidth(v.contentWidth())
	v.textarea.SetHeight(v.contentHeight())
}

func (v *View) contentWidth() int {
	w := v.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (v *View) contentHeight() int {
	h := v.height - 5
	if h < 3 {
		h = 3
	}
	return h
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
