// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/keymap"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateBrowse State = "browse"
	StateView   State = "view"
	StateSelect State = "select"
	StateEdit   State = "edit"
	StateError  State = "error"
)

// Bar displays application status, token usage and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	width   int

	// Token reporting for the viewer.
	selectionTokens int
	totalTokens     int
	tokenBudget     int
	hasSelection    bool

	// coverage is the open file's chunked percentage.
	coverage float64
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateBrowse,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods.
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := b.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state, message and token report.
func (b *Bar) renderLeft() string {
	if b.state == StateError {
		if b.message != "" {
			return b.styles.Error.Render(fmt.Sprintf("Error: %s", b.message))
		}
		return b.styles.Error.Render("Error")
	}

	parts := make([]string, 0, 3)
	if b.message != "" {
		parts = append(parts, b.styles.Normal.Render(b.message))
	}

	if b.state == StateView || b.state == StateSelect {
		parts = append(parts, b.styles.Muted.Render(
			fmt.Sprintf("%.1f%% chunked", b.coverage)))
		parts = append(parts, b.renderTokens())
	}

	if len(parts) == 0 {
		return b.styles.Muted.Render("Ready")
	}
	return strings.Join(parts, b.styles.Muted.Render(" | "))
}

// renderTokens renders the token usage segment.
func (b *Bar) renderTokens() string {
	if !b.hasSelection {
		return b.styles.Muted.Render(fmt.Sprintf("%d tokens total", b.totalTokens))
	}

	percent := usagePercent(b.selectionTokens, b.tokenBudget)
	level := LevelFor(percent)
	usage := b.styles.UsageStyle(percent).Render(string(level))
	return b.styles.Normal.Render(
		fmt.Sprintf("%d/%d tokens ", b.selectionTokens, b.tokenBudget)) + usage
}

// renderRight renders keybinding hints for the current state.
func (b *Bar) renderRight() string {
	var bindings []key.Binding
	switch b.state {
	case StateView, StateSelect:
		bindings = b.keymap.ViewerHelp()
	case StateEdit:
		bindings = b.keymap.EditorHelp()
	case StateBrowse, StateError:
		bindings = b.keymap.ExplorerHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, bd := range bindings {
		h := bd.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

func usagePercent(count, budget int) float64 {
	if budget <= 0 {
		return 0
	}
	return float64(count) / float64(budget) * 100
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets a custom message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetTokens sets the token report. hasSelection switches the display
// between selection usage and the file total.
func (b *Bar) SetTokens(selection, total, budget int, hasSelection bool) {
	b.selectionTokens = selection
	b.totalTokens = total
	b.tokenBudget = budget
	b.hasSelection = hasSelection
}

// SetCoverage sets the open file's chunked percentage.
func (b *Bar) SetCoverage(coverage float64) {
	b.coverage = coverage
}

// Coverage returns the current coverage value.
func (b *Bar) Coverage() float64 {
	return b.coverage
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

// Clear resets the status bar to its default state.
func (b *Bar) Clear() {
	b.state = StateBrowse
	b.message = ""
	b.selectionTokens = 0
	b.totalTokens = 0
	b.hasSelection = false
	b.coverage = 0
}
