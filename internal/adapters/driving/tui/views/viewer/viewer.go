// Package viewer provides the document view component for the TUI. It
// renders the open file with cursor, selection and chunked-line
// markers, and drives selection saves through the chunking service.
package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/messages"
	"github.com/tiller-tolbus/packrat/internal/adapters/driving/tui/styles"
	"github.com/tiller-tolbus/packrat/internal/core/domain"
	"github.com/tiller-tolbus/packrat/internal/core/ports/driving"
)

// View is the document viewer.
type View struct {
	styles   *styles.Styles
	chunking driving.ChunkingService

	// labelPrompt collects comma-separated labels before a save.
	labelPrompt  textinput.Model
	prompting    bool
	statusNotice string

	width  int
	height int
	err    error
}

// NewView creates a new viewer over the chunking service.
func NewView(s *styles.Styles, chunking driving.ChunkingService) *View {
	prompt := textinput.New()
	prompt.Placeholder = "labels (comma separated, empty for none)"
	prompt.Prompt = "Save chunk: "
	prompt.CharLimit = 200

	return &View{
		styles:      s,
		chunking:    chunking,
		labelPrompt: prompt,
		width:       80,
		height:      24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Reset clears transient state when a new file is opened.
func (v *View) Reset() {
	v.prompting = false
	v.labelPrompt.SetValue("")
	v.labelPrompt.Blur()
	v.statusNotice = ""
	v.err = nil
	if doc := v.chunking.Document(); doc != nil {
		doc.SetViewHeight(v.contentHeight())
	}
}

// Update handles messages for the viewer.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		if doc := v.chunking.Document(); doc != nil {
			doc.SetViewHeight(v.contentHeight())
		}
		return v, nil

	case tea.KeyMsg:
		if v.prompting {
			return v.handlePromptKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ChunkSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		if msg.Overlap {
			v.statusNotice = fmt.Sprintf("Saved %s (warning: overlaps existing chunks)", msg.ChunkID)
		} else {
			v.statusNotice = fmt.Sprintf("Saved %s", msg.ChunkID)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses outside the label prompt.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	doc := v.chunking.Document()
	if doc == nil {
		return v, nil
	}

	v.statusNotice = ""

	switch msg.String() {
	case "up", "k":
		doc.CursorUp()
	case "down", "j":
		doc.CursorDown()
	case "pgup", "ctrl+u":
		doc.ScrollPageUp()
	case "pgdown", "ctrl+d":
		doc.ScrollPageDown()
	case "home", "g":
		doc.ScrollToTop()
	case "end", "G":
		doc.ScrollToBottom()
	case " ", "v":
		doc.ToggleSelection()
	case "s", "ctrl+s":
		return v.beginSave()
	case "e":
		return v.beginEdit()
	case "esc", "q":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewExplorer}
		}
	}

	return v, nil
}

// beginSave opens the label prompt when a selection exists.
func (v *View) beginSave() (*View, tea.Cmd) {
	doc := v.chunking.Document()
	if _, ok := doc.SelectionRange(); !ok {
		v.err = domain.ErrNoSelection
		return v, nil
	}

	v.prompting = true
	v.labelPrompt.SetValue("")
	return v, v.labelPrompt.Focus()
}

// handlePromptKey routes keys while the label prompt is open.
func (v *View) handlePromptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		labels := parseLabels(v.labelPrompt.Value())
		v.prompting = false
		v.labelPrompt.Blur()
		return v, v.saveSelection(labels)
	case "esc":
		// Abort the save, keeping the selection.
		v.prompting = false
		v.labelPrompt.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.labelPrompt, cmd = v.labelPrompt.Update(msg)
	return v, cmd
}

// saveSelection persists the selection through the chunking service.
func (v *View) saveSelection(labels []string) tea.Cmd {
	return func() tea.Msg {
		result, err := v.chunking.SaveSelection(labels)
		return messages.ChunkSaved{
			ChunkID: result.ChunkID,
			Overlap: result.Overlap,
			Err:     err,
		}
	}
}

// beginEdit hands the selected lines to the editor view.
func (v *View) beginEdit() (*View, tea.Cmd) {
	doc := v.chunking.Document()
	r, ok := doc.SelectionRange()
	if !ok {
		v.err = domain.ErrNoSelection
		return v, nil
	}

	lines := doc.Slice(r.Start, r.End)
	return v, func() tea.Msg {
		return messages.EditRequested{Lines: lines}
	}
}

// parseLabels splits comma-separated input into trimmed labels,
// dropping empty segments.
func parseLabels(input string) []string {
	var labels []string
	for _, part := range strings.Split(input, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// contentHeight returns the number of document lines on screen.
func (v *View) contentHeight() int {
	// Reserve rows for the title, separator and prompt line.
	available := v.height - 5
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the viewer.
func (v *View) View() string {
	doc := v.chunking.Document()
	if doc == nil {
		return v.styles.Muted.Render("No file open.")
	}

	var b strings.Builder

	title := fmt.Sprintf("⊡ %s", doc.Path())
	if doc.Edited() {
		title += " [edited]"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n")

	b.WriteString(v.renderLines(doc))

	if v.prompting {
		b.WriteString("\n")
		b.WriteString(v.labelPrompt.View())
	} else if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	} else if v.statusNotice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.statusNotice))
	}

	return b.String()
}

// renderLines renders the visible slice of the document with cursor,
// selection and chunked markers.
func (v *View) renderLines(doc *domain.Document) string {
	var b strings.Builder

	height := v.contentHeight()
	scroll := doc.Scroll()
	selection, hasSelection := doc.SelectionRange()

	for i := 0; i < height; i++ {
		line := scroll + domain.ViewerLine(i)
		if int(line) >= doc.Len() {
			break
		}

		b.WriteString(v.renderLine(doc, line, selection, hasSelection))
		b.WriteString("\n")
	}

	return b.String()
}

// renderLine renders one document line. Chunked lines carry a bar
// marker; the selection and cursor get their own backgrounds.
func (v *View) renderLine(doc *domain.Document, line domain.ViewerLine, selection domain.LineRange, hasSelection bool) string {
	marker := " "
	if v.chunking.IsLineChunked(line) {
		marker = "▌"
	}

	number := fmt.Sprintf("%4d", line.ToStorage())
	text := fmt.Sprintf("%s%s %s", marker, number, doc.Line(line))

	switch {
	case line == doc.Cursor():
		return v.styles.Selected.Render(text)
	case hasSelection && selection.Contains(line):
		return v.styles.SelectionLine.Render(text)
	case marker == "▌":
		return v.styles.ChunkedLine.Render(text)
	default:
		return v.styles.Normal.Render(text)
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	if doc := v.chunking.Document(); doc != nil {
		doc.SetViewHeight(v.contentHeight())
	}
}

// Prompting reports whether the label prompt is open.
func (v *View) Prompting() bool {
	return v.prompting
}

// Notice returns the current transient status notice.
func (v *View) Notice() string {
	return v.statusNotice
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
