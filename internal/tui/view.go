package tui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/kanboard/internal/app"
	"github.com/evanschultz/kanboard/internal/domain"
	"github.com/mattn/go-runewidth"
)

// palette groups the colours shared by every render helper.
type palette struct {
	accent color.Color
	muted  color.Color
	dim    color.Color
	text   color.Color
	warn   color.Color
	err    color.Color
	done   color.Color
}

func defaultPalette() palette {
	return palette{
		accent: lipgloss.Color("62"),
		muted:  lipgloss.Color("241"),
		dim:    lipgloss.Color("239"),
		text:   lipgloss.Color("252"),
		warn:   lipgloss.Color("214"),
		err:    lipgloss.Color("203"),
		done:   lipgloss.Color("71"),
	}
}

// minColumnWidth keeps card titles readable before columns scroll.
const minColumnWidth = 22

// View renders the board and any mode overlay.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}
	p := defaultPalette()

	header := m.renderHeader(p)
	status := m.renderStatusLine(p)
	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(p.muted).
		BorderTop(true).
		BorderForeground(p.dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	chrome := lipgloss.Height(header) + lipgloss.Height(status) + lipgloss.Height(helpLine)
	bodyHeight := max(3, m.height-chrome)
	body := m.renderBody(p, bodyHeight)

	content := strings.Join([]string{header, fitLines(body, bodyHeight), status, helpLine}, "\n")
	if overlay := m.renderModeOverlay(p, m.width-8); overlay != "" {
		content = overlayOnContent(content, overlay, max(1, m.width), max(1, m.height))
	}
	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// renderHeader renders the title, bound file, dirty marker, and mode.
func (m Model) renderHeader(p palette) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.text)
	statusStyle := lipgloss.NewStyle().Foreground(p.dim)

	path := m.app.Path()
	if path == "" {
		path = "[no file]"
	}
	header := titleStyle.Render("kanboard") + "  " + truncateWidth(path, max(12, m.width/2))
	if m.app.Dirty() {
		header += lipgloss.NewStyle().Foreground(p.warn).Render(" *")
	}
	header += statusStyle.Render("  [" + m.app.Mode().String() + "]")
	b := m.app.Board()
	cards := 0
	for i := 0; i < b.Len(); i++ {
		cards += b.CardCount(i)
	}
	header += statusStyle.Render(fmt.Sprintf("  %d columns • %d cards", b.Len(), cards))
	return header
}

// renderBody lays the board beside the detail pane when there is room.
func (m Model) renderBody(p palette, height int) string {
	card, ok := m.app.SelectedCard()
	detailWidth := clamp(m.width/3, 28, 60)
	if !m.ui.ShowDescription || !ok || m.width-detailWidth < minColumnWidth+4 {
		return m.renderBoardWidth(p, height, m.width)
	}
	board := m.renderBoardWidth(p, height, m.width-detailWidth-1)
	return lipgloss.JoinHorizontal(lipgloss.Top, board, m.renderDetails(p, card, detailWidth, height))
}

// renderBoardWidth renders the visible window of columns into width cells.
func (m Model) renderBoardWidth(p palette, height, width int) string {
	b := m.app.Board()
	sel := m.app.Selection()
	cur, hasCard := sel.Current()

	visible := max(1, width/(minColumnWidth+3))
	start, end := windowBounds(b.Len(), sel.Column(), visible)
	count := end - start
	colWidth := max(minColumnWidth, width/max(1, count)-3)

	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.dim).
		Padding(0, 1).
		Width(colWidth)
	selColStyle := baseColStyle.BorderForeground(p.accent)
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	emptyStyle := lipgloss.NewStyle().Foreground(p.muted)
	subStyle := lipgloss.NewStyle().Foreground(p.muted)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(p.done).Strikethrough(true)

	innerHeight := max(1, height-2)
	views := make([]string, 0, count)
	for colIdx := start; colIdx < end; colIdx++ {
		col, err := b.Column(colIdx)
		if err != nil {
			continue
		}
		textWidth := max(4, colWidth-2)
		lines := []string{colTitle.Render(truncateWidth(fmt.Sprintf("%s (%d)", col.Name, col.Len()), textWidth)), ""}
		if col.Len() == 0 {
			lines = append(lines, emptyStyle.Render("(empty)"))
		}
		selectedLine := -1
		for cardIdx, card := range col.Cards {
			selected := hasCard && cur.Column == colIdx && cur.Card == cardIdx
			prefix := "  "
			if selected {
				prefix = "› "
				selectedLine = len(lines)
			}
			title := prefix + doneMarker(card) + " " + priorityMarker(card.Priority) + " " + card.Title
			title = truncateWidth(title, textWidth)
			switch {
			case selected:
				title = selectedStyle.Render(title)
			case card.Done:
				title = doneStyle.Render(title)
			}
			lines = append(lines, title)
			if m.ui.ShowTimestamps {
				if age := domain.Age(card.CreatedAt, m.now()); age != "" {
					lines = append(lines, subStyle.Render(truncateWidth("    "+age, textWidth)))
				}
			}
		}
		lines = scrollToLine(lines, innerHeight, selectedLine)
		style := baseColStyle
		if colIdx == sel.Column() {
			style = selColStyle
		}
		views = append(views, style.Height(innerHeight).Render(strings.Join(lines, "\n")))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, views...)
	if start > 0 || end < b.Len() {
		board += "\n" + subStyle.Render(fmt.Sprintf("columns %d-%d of %d", start+1, end, b.Len()))
	}
	return board
}

// renderDetails renders the selected card's metadata and description.
func (m Model) renderDetails(p palette, card domain.Card, width, height int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	hintStyle := lipgloss.NewStyle().Foreground(p.muted)

	state := "open"
	if card.Done {
		state = "done"
	}
	lines := []string{
		titleStyle.Render(truncateWidth(card.Title, width-4)),
		hintStyle.Render("priority: " + string(card.Priority) + " • " + state),
	}
	if m.ui.ShowTimestamps {
		lines = append(lines,
			hintStyle.Render("created: "+domain.FormatTimestamp(card.CreatedAt)),
			hintStyle.Render("updated: "+domain.FormatTimestamp(card.UpdatedAt)),
		)
	}
	lines = append(lines, "")
	desc := strings.TrimSpace(card.Description)
	switch {
	case desc == "":
		lines = append(lines, hintStyle.Render("(no description)"))
	case m.ui.RenderMarkdown:
		lines = append(lines, m.md.render(desc, width-4))
	default:
		lines = append(lines, lipgloss.NewStyle().Width(width-4).Render(desc))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.dim).
		Padding(0, 1).
		Width(width).
		Render(fitLines(strings.Join(lines, "\n"), max(1, height-2)))
}

// renderStatusLine shows the newest journal entry coloured by severity.
func (m Model) renderStatusLine(p palette) string {
	style := lipgloss.NewStyle().Foreground(p.dim)
	if m.journal == nil {
		return style.Render("ready")
	}
	entry, ok := m.journal.Last()
	if !ok {
		return style.Render("ready")
	}
	switch entry.Severity {
	case app.SeverityWarn:
		style = style.Foreground(p.warn)
	case app.SeverityError:
		style = style.Foreground(p.err).Bold(true)
	}
	return style.Render(truncateWidth(entry.String(), max(8, m.width)))
}

// renderModeOverlay renders the editor, save prompt, or help for the current mode.
func (m Model) renderModeOverlay(p palette, maxWidth int) string {
	switch m.app.Mode() {
	case app.ModeEdit:
		ed, ok := m.app.Editor()
		if !ok {
			return ""
		}
		return m.renderEditor(p, ed, maxWidth)
	case app.ModeSave:
		draft, ok := m.app.SaveDraft()
		if !ok {
			return ""
		}
		return m.renderSavePrompt(p, draft, maxWidth)
	case app.ModeHelp:
		return m.renderHelpOverlay(p, maxWidth)
	default:
		return ""
	}
}

// renderEditor renders the card or column draft with the focused field highlighted.
func (m Model) renderEditor(p palette, ed app.EditorState, maxWidth int) string {
	width := clamp(maxWidth, 36, 80)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	labelStyle := lipgloss.NewStyle().Foreground(p.muted)
	focusLabel := lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(p.muted)

	heading := map[app.EditTarget]string{
		app.EditNewCard:   "New Card",
		app.EditCard:      "Edit Card",
		app.EditNewColumn: "New Column",
		app.EditColumn:    "Rename Column",
	}[ed.Target]

	label := func(field app.EditorField, text string) string {
		if ed.Focus == field {
			return focusLabel.Render("› " + text)
		}
		return labelStyle.Render("  " + text)
	}

	lines := []string{titleStyle.Render(heading), ""}
	if ed.IsColumn() {
		lines = append(lines, label(app.FieldTitle, "name"), "  "+renderBuffer(ed.Title, ed.Focus == app.FieldTitle))
	} else {
		lines = append(lines,
			label(app.FieldTitle, "title"),
			"  "+renderBuffer(ed.Title, ed.Focus == app.FieldTitle),
			label(app.FieldDescription, "description"),
			indent(renderBuffer(ed.Description, ed.Focus == app.FieldDescription), "  "),
			label(app.FieldPriority, "priority"),
			"  "+m.renderPriorityPicker(p, ed.Priority, ed.Focus == app.FieldPriority),
		)
	}
	hint := "enter save • esc cancel"
	if !ed.IsColumn() {
		hint = "tab next field • enter newline/save • ctrl+s save • esc cancel"
	}
	lines = append(lines, "", hintStyle.Render(hint))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.accent).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderPriorityPicker renders the three levels with the chosen one highlighted.
func (m Model) renderPriorityPicker(p palette, current domain.Priority, focused bool) string {
	chosen := lipgloss.NewStyle().Bold(true).Foreground(p.text).Background(p.accent).Padding(0, 1)
	other := lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1)
	parts := make([]string, 0, len(domain.Priorities()))
	for _, level := range domain.Priorities() {
		if level == current {
			parts = append(parts, chosen.Render(string(level)))
			continue
		}
		parts = append(parts, other.Render(string(level)))
	}
	out := strings.Join(parts, " ")
	if focused {
		out += lipgloss.NewStyle().Foreground(p.muted).Render("  ←/→")
	}
	return out
}

// renderSavePrompt renders the target path input.
func (m Model) renderSavePrompt(p palette, draft app.SaveState, maxWidth int) string {
	width := clamp(maxWidth, 36, 80)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(p.accent).Render("Save Board As"),
		"",
		renderBuffer(draft.Path, true),
		"",
		lipgloss.NewStyle().Foreground(p.muted).Render(".json • .yaml/.yml • .db/.sqlite"),
		lipgloss.NewStyle().Foreground(p.muted).Render("enter save • esc cancel"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.accent).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderHelpOverlay renders the full key reference.
func (m Model) renderHelpOverlay(p palette, maxWidth int) string {
	width := clamp(maxWidth, 56, 100)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	heading := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	muted := lipgloss.NewStyle().Foreground(p.muted)
	editing := []string{
		heading.Render("Editing"),
		"tab/shift+tab switch field  •  enter newline in description, save elsewhere",
		"ctrl+s save  •  esc cancel  •  ←/→ on priority changes level",
		"ctrl+a/ctrl+e line start/end  •  backspace/delete remove text",
	}
	lines := []string{
		heading.Render("kanboard help"),
		"",
		hb.View(m.keys),
		"",
		muted.Render(strings.Join(editing, "\n")),
		"",
		muted.Render("press any key to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderBuffer draws buf with a block cursor when focused.
func renderBuffer(buf app.TextBuffer, focused bool) string {
	runes := []rune(buf.Value())
	if !focused {
		if len(runes) == 0 {
			return lipgloss.NewStyle().Faint(true).Render("(empty)")
		}
		return string(runes)
	}
	cursorStyle := lipgloss.NewStyle().Reverse(true)
	pos := clamp(buf.Cursor(), 0, len(runes))
	var out strings.Builder
	out.WriteString(string(runes[:pos]))
	switch {
	case pos == len(runes):
		out.WriteString(cursorStyle.Render(" "))
	case runes[pos] == '\n':
		out.WriteString(cursorStyle.Render(" "))
		out.WriteString("\n")
		out.WriteString(string(runes[pos+1:]))
	default:
		out.WriteString(cursorStyle.Render(string(runes[pos])))
		out.WriteString(string(runes[pos+1:]))
	}
	return out.String()
}

func doneMarker(card domain.Card) string {
	if card.Done {
		return "[x]"
	}
	return "[ ]"
}

func priorityMarker(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return "!!"
	case domain.PriorityLow:
		return " ·"
	default:
		return " !"
	}
}

// windowBounds returns the [start, end) window of size windowSize that keeps selected visible.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 {
		return 0, 0
	}
	if windowSize <= 0 || windowSize >= total {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	start := selected - windowSize/2
	start = clamp(start, 0, total-windowSize)
	return start, start + windowSize
}

// scrollToLine trims lines to height while keeping focus visible. Header lines stay pinned.
func scrollToLine(lines []string, height, focus int) []string {
	const pinned = 2
	if len(lines) <= height || height <= pinned {
		return lines
	}
	room := height - pinned
	body := lines[pinned:]
	start := 0
	if focus >= pinned {
		start = clamp(focus-pinned-room/2, 0, len(body)-room)
	}
	out := append([]string{}, lines[:pinned]...)
	return append(out, body[start:start+room]...)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

// fitLines pads or trims content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centres overlay above base.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncateWidth truncates s to width terminal cells.
func truncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
