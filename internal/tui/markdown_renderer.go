package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minMarkdownWidth is the narrowest wrap width handed to glamour.
const minMarkdownWidth = 24

// markdownRenderer renders card descriptions. The glamour renderer is rebuilt
// when the wrap width changes and the last output is memoized.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer

	lastSource string
	lastOutput string
}

// render converts a description into styled terminal text wrapped at width.
// Rendering failures fall back to the raw text.
func (r *markdownRenderer) render(description string, width int) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	wrap := max(width, minMarkdownWidth)
	if r.renderer == nil || r.width != wrap {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return description
		}
		r.renderer = renderer
		r.width = wrap
		r.lastSource = ""
	}
	if r.lastSource != "" && r.lastSource == description {
		return r.lastOutput
	}

	out, err := r.renderer.Render(description)
	if err != nil {
		return description
	}
	out = strings.Trim(out, "\n")
	r.lastSource = description
	r.lastOutput = out
	return out
}
