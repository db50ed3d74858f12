package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Row is one line of the track listing.
type Row struct {
	File   string
	Colour string
}

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, nil
		}
		return r.Render(markdown)
	}
}

// ListingMarkdown builds the markdown table printed by `cartridge list`.
func ListingMarkdown(source string, rows []Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tracks\n\nSource: `%s`\n\n", source)
	if len(rows) == 0 {
		b.WriteString("_No tracks found._\n")
		return b.String()
	}
	b.WriteString("| # | Track | Colour |\n|---|---|---|\n")
	for i, r := range rows {
		colour := r.Colour
		if colour == "" {
			colour = "-"
		}
		fmt.Fprintf(&b, "| %d | %s | `%s` |\n", i+1, r.File, colour)
	}
	return b.String()
}
