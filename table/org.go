package table

import (
	"strings"
	"unicode/utf8"
)

// FormatOrg renders t as an Org-mode table with a header rule, for pasting
// into a journal.
func FormatOrg(t *Table) string {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = utf8.RuneCountInString(c.Title)
	}
	for _, r := range t.Rows {
		for i := range widths {
			if i < len(r) {
				widths[i] = max(widths[i], utf8.RuneCountInString(r[i].Text))
			}
		}
	}

	var b strings.Builder
	line := func(cells []string) {
		b.WriteString("|")
		for i, w := range widths {
			text := ""
			if i < len(cells) {
				text = cells[i]
			}
			b.WriteString(" ")
			b.WriteString(text)
			b.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(text)))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = c.Title
	}
	line(titles)

	b.WriteString("|")
	for i, w := range widths {
		if i > 0 {
			b.WriteString("+")
		}
		b.WriteString(strings.Repeat("-", w+2))
	}
	b.WriteString("|\n")

	for _, r := range t.Rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = c.Text
		}
		line(cells)
	}
	return b.String()
}
