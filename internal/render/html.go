package render

import (
	"html"
	"strings"

	"github.com/mvp-joe/js-analyzer/internal/extract"
)

// HTML renders a bordered <table> with one header row.
type HTML struct {
	Escape bool
}

// Render implements Renderer.
func (h *HTML) Render(records []extract.Record) (string, error) {
	var b strings.Builder
	b.WriteString(`<table border="1">`)
	h.row(&b, Headers)
	for _, r := range records {
		h.row(&b, cells(r))
	}
	b.WriteString("</table>")
	return b.String(), nil
}

// RenderFiles implements Renderer. Each table is preceded by an <h3> naming its file.
func (h *HTML) RenderFiles(files []File) (string, error) {
	var b strings.Builder
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("<h3>")
		b.WriteString(html.EscapeString(f.Name))
		b.WriteString("</h3>\n")
		table, err := h.Render(f.Records)
		if err != nil {
			return "", err
		}
		b.WriteString(table)
	}
	return b.String(), nil
}

func (h *HTML) row(b *strings.Builder, cols []string) {
	b.WriteString("<tr>")
	for _, c := range cols {
		if h.Escape {
			c = html.EscapeString(c)
		}
		b.WriteString("<td>")
		b.WriteString(c)
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
}
