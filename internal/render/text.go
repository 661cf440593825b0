package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mvp-joe/js-analyzer/internal/extract"
)

// Text renders a box-drawn console table.
type Text struct{}

// Render implements Renderer.
func (t *Text) Render(records []extract.Record) (string, error) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, cells(r))
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Headers...).
		Rows(rows...)

	return tbl.Render(), nil
}

// RenderFiles implements Renderer.
func (t *Text) RenderFiles(files []File) (string, error) {
	var b strings.Builder
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(f.Name)
		b.WriteString("\n")
		table, err := t.Render(f.Records)
		if err != nil {
			return "", err
		}
		b.WriteString(table)
	}
	return b.String(), nil
}
