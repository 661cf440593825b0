// Package render serializes extraction records into a five-column table:
// Line, Type, Name, Condition, Value.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvp-joe/js-analyzer/internal/extract"
)

// Supported output formats.
const (
	FormatHTML = "html"
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by New for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Headers are the column titles, in column order.
var Headers = []string{"Line", "Type", "Name", "Condition", "Value"}

// File is the trace of one named input.
type File struct {
	Name    string
	Records []extract.Record
}

// Renderer turns a trace into a text blob.
type Renderer interface {
	Render(records []extract.Record) (string, error)
	// RenderFiles renders several traces, each labelled with its input name.
	RenderFiles(files []File) (string, error)
}

// Options tunes rendering.
type Options struct {
	// Escape HTML-escapes cell text in the html format.
	Escape bool
}

// Formats lists the names accepted by New.
func Formats() []string {
	return []string{FormatHTML, FormatText, FormatJSON}
}

// New returns the renderer for format.
func New(format string, opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatHTML, "":
		return &HTML{Escape: opts.Escape}, nil
	case FormatText:
		return &Text{}, nil
	case FormatJSON:
		return &JSON{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// cells returns the five column values of r; absent fields are empty.
func cells(r extract.Record) []string {
	return []string{
		fmt.Sprint(r.Line),
		r.Kind,
		deref(r.Name),
		deref(r.Condition),
		deref(r.Value),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
