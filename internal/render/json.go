package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mvp-joe/js-analyzer/internal/extract"
)

// JSON renders the trace as a JSON array.
type JSON struct{}

// Render implements Renderer.
func (j *JSON) Render(records []extract.Record) (string, error) {
	if records == nil {
		records = []extract.Record{}
	}
	return marshal(records)
}

// fileTrace is the JSON shape of one File.
type fileTrace struct {
	File    string
	Records []extract.Record
}

// RenderFiles implements Renderer as an array of {"File","Records"} objects.
func (j *JSON) RenderFiles(files []File) (string, error) {
	out := make([]fileTrace, 0, len(files))
	for _, f := range files {
		records := f.Records
		if records == nil {
			records = []extract.Record{}
		}
		out = append(out, fileTrace{File: f.Name, Records: records})
	}
	return marshal(out)
}

// marshal encodes v without HTML escaping so conditions such as "x > 9"
// read as written.
func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to marshal records: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
