// Package analyzer wires the parser, the extraction engine and a result cache
// into a single source-text-in, trace-out call.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"slices"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/js-analyzer/internal/codegen"
	"github.com/mvp-joe/js-analyzer/internal/extract"
	"github.com/mvp-joe/js-analyzer/internal/parser"
)

// Options configures an Analyzer.
type Options struct {
	MaxDepth       int
	MaxSourceBytes int
	// CacheSize is the number of traces kept, keyed by source hash.
	// Zero disables caching.
	CacheSize int
}

// Analyzer is safe for concurrent use.
type Analyzer struct {
	parser    *parser.Parser
	extractor *extract.Extractor
	cache     *otter.Cache[string, []extract.Record]
}

// New creates an Analyzer.
func New(opts Options) (*Analyzer, error) {
	a := &Analyzer{
		parser:    parser.New(parser.Options{MaxSourceBytes: opts.MaxSourceBytes, MaxDepth: opts.MaxDepth}),
		extractor: extract.New(codegen.New(), extract.Options{MaxDepth: opts.MaxDepth}),
	}

	if opts.CacheSize > 0 {
		cache, err := otter.MustBuilder[string, []extract.Record](opts.CacheSize).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		a.cache = &cache
	}
	return a, nil
}

// Analyze parses source and returns its trace.
func (a *Analyzer) Analyze(ctx context.Context, source []byte) ([]extract.Record, error) {
	key := hashSource(source)
	if a.cache != nil {
		if records, ok := a.cache.Get(key); ok {
			return slices.Clone(records), nil
		}
	}

	prog, err := a.parser.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	records, err := a.extractor.Extract(prog)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		a.cache.Set(key, slices.Clone(records))
	}
	return records, nil
}

// AnalyzeFile reads path and analyzes its contents.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) ([]extract.Record, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := a.Analyze(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Close releases the cache.
func (a *Analyzer) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

func hashSource(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}
