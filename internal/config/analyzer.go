package config

import (
	"time"

	"github.com/mvp-joe/js-analyzer/internal/analyzer"
	"github.com/mvp-joe/js-analyzer/internal/render"
)

// ToAnalyzerOptions converts a Config to analyzer.Options.
func (c *Config) ToAnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		MaxDepth:       c.Analysis.MaxDepth,
		MaxSourceBytes: c.Analysis.MaxSourceBytes,
		CacheSize:      c.Analysis.CacheSize,
	}
}

// ToRenderOptions converts a Config to render.Options.
func (c *Config) ToRenderOptions() render.Options {
	return render.Options{Escape: c.Render.Escape}
}

// Debounce returns the watch debounce as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
