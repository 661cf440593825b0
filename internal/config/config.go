// Package config loads analyzer settings from .analyzer/config.yml with
// ANALYZER_* environment variable overrides.
package config

// Config represents the complete analyzer configuration.
// It can be loaded from .analyzer/config.yml with environment variable overrides.
type Config struct {
	Render   RenderConfig   `yaml:"render" mapstructure:"render"`
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
}

// RenderConfig controls how traces are printed.
type RenderConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "html", "text" or "json"
	Escape bool   `yaml:"escape" mapstructure:"escape"` // HTML-escape cell text
}

// PathsConfig defines which files a directory argument expands to.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// AnalysisConfig bounds the parser and the extraction engine.
type AnalysisConfig struct {
	MaxDepth       int `yaml:"max_depth" mapstructure:"max_depth"`               // deepest nesting accepted
	MaxSourceBytes int `yaml:"max_source_bytes" mapstructure:"max_source_bytes"` // largest input accepted
	CacheSize      int `yaml:"cache_size" mapstructure:"cache_size"`             // cached traces, 0 disables
}

// WatchConfig tunes --watch mode.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before re-analysis
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Format: "html",
			Escape: true,
		},
		Paths: PathsConfig{
			Include: []string{
				"**/*.js",
				"**/*.mjs",
				"**/*.cjs",
			},
			Ignore: []string{
				"node_modules/**",
				".git/**",
				"dist/**",
				"build/**",
				"coverage/**",
				"**/*.min.js",
			},
		},
		Analysis: AnalysisConfig{
			MaxDepth:       10000,
			MaxSourceBytes: 10 * 1024 * 1024,
			CacheSize:      256,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}
