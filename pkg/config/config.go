// Package config defines the configuration types for mdsync.
// These types are plain data with no dependency on how they are loaded.
package config

import "time"

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat specifies the output format of span reports.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// Defaults shared by the loader and the template.
const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultHighlight    = 2 * time.Second
	DefaultPrefixLength = 50
	DefaultSkipDistance = 50
	DefaultClassPrefix  = "mdsync"
	DefaultAddr         = ":8001"
)

// SyncConfig holds the session timings.
type SyncConfig struct {
	// Debounce is the quiet period after an edit before re-rendering.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`

	// Highlight is how long navigation highlights stay visible.
	Highlight time.Duration `mapstructure:"highlight" yaml:"highlight"`
}

// ResolverConfig tunes span resolution.
type ResolverConfig struct {
	PrefixLength int `mapstructure:"prefix_length" yaml:"prefix_length"`
	SkipDistance int `mapstructure:"skip_distance" yaml:"skip_distance"`
}

// RenderConfig controls HTML output.
type RenderConfig struct {
	// Unsafe passes raw HTML and dangerous URLs through.
	Unsafe bool `mapstructure:"unsafe" yaml:"unsafe"`

	// DetectLanguage guesses languages of code blocks without info string.
	DetectLanguage bool `mapstructure:"detect_language" yaml:"detect_language"`

	// ClassPrefix prefixes the CSS classes of annotated containers.
	ClassPrefix string `mapstructure:"class_prefix" yaml:"class_prefix"`
}

// ServerConfig configures `mdsync serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`

	// Root is the directory documents are served from. Empty disables
	// file access; sessions then need inline text.
	Root string `mapstructure:"root" yaml:"root"`

	// AllowedOrigins lists CORS origins; empty allows any.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// Config is the root configuration structure.
type Config struct {
	Flavor   Flavor         `mapstructure:"flavor" yaml:"flavor"`
	Sync     SyncConfig     `mapstructure:"sync" yaml:"sync"`
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Format specifies the report format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// Strict fails the run when any block is unresolved.
	Strict bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Flavor: FlavorCommonMark,
		Sync: SyncConfig{
			Debounce:  DefaultDebounce,
			Highlight: DefaultHighlight,
		},
		Resolver: ResolverConfig{
			PrefixLength: DefaultPrefixLength,
			SkipDistance: DefaultSkipDistance,
		},
		Render: RenderConfig{
			DetectLanguage: true,
			ClassPrefix:    DefaultClassPrefix,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Format: FormatText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}
