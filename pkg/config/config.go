// Package config defines core configuration types for rtftplint.
// These types are pure data structures with no dependency on how they are loaded.
package config

// OutputFormat specifies the output format for validation results.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
	FormatTree  OutputFormat = "tree"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatTree:
		return true
	default:
		return false
	}
}

// IterationLabels values for NavigationConfig.
const (
	IterationLabelsIf    = "if"
	IterationLabelsWhile = "while"
)

// Defaults.
const (
	DefaultExtension     = ".rtf"
	DefaultFont          = "Arial"
	DefaultFontSize      = 32
	DefaultServerAddr    = ":8080"
	DefaultBodyLimit     = 10 << 20
	DefaultConfigName    = ".rtftplint.yml"
	DefaultIterationMode = IterationLabelsIf
)

// NavigationConfig controls navigation document rendering.
type NavigationConfig struct {
	// Font is the font of the navigation document.
	Font string `mapstructure:"font" yaml:"font"`

	// FontSize is in half-points.
	FontSize int `mapstructure:"font_size" yaml:"font_size"`

	// IterationLabels is "if" or "while" and selects the labels of WHILE links.
	IterationLabels string `mapstructure:"iteration_labels" yaml:"iteration_labels"`
}

// ServerConfig controls the HTTP validation service.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr" yaml:"addr"`

	// BodyLimit is the maximum request body size in bytes.
	BodyLimit int `mapstructure:"body_limit" yaml:"body_limit"`
}

// Config is the root configuration structure for rtftplint.
type Config struct {
	// Extensions lists the file extensions treated as templates when walking directories.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Jobs specifies the number of parallel workers (0 = GOMAXPROCS).
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// Navigation configures the navigation document.
	Navigation NavigationConfig `mapstructure:"navigation" yaml:"navigation"`

	// Server configures the HTTP service.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// NoSummary suppresses the summary line.
	NoSummary bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Extensions: []string{DefaultExtension},
		Ignore:     nil,
		Jobs:       0, // 0 means use GOMAXPROCS
		Navigation: NavigationConfig{
			Font:            DefaultFont,
			FontSize:        DefaultFontSize,
			IterationLabels: DefaultIterationMode,
		},
		Server: ServerConfig{
			Addr:      DefaultServerAddr,
			BodyLimit: DefaultBodyLimit,
		},
		Format: FormatText,
	}
}
