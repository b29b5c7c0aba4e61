package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting uncommented with its default value.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# File extensions treated as templates when walking directories
extensions:
  - ".rtf"

# Number of parallel workers (0 = auto)
# jobs: 0

# File patterns to ignore (glob patterns)
# ignore:
#   - "archive/**"

# Navigation document
# navigation:
#   font: Arial
#   font_size: 32
#   # Labels of WHILE links: if or while
#   iteration_labels: if

# HTTP service (rtftplint serve)
# server:
#   addr: ":8080"
#   body_limit: 10485760
`)

	return buf.Bytes()
}

// generateFullTemplate writes every persisted setting with its default.
func generateFullTemplate() ([]byte, error) {
	return NewConfig().ToYAMLWithHeader(DefaultTemplateHeader() + "\n#\n# All settings are shown with their default values.")
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	doc := map[string]any{
		"extensions": cfg.Extensions,
		"ignore":     []string{},
		"jobs":       cfg.Jobs,
		"navigation": map[string]any{
			"font":             cfg.Navigation.Font,
			"font_size":        cfg.Navigation.FontSize,
			"iteration_labels": cfg.Navigation.IterationLabels,
		},
		"server": map[string]any{
			"addr":       cfg.Server.Addr,
			"body_limit": cfg.Server.BodyLimit,
		},
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# rtftplint configuration
# See: https://github.com/yaklabco/rtftplint`
}
