package config_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtftplint/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies slices", func(t *testing.T) {
		original := &config.Config{
			Extensions: []string{".rtf"},
			Ignore:     []string{"archive/**"},
		}

		clone := original.Clone()
		clone.Extensions[0] = ".doc"
		clone.Ignore[0] = "changed"

		assert.Equal(t, ".rtf", original.Extensions[0])
		assert.Equal(t, "archive/**", original.Ignore[0])
	})

	t.Run("preserves all fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Jobs = 4
		original.Format = config.FormatJSON
		original.NoSummary = true
		original.Navigation.IterationLabels = config.IterationLabelsWhile

		assert.Equal(t, original, original.Clone())
	})
}

func TestConfigToYAML(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Format = config.FormatSARIF

	data, err := cfg.ToYAML()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "extensions:")
	assert.Contains(t, out, "font_size: 32")
	assert.Contains(t, out, "iteration_labels: if")
	assert.Contains(t, out, "addr: :8080")
	assert.NotContains(t, out, "sarif", "CLI-only fields are not persisted")

	var nilCfg *config.Config
	data, err = nilCfg.ToYAML()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestConfigToYAMLWithHeader(t *testing.T) {
	data, err := config.NewConfig().ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# header\n\nextensions:"))
}

func TestFromYAML(t *testing.T) {
	t.Run("partial document", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte("jobs: 3\nnavigation:\n  iteration_labels: while\n"))
		require.NoError(t, err)

		assert.Equal(t, 3, cfg.Jobs)
		assert.Equal(t, "while", cfg.Navigation.IterationLabels)
		assert.Empty(t, cfg.Navigation.Font)
		assert.Nil(t, cfg.Extensions)
	})

	t.Run("round trip", func(t *testing.T) {
		original := config.NewConfig()
		original.Ignore = []string{"old/**"}

		data, err := original.ToYAML()
		require.NoError(t, err)

		parsed, err := config.FromYAML(data)
		require.NoError(t, err)

		original.Format = ""
		assert.Equal(t, original, parsed)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := config.FromYAML([]byte("jobs: [1"))
		require.Error(t, err)
	})
}

func TestGenerateTemplate(t *testing.T) {
	tests := []struct {
		name string
		opts config.TemplateOptions
		want string
	}{
		{name: "minimal", opts: config.TemplateOptions{}, want: "# iteration_labels: if"},
		{name: "full", opts: config.TemplateOptions{Full: true}, want: "body_limit: 10485760"},
		{name: "json", opts: config.TemplateOptions{Format: "json"}, want: `"iteration_labels": "if"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := config.GenerateTemplate(tt.opts)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}

	t.Run("generated yaml loads", func(t *testing.T) {
		for _, full := range []bool{false, true} {
			data, err := config.GenerateTemplate(config.TemplateOptions{Full: full})
			require.NoError(t, err)

			cfg, err := config.FromYAML(data)
			require.NoError(t, err)
			assert.Equal(t, []string{".rtf"}, cfg.Extensions)
		}
	})

	t.Run("json is valid", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)
		assert.True(t, json.Valid(data))
	})
}

func TestOutputFormat_IsValid(t *testing.T) {
	for _, f := range []config.OutputFormat{config.FormatText, config.FormatJSON, config.FormatSARIF, config.FormatTree} {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, config.OutputFormat("diff").IsValid())
}
