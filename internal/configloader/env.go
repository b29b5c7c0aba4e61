package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/rtftplint/pkg/config"
)

// envVarPrefix is the prefix for all rtftplint environment variables.
const envVarPrefix = "RTFTPLINT_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"EXTENSIONS":           {field: "extensions", typ: envTypeSlice, help: "Comma-separated list of template file extensions"},
	"IGNORE":               {field: "ignore", typ: envTypeSlice, help: "Comma-separated list of ignore patterns"},
	"JOBS":                 {field: "jobs", typ: envTypeInt, help: "Number of parallel workers (0 = auto)"},
	"FORMAT":               {field: "format", typ: envTypeString, help: "Output format: text, json, sarif, or tree"},
	"NAV_FONT":             {field: "navigation.font", typ: envTypeString, help: "Navigation document font"},
	"NAV_FONT_SIZE":        {field: "navigation.font_size", typ: envTypeInt, help: "Navigation font size in half-points"},
	"NAV_ITERATION_LABELS": {field: "navigation.iteration_labels", typ: envTypeString, help: "Labels of WHILE links: if or while"},
	"SERVER_ADDR":          {field: "server.addr", typ: envTypeString, help: "Listen address of the HTTP service"},
	"SERVER_BODY_LIMIT":    {field: "server.body_limit", typ: envTypeInt, help: "Maximum request body size in bytes"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with RTFTPLINT_ (e.g., RTFTPLINT_JOBS).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "navigation.font":
		cfg.Navigation.Font = value
	case "navigation.iteration_labels":
		cfg.Navigation.IterationLabels = value
	case "server.addr":
		cfg.Server.Addr = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "navigation.font_size":
		cfg.Navigation.FontSize = value
	case "server.body_limit":
		cfg.Server.BodyLimit = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.help
	}
	return vars
}
