package configloader

import "github.com/yaklabco/rtftplint/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Nested sections: merged field by field with the same rule
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// NoSummary can only be switched on; false is indistinguishable from unset.
	if override.NoSummary {
		result.NoSummary = true
	}

	result.Navigation = mergeNavigation(base.Navigation, override.Navigation)
	result.Server = mergeServer(base.Server, override.Server)

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

func mergeNavigation(base, override config.NavigationConfig) config.NavigationConfig {
	if override.Font != "" {
		base.Font = override.Font
	}
	if override.FontSize != 0 {
		base.FontSize = override.FontSize
	}
	if override.IterationLabels != "" {
		base.IterationLabels = override.IterationLabels
	}
	return base
}

func mergeServer(base, override config.ServerConfig) config.ServerConfig {
	if override.Addr != "" {
		base.Addr = override.Addr
	}
	if override.BodyLimit != 0 {
		base.BodyLimit = override.BodyLimit
	}
	return base
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
