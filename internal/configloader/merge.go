package configloader

import (
	"slices"

	"github.com/yaklabco/mdsync/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// It is used for CLI flags, where only set flags are non-zero:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans: only true overrides, so a flag cannot unset a file value
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Strict {
		result.Strict = true
	}

	if override.Sync.Debounce != 0 {
		result.Sync.Debounce = override.Sync.Debounce
	}
	if override.Sync.Highlight != 0 {
		result.Sync.Highlight = override.Sync.Highlight
	}

	if override.Resolver.PrefixLength != 0 {
		result.Resolver.PrefixLength = override.Resolver.PrefixLength
	}
	if override.Resolver.SkipDistance != 0 {
		result.Resolver.SkipDistance = override.Resolver.SkipDistance
	}

	if override.Render.Unsafe {
		result.Render.Unsafe = true
	}
	if override.Render.ClassPrefix != "" {
		result.Render.ClassPrefix = override.Render.ClassPrefix
	}

	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Server.Root != "" {
		result.Server.Root = override.Server.Root
	}

	// Slices: replace entirely if set
	if override.Server.AllowedOrigins != nil {
		result.Server.AllowedOrigins = slices.Clone(override.Server.AllowedOrigins)
	} else {
		result.Server.AllowedOrigins = slices.Clone(base.Server.AllowedOrigins)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	} else {
		result.Ignore = slices.Clone(base.Ignore)
	}

	return &result
}
