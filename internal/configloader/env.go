package configloader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/mdsync/pkg/config"
)

// envVarPrefix is the prefix for all mdsync environment variables.
const envVarPrefix = "MDSYNC_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeDuration
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":                 {field: "flavor", typ: envTypeString},
	"FORMAT":                 {field: "format", typ: envTypeString},
	"JOBS":                   {field: "jobs", typ: envTypeInt},
	"STRICT":                 {field: "strict", typ: envTypeBool},
	"IGNORE":                 {field: "ignore", typ: envTypeSlice},
	"SYNC_DEBOUNCE":          {field: "sync.debounce", typ: envTypeDuration},
	"SYNC_HIGHLIGHT":         {field: "sync.highlight", typ: envTypeDuration},
	"RESOLVER_PREFIX_LENGTH": {field: "resolver.prefix_length", typ: envTypeInt},
	"RESOLVER_SKIP_DISTANCE": {field: "resolver.skip_distance", typ: envTypeInt},
	"RENDER_UNSAFE":          {field: "render.unsafe", typ: envTypeBool},
	"RENDER_DETECT_LANGUAGE": {field: "render.detect_language", typ: envTypeBool},
	"RENDER_CLASS_PREFIX":    {field: "render.class_prefix", typ: envTypeString},
	"SERVER_ADDR":            {field: "server.addr", typ: envTypeString},
	"SERVER_ROOT":            {field: "server.root", typ: envTypeString},
	"SERVER_ALLOWED_ORIGINS": {field: "server.allowed_origins", typ: envTypeSlice},
}

// EnvVarNames returns the supported environment variable names.
func EnvVarNames() []string {
	names := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		names = append(names, envVarPrefix+suffix)
	}
	return names
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDSYNC_ (e.g., MDSYNC_FLAVOR).
// Empty values are ignored.
func LoadFromEnv(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil || lookup == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
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
		setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		setIntField(cfg, mapping.field, n)
	case envTypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q (expected e.g. 300ms)", envVar, value)
		}
		setDurationField(cfg, mapping.field, d)
	case envTypeSlice:
		setSliceField(cfg, mapping.field, splitList(value))
	}
	return nil
}

func setStringField(cfg *config.Config, field, value string) {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "render.class_prefix":
		cfg.Render.ClassPrefix = value
	case "server.addr":
		cfg.Server.Addr = value
	case "server.root":
		cfg.Server.Root = value
	}
}

func setBoolField(cfg *config.Config, field string, value bool) {
	switch field {
	case "strict":
		cfg.Strict = value
	case "render.unsafe":
		cfg.Render.Unsafe = value
	case "render.detect_language":
		cfg.Render.DetectLanguage = value
	}
}

func setIntField(cfg *config.Config, field string, value int) {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "resolver.prefix_length":
		cfg.Resolver.PrefixLength = value
	case "resolver.skip_distance":
		cfg.Resolver.SkipDistance = value
	}
}

func setDurationField(cfg *config.Config, field string, value time.Duration) {
	switch field {
	case "sync.debounce":
		cfg.Sync.Debounce = value
	case "sync.highlight":
		cfg.Sync.Highlight = value
	}
}

func setSliceField(cfg *config.Config, field string, value []string) {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "server.allowed_origins":
		cfg.Server.AllowedOrigins = value
	}
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
