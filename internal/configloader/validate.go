package configloader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/mdsync/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "sync.debounce").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// classPrefixPattern accepts CSS identifiers safe to splice into class names.
//
//nolint:gochecknoglobals // compiled once
var classPrefixPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		result.addError("", nil, "configuration is nil")
		return result
	}

	if !cfg.Flavor.IsValid() {
		result.addError("flavor", cfg.Flavor, "unknown flavor %q (expected commonmark or gfm)", cfg.Flavor)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format, "unknown format %q (expected text, table or json)", cfg.Format)
	}
	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "must not be negative")
	}

	validateSync(cfg.Sync, result)
	validateResolver(cfg.Resolver, result)

	if !classPrefixPattern.MatchString(cfg.Render.ClassPrefix) {
		result.addError("render.class_prefix", cfg.Render.ClassPrefix, "%q is not a valid CSS class prefix", cfg.Render.ClassPrefix)
	}
	if cfg.Render.Unsafe {
		result.addWarning("render.unsafe", true, "raw HTML and dangerous URLs will be passed through")
	}

	if cfg.Server.Addr == "" {
		result.addError("server.addr", "", "must not be empty")
	}
	if cfg.Server.Root != "" {
		if info, err := os.Stat(cfg.Server.Root); err != nil || !info.IsDir() {
			result.addWarning("server.root", cfg.Server.Root, "%q is not a directory", cfg.Server.Root)
		}
	}

	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob %q: %v", pattern, err)
		}
	}

	return result
}

func validateSync(sync config.SyncConfig, result *ValidationResult) {
	if sync.Debounce < 0 {
		result.addError("sync.debounce", sync.Debounce, "must not be negative")
	} else if sync.Debounce == 0 {
		result.addWarning("sync.debounce", sync.Debounce, "zero debounce re-renders on every change")
	}
	if sync.Highlight <= 0 {
		result.addError("sync.highlight", sync.Highlight, "must be positive")
	}
}

func validateResolver(resolver config.ResolverConfig, result *ValidationResult) {
	if resolver.PrefixLength <= 0 {
		result.addError("resolver.prefix_length", resolver.PrefixLength, "must be positive")
	}
	if resolver.SkipDistance <= 0 {
		result.addError("resolver.skip_distance", resolver.SkipDistance, "must be positive")
	}
}
