package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value instead of a
	// commented minimal file.
	Full bool

	// Format is "yaml" or "json".
	Format string
}

const minimalTemplate = `# mdsync configuration

# Markdown flavor: commonmark or gfm
flavor: commonmark

# Preview synchronization timings
# sync:
#   debounce: 300ms
#   highlight: 2s

# Span resolution tuning
# resolver:
#   prefix_length: 50
#   skip_distance: 50

# HTML output
# render:
#   unsafe: false
#   detect_language: true
#   class_prefix: mdsync

# mdsync serve
# server:
#   addr: ":8001"
#   root: docs

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if opts.Full {
		full := NewConfig()
		full.Ignore = []string{"vendor/**", "node_modules/**", ".git/**"}
		data, err = full.ToYAMLWithHeader(DefaultTemplateHeader())
		if err != nil {
			return nil, err
		}
	} else {
		data = []byte(minimalTemplate)
	}

	if opts.Format == "json" {
		return templateToJSON(data)
	}
	return data, nil
}

// templateToJSON converts a YAML template to JSON; comments are dropped.
func templateToJSON(yamlContent []byte) ([]byte, error) {
	var values map[string]any
	if err := yaml.Unmarshal(yamlContent, &values); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the header of generated config files.
func DefaultTemplateHeader() string {
	return `# mdsync configuration
# Generated by mdsync init`
}
