package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLIndent is the indentation of generated YAML.
const YAMLIndent = 2

// Overlay decodes a YAML (or JSON) document on top of c: keys present in
// data replace the current values, absent keys leave them alone. An empty
// document is a no-op. Durations use Go syntax such as "300ms".
func (c *Config) Overlay(data []byte) error {
	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// FromYAML parses a configuration. Absent keys keep their zero values.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := cfg.Overlay(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToYAML serializes the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	return c.ToYAMLWithHeader("")
}

// ToYAMLWithHeader serializes the configuration below a comment header,
// separated by a blank line.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(strings.TrimRight(header, "\n"))
		buf.WriteString("\n\n")
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(YAMLIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Ignore = slices.Clone(c.Ignore)
	clone.Server.AllowedOrigins = slices.Clone(c.Server.AllowedOrigins)
	return &clone
}
