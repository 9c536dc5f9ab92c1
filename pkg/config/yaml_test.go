package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdsync/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies slices", func(t *testing.T) {
		original := config.NewConfig()
		original.Ignore = []string{"vendor/**"}
		original.Server.AllowedOrigins = []string{"https://docs.example.com"}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)

		clone.Ignore[0] = "changed"
		clone.Server.AllowedOrigins[0] = "changed"
		assert.Equal(t, "vendor/**", original.Ignore[0])
		assert.Equal(t, "https://docs.example.com", original.Server.AllowedOrigins[0])
	})

	t.Run("copies CLI-only fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Format = config.FormatJSON
		original.Jobs = 4
		original.Strict = true

		clone := original.Clone()
		assert.Equal(t, config.FormatJSON, clone.Format)
		assert.Equal(t, 4, clone.Jobs)
		assert.True(t, clone.Strict)
	})
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Flavor = config.FlavorGFM
	cfg.Sync.Debounce = 150 * time.Millisecond

	data, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "debounce: 150ms")
	assert.NotContains(t, string(data), "jobs")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.FlavorGFM, parsed.Flavor)
	assert.Equal(t, 150*time.Millisecond, parsed.Sync.Debounce)
	assert.Equal(t, 2*time.Second, parsed.Sync.Highlight)
	assert.Equal(t, config.DefaultAddr, parsed.Server.Addr)
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("partial document", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML([]byte("resolver:\n  skip_distance: 10\nrender:\n  unsafe: true\n"))
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Resolver.SkipDistance)
		assert.Zero(t, cfg.Resolver.PrefixLength)
		assert.True(t, cfg.Render.Unsafe)
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("sync:\n  debounce: soon\n"))
		require.Error(t, err)
	})
}

func TestToYAMLWithHeader(t *testing.T) {
	t.Parallel()

	data, err := config.NewConfig().ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Regexp(t, `^# header\n\nflavor: commonmark\n`, string(data))
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts config.TemplateOptions
	}{
		{name: "minimal yaml", opts: config.TemplateOptions{}},
		{name: "full yaml", opts: config.TemplateOptions{Full: true}},
		{name: "minimal json", opts: config.TemplateOptions{Format: "json"}},
		{name: "full json", opts: config.TemplateOptions{Full: true, Format: "json"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			data, err := config.GenerateTemplate(testCase.opts)
			require.NoError(t, err)

			if testCase.opts.Format == "json" {
				var values map[string]any
				require.NoError(t, json.Unmarshal(data, &values))
				assert.Equal(t, "commonmark", values["flavor"])
				return
			}

			cfg, err := config.FromYAML(data)
			require.NoError(t, err)
			assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
			if testCase.opts.Full {
				assert.Equal(t, config.DefaultDebounce, cfg.Sync.Debounce)
				assert.Contains(t, cfg.Ignore, "vendor/**")
			}
		})
	}
}

func TestValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, config.FlavorGFM.IsValid())
	assert.False(t, config.Flavor("markua").IsValid())
	assert.True(t, config.FormatTable.IsValid())
	assert.False(t, config.OutputFormat("sarif").IsValid())
}
