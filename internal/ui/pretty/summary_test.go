package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdsync/internal/ui/pretty"
	"github.com/yaklabco/mdsync/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "all resolved",
			stats: runner.Stats{FilesProcessed: 3, Blocks: 12, Resolved: 12},
			want:  "All 12 blocks resolved in 3 files\n",
		},
		{
			name:  "single file and block",
			stats: runner.Stats{FilesProcessed: 1, Blocks: 1, Resolved: 1},
			want:  "All 1 block resolved in 1 file\n",
		},
		{
			name:  "unresolved blocks and images",
			stats: runner.Stats{FilesProcessed: 2, Blocks: 12, Resolved: 10, Unresolved: 2, ImagesUnresolved: 1},
			want:  "10 of 12 blocks resolved (2 unresolved, 1 image unresolved) in 2 files\n",
		},
		{
			name:  "failed files",
			stats: runner.Stats{FilesProcessed: 1, FilesErrored: 2, Blocks: 2, Resolved: 2},
			want:  "All 2 blocks resolved in 1 file, 2 files failed\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, styles.FormatSummaryOneLine(testCase.stats))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatSummary(runner.Stats{
		FilesProcessed: 2,
		Blocks:         9,
		Resolved:       8,
		Unresolved:     1,
		Images:         2,
		ByStrategy:     map[string]int{"partial": 1, "exact": 6, "block-prefix": 1},
	})

	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Files processed      2")
	assert.Contains(t, out, "Unresolved           1")
	assert.Contains(t, out, "Images               2")
	assert.NotContains(t, out, "Images unresolved")
	assert.NotContains(t, out, "Files failed")

	// Strategies are listed alphabetically.
	prefix := strings.Index(out, "block-prefix")
	exact := strings.Index(out, "exact")
	partial := strings.Index(out, "partial")
	assert.True(t, prefix < exact && exact < partial, "strategy order in:\n%s", out)
}
