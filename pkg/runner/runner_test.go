package runner_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/pkg/markup"
	"github.com/yaklabco/mdsync/pkg/markup/mocks"
	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/parser/goldmark"
	"github.com/yaklabco/mdsync/pkg/resolve"
	"github.com/yaklabco/mdsync/pkg/runner"
)

func newRunner(engine markup.Engine) *runner.Runner {
	r := runner.New(engine, nil)
	r.Logger = logging.NewWithWriter(io.Discard, "debug")
	return r
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, dir, "b.md", "# H1\n\nP1\n\n# H2\n\nP2")
	write(t, dir, "a.md", "- one\n- two\n\n![logo](img/logo.png)\n")
	write(t, dir, "empty.md", "")

	result, err := newRunner(goldmark.New(goldmark.FlavorGFM)).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Jobs:       2,
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, filepath.Join(dir, "a.md"), result.Files[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.md"), result.Files[1].Path)
	assert.Equal(t, filepath.Join(dir, "empty.md"), result.Files[2].Path)

	stats := result.Stats
	assert.Equal(t, 3, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesProcessed)
	assert.Equal(t, 7, stats.Blocks)
	assert.Equal(t, 7, stats.Resolved)
	assert.Equal(t, 1, stats.Images)
	assert.False(t, result.HasUnresolved())
	assert.False(t, result.HasErrors())

	b := result.Files[1].Result
	require.NotNil(t, b)
	assert.Equal(t, []mdast.Span{{Start: 0, End: 4}, {Start: 6, End: 8}, {Start: 10, End: 14}, {Start: 16, End: 18}},
		[]mdast.Span{b.Blocks[0].Span, b.Blocks[1].Span, b.Blocks[2].Span, b.Blocks[3].Span})
	assert.Equal(t, "P2", b.Document.Slice(b.Blocks[3].Span))
}

func TestRunner_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner(goldmark.New(goldmark.FlavorCommonMark)).Run(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, 0, result.Stats.FilesDiscovered)
}

func TestRunner_EngineFailureIsPerFile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)

	dir := t.TempDir()
	write(t, dir, "bad.md", "bad")
	write(t, dir, "good.md", "good")

	inner := goldmark.New(goldmark.FlavorCommonMark)
	engine.EXPECT().Parse(gomock.Any(), []byte("bad")).Return(nil, markup.ErrUnavailable)
	engine.EXPECT().Parse(gomock.Any(), []byte("good")).DoAndReturn(inner.Parse)

	result, err := newRunner(engine).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	require.ErrorIs(t, result.Files[0].Error, markup.ErrUnavailable)
	assert.Nil(t, result.Files[0].Result)
	assert.NoError(t, result.Files[1].Error)
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.True(t, result.HasErrors())
}

func TestRunner_UnresolvedBlocks(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	doc := mocks.NewMockDocument(ctrl)

	dir := t.TempDir()
	write(t, dir, "doc.md", "# Title\n\ntext")

	engine.EXPECT().Parse(gomock.Any(), gomock.Any()).Return(doc, nil)
	doc.EXPECT().Tokens().Return([]mdast.Token{
		{Kind: mdast.KindHeading, Raw: "# Title", Level: 1},
		{Kind: mdast.KindParagraph, Raw: "rewritten by the tokenizer"},
	})

	result, err := newRunner(engine).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)

	assert.True(t, result.HasUnresolved())
	assert.Equal(t, 1, result.Stats.Unresolved)
	assert.Equal(t, 1, result.Stats.FilesWithUnresolved)
	assert.Equal(t, map[string]int{resolve.StrategyExact: 1}, result.Stats.ByStrategy)
	assert.True(t, result.Files[0].Result.Blocks[1].Span.IsSentinel())
}

func TestRunner_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, dir, "a.md", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(goldmark.New(goldmark.FlavorCommonMark)).Run(ctx, runner.Options{WorkingDir: dir})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestRunner_ProcessText(t *testing.T) {
	t.Parallel()

	res, err := newRunner(goldmark.New(goldmark.FlavorCommonMark)).ProcessText(context.Background(), "", "* alpha\n* beta\n")
	require.NoError(t, err)

	require.Len(t, res.Blocks, 2)
	assert.Equal(t, "* alpha", res.Document.Slice(res.Blocks[0].Span))
	assert.Equal(t, "* beta", res.Document.Slice(res.Blocks[1].Span))
	assert.Len(t, res.Markup.Tokens(), 2)
}
