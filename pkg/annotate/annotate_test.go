package annotate_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/markup"
	"github.com/yaklabco/mdsync/pkg/markup/mocks"
	"github.com/yaklabco/mdsync/pkg/mdast"
	"github.com/yaklabco/mdsync/pkg/parser/goldmark"
	"github.com/yaklabco/mdsync/pkg/resolve"
)

func annotateSource(t *testing.T, src string) *annotate.Tree {
	t.Helper()

	doc, err := goldmark.New(goldmark.FlavorGFM).Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	blocks := resolve.New(resolve.DefaultOptions()).Resolve(src, doc.Tokens())
	tree, err := annotate.New(annotate.Options{}).Annotate(doc, blocks)
	require.NoError(t, err)
	return tree
}

func TestAnnotate_Document(t *testing.T) {
	t.Parallel()

	tree := annotateSource(t, "# Title\n\n- one\n- two\n\n3. x\n\nSee ![logo](l.png)\n")

	require.Len(t, tree.Blocks(), 5)
	require.Len(t, tree.Indexed(), 5)

	assert.Contains(t, tree.HTML,
		`<div class="mdsync-block" data-node="b0" data-block="0" data-kind="heading" data-start="0" data-end="7">`+
			"<h1 id=\"title\">Title</h1>\n</div>\n")
	assert.Contains(t, tree.HTML, `<ul class="mdsync-group" data-node="g1">`)
	assert.Contains(t, tree.HTML,
		`<li class="mdsync-block" data-node="b1" data-block="1" data-kind="list_item" data-start="9" data-end="14">one</li>`)
	assert.Contains(t, tree.HTML, `<ol class="mdsync-group" data-node="g2" start="3">`)
	assert.Contains(t, tree.HTML,
		`<span class="mdsync-inline" data-node="b4.i0" data-image="0" data-start="32" data-end="46">`+
			`<img src="l.png" alt="logo"></span>`)

	group, ok := tree.Lookup("g1")
	require.True(t, ok)
	assert.Equal(t, annotate.KindGroup, group.Kind)
	require.Len(t, group.Children, 2)
	assert.Equal(t, "b2", group.Children[1].ID)
	assert.False(t, group.Navigable())

	img, ok := tree.Lookup("b4.i0")
	require.True(t, ok)
	assert.Equal(t, mdast.Span{Start: 32, End: 46}, img.Span)
	assert.Equal(t, "b4", img.Parent.ID)
	assert.True(t, img.Span.Within(img.Parent.Span))

	_, ok = tree.Lookup("b9")
	assert.False(t, ok)
}

func TestAnnotate_UnresolvedBlock(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	doc := mocks.NewMockDocument(ctrl)
	doc.EXPECT().RenderBlock(gomock.Any(), 0, gomock.Any()).
		DoAndReturn(func(w io.Writer, _ int, images markup.ImageWrapper) error {
			_, _ = io.WriteString(w, "<p>")
			require.NoError(t, images.OpenImage(w, 0))
			require.NoError(t, images.CloseImage(w, 0))
			_, err := io.WriteString(w, "</p>")
			return err
		})

	blocks := []mdast.Block{{
		Index:  0,
		Token:  mdast.Token{Kind: mdast.KindParagraph},
		Span:   mdast.Sentinel,
		Images: []mdast.InlineSpan{{Index: 0, Span: mdast.Sentinel}},
	}}

	tree, err := annotate.New(annotate.Options{ClassPrefix: "sync"}).Annotate(doc, blocks)
	require.NoError(t, err)

	assert.Empty(t, tree.Indexed())
	require.Len(t, tree.Blocks(), 1)
	assert.Equal(t,
		`<div class="sync-block sync-unresolved" data-node="b0" data-block="0" data-kind="paragraph" `+
			`data-start="0" data-end="0" data-sync="off"><p>`+
			`<span class="sync-inline" data-node="b0.i0" data-image="0" data-start="0" data-end="0" data-sync="off">`+
			"</span></p></div>\n",
		tree.HTML)
}

func TestAnnotate_CodeLanguage(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	doc := mocks.NewMockDocument(ctrl)
	doc.EXPECT().RenderBlock(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	blocks := []mdast.Block{
		{Index: 0, Token: mdast.Token{Kind: mdast.KindCodeBlock, Lang: "go"}, Span: mdast.Span{Start: 0, End: 5}},
		{Index: 1, Token: mdast.Token{Kind: mdast.KindCodeBlock, DetectedLang: `a"b`}, Span: mdast.Span{Start: 6, End: 9}},
	}

	tree, err := annotate.New(annotate.Options{}).Annotate(doc, blocks)
	require.NoError(t, err)

	assert.Contains(t, tree.HTML, `data-lang="go"`)
	assert.Contains(t, tree.HTML, `data-lang="a&quot;b"`)
}

func TestAnnotate_RenderError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	doc := mocks.NewMockDocument(ctrl)
	boom := errors.New("boom")
	doc.EXPECT().RenderBlock(gomock.Any(), 0, gomock.Any()).Return(boom)

	_, err := annotate.New(annotate.Options{}).Annotate(doc, []mdast.Block{{Index: 0}})
	require.ErrorIs(t, err, boom)
}
