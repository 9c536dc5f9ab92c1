package server

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/fsutil"
	"github.com/yaklabco/mdsync/pkg/resolve"
	"github.com/yaklabco/mdsync/pkg/runner"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; margin: 0 auto; padding: 2rem; max-width: 900px; line-height: 1.6; }
    pre { overflow-x: auto; padding: 0.75rem; background: #f4f4f4; }
    .{{.Prefix}}-block { border-left: 3px solid transparent; padding-left: 0.5rem; }
    .{{.Prefix}}-block:not([data-sync="off"]):hover { border-left-color: #cde; cursor: pointer; }
    .{{.Prefix}}-highlight { background: #fff6bf; border-left-color: #e0b400; }
    .{{.Prefix}}-unresolved { opacity: 0.8; }
    .meta { color: #666; font-size: 0.85rem; }
  </style>
</head>
<body>
  <p class="meta">{{.Path}} &middot; {{.Stats.Resolved}} of {{.Stats.Blocks}} blocks mapped</p>
  <article>{{.Content}}</article>
</body>
</html>`))

// PageData fills the standalone preview page.
type PageData struct {
	Title string
	Path  string
	// Prefix is the annotator's class prefix.
	Prefix string
	Stats  resolve.Stats
	// HTML is the annotated document.
	HTML string
}

// WritePage writes an annotated document as a standalone HTML page.
func WritePage(w io.Writer, data PageData) error {
	if data.Prefix == "" {
		data.Prefix = annotate.DefaultClassPrefix
	}
	err := pageTemplate.Execute(w, struct {
		PageData
		Content template.HTML
	}{
		PageData: data,
		//nolint:gosec // annotated output of the configured renderer
		Content: template.HTML(data.HTML),
	})
	if err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}

// rendered is a cached preview page and the file state it was built from.
type rendered struct {
	snap *fsutil.Snapshot
	page []byte
}

// previews renders documents below a root and caches them until the
// file changes.
type previews struct {
	root      string
	prefix    string
	runner    *runner.Runner
	annotator *annotate.Annotator

	mu    sync.Mutex
	pages map[string]rendered
}

func newPreviews(root, prefix string, run *runner.Runner, annotator *annotate.Annotator) *previews {
	return &previews{
		root:      root,
		prefix:    prefix,
		runner:    run,
		annotator: annotator,
		pages:     make(map[string]rendered),
	}
}

// page returns the annotated HTML page of requestPath, relative to the
// root.
func (p *previews) page(ctx context.Context, requestPath string) ([]byte, error) {
	full, err := fsutil.Within(p.root, requestPath)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	cached, ok := p.pages[full]
	p.mu.Unlock()
	if ok {
		changed, err := fsutil.Changed(ctx, cached.snap, false)
		if err == nil && !changed {
			return cached.page, nil
		}
	}

	content, snap, err := fsutil.ReadFile(ctx, full)
	if err != nil {
		return nil, err
	}
	tree, stats, err := p.render(ctx, full, string(content))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = WritePage(&buf, PageData{
		Title:  strings.TrimSuffix(filepath.Base(full), filepath.Ext(full)),
		Path:   requestPath,
		Prefix: p.prefix,
		Stats:  stats,
		HTML:   tree.HTML,
	})
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.pages[full] = rendered{snap: snap, page: buf.Bytes()}
	p.mu.Unlock()
	return buf.Bytes(), nil
}

// render tokenizes, resolves and annotates one document.
func (p *previews) render(ctx context.Context, path, text string) (*annotate.Tree, resolve.Stats, error) {
	res, err := p.runner.ProcessText(ctx, path, text)
	if err != nil {
		return nil, resolve.Stats{}, err
	}
	tree, err := p.annotator.Annotate(res.Markup, res.Blocks)
	if err != nil {
		return nil, resolve.Stats{}, fmt.Errorf("annotate %s: %w", path, err)
	}
	return tree, res.Stats, nil
}

// escapePre renders text as an unsynchronized read-only block.
func escapePre(text string) string {
	return "<pre>" + html.EscapeString(text) + "</pre>"
}
