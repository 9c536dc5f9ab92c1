package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/internal/server"
	"github.com/yaklabco/mdsync/pkg/annotate"
	"github.com/yaklabco/mdsync/pkg/config"
	"github.com/yaklabco/mdsync/pkg/fsutil"
	"github.com/yaklabco/mdsync/pkg/runner"
)

type renderFlags struct {
	flavor string
	output string
	page   bool
	watch  bool
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Print the annotated HTML of a document",
		Long: `Render a Markdown document to HTML in which every block and image is
wrapped in a container carrying its source byte range.

Examples:
  mdsync render README.md                    # Annotated fragment to stdout
  mdsync render README.md --page -o out.html # Standalone page
  mdsync render README.md -o out.html --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&flags.page, "page", false, "wrap the output in a standalone HTML page")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "render again whenever the file changes")
	cmd.Flags().BoolVar(&cfg.Render.Unsafe, "unsafe", false, "pass raw HTML and dangerous URLs through")

	return cmd
}

// rendition is one rendered version of a document.
type rendition struct {
	result *runner.FileResult
	tree   *annotate.Tree
	snap   *fsutil.Snapshot
}

// renderer builds renditions of one file with a fixed configuration.
type renderer struct {
	runner    *runner.Runner
	annotator *annotate.Annotator
}

func newRenderer(cfg *config.Config) *renderer {
	return &renderer{
		runner:    runner.New(newEngine(cfg), newResolver(cfg)),
		annotator: newAnnotator(cfg),
	}
}

func (r *renderer) render(ctx context.Context, path string) (*rendition, error) {
	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	result, err := r.runner.ProcessText(ctx, path, string(content))
	if err != nil {
		return nil, err
	}
	tree, err := r.annotator.Annotate(result.Markup, result.Blocks)
	if err != nil {
		return nil, fmt.Errorf("annotate %s: %w", path, err)
	}
	return &rendition{result: result, tree: tree, snap: snap}, nil
}

func runRender(cmd *cobra.Command, path string, cliCfg *config.Config, flags *renderFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	cliCfg.Flavor = config.Flavor(flags.flavor)
	cfg, _, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	r := newRenderer(cfg)
	out := renderOutput{path: path, flags: flags, prefix: cfg.Render.ClassPrefix, stdout: cmd.OutOrStdout()}

	current, err := r.render(ctx, path)
	if err != nil {
		return err
	}
	if err := out.write(ctx, current); err != nil {
		return err
	}
	if !flags.watch {
		return nil
	}

	logger.Info("watching for changes", logging.FieldPath, path)
	return watchFile(ctx, path, func() error {
		changed, err := fsutil.Changed(ctx, current.snap, true)
		if err != nil || !changed {
			return err
		}
		next, err := r.render(ctx, path)
		if err != nil {
			// Keep watching; the editor may be mid-save.
			logger.Warn("render failed", logging.FieldPath, path, logging.FieldError, err)
			return nil
		}
		current = next
		logger.Info("rendered",
			logging.FieldPath, path,
			logging.FieldBlocks, next.result.Stats.Blocks,
			logging.FieldUnresolved, next.result.Stats.Unresolved)
		return out.write(ctx, next)
	})
}

// renderOutput writes renditions to stdout or a file.
type renderOutput struct {
	path   string
	prefix string
	flags  *renderFlags
	stdout io.Writer
}

func (o renderOutput) write(ctx context.Context, rend *rendition) error {
	var buf bytes.Buffer
	if o.flags.page {
		err := server.WritePage(&buf, server.PageData{
			Title:  strings.TrimSuffix(filepath.Base(o.path), filepath.Ext(o.path)),
			Path:   o.path,
			Prefix: o.prefix,
			Stats:  rend.result.Stats,
			HTML:   rend.tree.HTML,
		})
		if err != nil {
			return err
		}
	} else {
		buf.WriteString(rend.tree.HTML)
	}

	if o.flags.output == "" {
		_, err := o.stdout.Write(buf.Bytes())
		return err
	}
	if err := fsutil.WriteAtomic(ctx, o.flags.output, buf.Bytes(), fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// watchFile calls onChange for every event touching path until ctx is
// done. The directory is watched so that atomic replacements by editors
// are seen.
func watchFile(ctx context.Context, path string, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := onChange(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logging.Default().Warn("watch events dropped", logging.FieldPath, path)
				continue
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
}
