package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdsync/internal/logging"
	"github.com/yaklabco/mdsync/internal/server"
	"github.com/yaklabco/mdsync/pkg/config"
)

func newServeCommand() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host synchronization sessions over HTTP",
		Long: `Start an HTTP server that keeps browser editors and their previews in
sync. Each editor opens a session, sends text changes and pointer events,
and applies the returned surface events. Documents below --root can be
opened by path and previewed under /preview/.

Settings also come from the server section of the configuration file,
MDSYNC_SERVER_* environment variables and a .env file.

Examples:
  mdsync serve
  mdsync serve --addr 127.0.0.1:9000 --root docs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, &cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Server.Addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&cfg.Server.Root, "root", "", "directory documents are served from")
	cmd.Flags().StringSliceVar(&cfg.Server.AllowedOrigins, "allowed-origin", nil, "allowed CORS origins (default any)")
	cmd.Flags().StringVar((*string)(&cfg.Flavor), "flavor", "", "Markdown flavor: commonmark, gfm")
	cmd.Flags().DurationVar(&cfg.Sync.Debounce, "debounce", 0, "quiet period before re-rendering")
	cmd.Flags().DurationVar(&cfg.Sync.Highlight, "highlight", 0, "how long highlights stay visible")

	return cmd
}

func runServe(cmd *cobra.Command, cliCfg *config.Config) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, _, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Engine:         newEngine(cfg),
		Resolver:       newResolver(cfg),
		Annotator:      newAnnotator(cfg),
		Root:           cfg.Server.Root,
		ClassPrefix:    cfg.Render.ClassPrefix,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Debounce:       cfg.Sync.Debounce,
		Highlight:      cfg.Sync.Highlight,
		Logger:         logging.Default(),
	})

	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
