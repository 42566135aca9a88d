package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/emissions"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/engine"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/server"
)

// NewServeCmd creates the "serve" subcommand running the carboncalc
// HTTP API.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the carboncalc HTTP API",
		Long: `Serve the manifest extraction and emission calculation API over
HTTP. Address enrichment is enabled through configuration. The server
shuts down gracefully on SIGINT or SIGTERM.`,
		Example: serveCmdExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr from config)")

	return cmd
}

const serveCmdExample = `  # Serve on the configured address
  carboncalc serve

  # Serve on an explicit address
  carboncalc serve --addr :8000

  # Debug logging for request tracing
  carboncalc serve --addr :8000 --debug`

// executeServe builds the engine from configuration and runs the HTTP
// server until the context is cancelled or a shutdown signal arrives.
func executeServe(cmd *cobra.Command, addr string) error {
	ctx := cmd.Context()
	cfg := configFrom(ctx)
	log := logging.FromContext(ctx)

	if addr == "" {
		addr = cfg.Server.Addr
	}

	table, err := loadFactorTable(cfg, "")
	if err != nil {
		return err
	}
	normalizer, err := buildNormalizer(cfg, cfg.Enrich.Enabled)
	if err != nil {
		return err
	}

	eng := engine.New(buildResolver(cfg), emissions.NewCalculator(table), normalizer)

	enrichment := "disabled"
	if normalizer != nil {
		enrichment = normalizer.Name()
	}
	log.Debug().Strs("factors", table.Describe()).Msg("factor table loaded")
	log.Info().Str("addr", addr).Str("enrichment", enrichment).Msg("starting server")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(eng, addr, log).Run(ctx)
}
