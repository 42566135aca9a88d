package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/config"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
)

// setupLogging configures logging based on config file, environment,
// and CLI flags, and stores the logger and a trace ID on the command
// context.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logging.Result {
	loggingCfg := cfg.Logging

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.New(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackReason != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logging.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	logger.Debug().Str("command", cmd.Name()).Str("trace_id", traceID).Msg("command started")

	return result
}

// cleanupLogging releases the log file handle, if one was opened.
func cleanupLogging(result *logging.Result) error {
	if result == nil {
		return nil
	}
	return result.Close()
}
