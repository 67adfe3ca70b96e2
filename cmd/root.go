package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kamusis/shellsage/internal/app"
)

var (
	flagVerbose bool
	logger      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "shellsage",
	Short:        "ShellSage: context-aware shell command suggestions",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `ShellSage suggests shell commands from your own history, reranked by the
directory you are in, its git state and the files around you. Suggestions are
annotated with safety warnings and common errors map to known fixes.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if flagVerbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openServices loads config and the embeddings provider and builds the shared
// components.
func openServices() (*app.Services, error) {
	svc, err := app.Open(logger)
	if err != nil {
		return nil, fmt.Errorf("cannot start shellsage: %w", err)
	}
	return svc, nil
}
