package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/shellsage/internal/config"
	"github.com/kamusis/shellsage/internal/fixes"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.shellsage with default config, .env and error patterns",
	Long: `Initialize ShellSage's data directory at ~/.shellsage/.

Writes config.yaml and a .env template for the embeddings provider when they
are missing, creates the index directory and seeds patterns.json with the
built-in error patterns. Existing files are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Resolve ~/.shellsage ───────────────────────────────────────────────
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dataDir, err)
	}
	printOK("", fmt.Sprintf("Data directory ready: %s", dataDir))

	// ── 2. Write config.yaml if missing ───────────────────────────────────────
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
	}

	// ── 3. .env template ──────────────────────────────────────────────────────
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		if err := config.EnsureDotEnvTemplate(); err != nil {
			return err
		}
		printOK("", fmt.Sprintf(".env template written: %s", envPath))
	} else {
		printSkip("", fmt.Sprintf(".env already exists: %s", envPath))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ── 4. Index directory ────────────────────────────────────────────────────
	if err := os.MkdirAll(cfg.Index.Dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", cfg.Index.Dir, err)
	}
	printOK("", fmt.Sprintf("Index directory ready: %s", cfg.Index.Dir))

	// ── 5. Error pattern store ────────────────────────────────────────────────
	if _, err := os.Stat(cfg.Fixes.PatternsPath); os.IsNotExist(err) {
		f := fixes.New(cfg.Fixes.PatternsPath, logger)
		printOK("", fmt.Sprintf("Error patterns written: %s (%d patterns)", cfg.Fixes.PatternsPath, len(f.Patterns())))
	} else {
		printSkip("", fmt.Sprintf("Error patterns already exist: %s", cfg.Fixes.PatternsPath))
	}

	fmt.Println()
	fmt.Println("Next: set SHELLSAGE_EMBEDDINGS_PROVIDER in .env, then run 'shellsage index build --file <history>'.")
	return nil
}
