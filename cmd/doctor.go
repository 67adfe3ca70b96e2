package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/shellsage/internal/config"
	"github.com/kamusis/shellsage/internal/embeddings"
	"github.com/kamusis/shellsage/internal/fixes"
	"github.com/kamusis/shellsage/internal/index"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that ShellSage's data directory, configuration, embeddings provider,
index and error patterns are usable. Run this when suggestions look wrong.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("shellsage doctor")
	fmt.Println()

	// ── Check 1: data directory ───────────────────────────────────────────────
	fmt.Println("[ Data directory ]")
	dataDir, err := config.DataDir()
	if err != nil {
		failD("cannot determine home directory: %v", err)
	} else if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		failD("%s not found, run 'shellsage init' first", dataDir)
	} else {
		printOK("", fmt.Sprintf("%s exists", dataDir))
	}
	fmt.Println()

	// ── Check 2: config.yaml ──────────────────────────────────────────────────
	fmt.Println("[ config.yaml ]")
	cfg, loadErr := config.Load()
	if loadErr != nil {
		failD("cannot load config: %v", loadErr)
	} else {
		printOK("", fmt.Sprintf("valid YAML, server %s:%d", cfg.Server.Host, cfg.Server.Port))
		if !cfg.Suggest.SafetyCheck {
			printWarn("", "safety checks are disabled")
		}
	}
	fmt.Println()

	// ── Check 3: embeddings provider ──────────────────────────────────────────
	fmt.Println("[ Embeddings ]")
	var prov embeddings.Provider
	ecfg, err := embeddings.LoadConfig()
	if err != nil {
		failD("cannot read embeddings config: %v", err)
	} else if prov, err = embeddings.NewFromConfig(ecfg); err != nil {
		failD("%v", err)
	} else {
		printOK(ecfg.Provider, fmt.Sprintf("model %s", prov.ModelID()))
	}
	fmt.Println()

	// ── Check 4: index ────────────────────────────────────────────────────────
	fmt.Println("[ Index ]")
	switch {
	case loadErr != nil || prov == nil:
		printWarn("", "skipped (config or provider not available)")
	default:
		idx := index.New(prov, index.Options{Dir: cfg.Index.Dir, Logger: logger})
		if !idx.Load() {
			printMiss("", fmt.Sprintf("no usable index in %s, run 'shellsage index build'", cfg.Index.Dir))
		} else {
			st := idx.Stats()
			printOK("", fmt.Sprintf("%d command(s), dimension %d, model %s", st.Count, st.Dimension, st.ModelID))
		}
	}
	fmt.Println()

	// ── Check 5: error patterns ───────────────────────────────────────────────
	fmt.Println("[ Error patterns ]")
	if loadErr != nil {
		printWarn("", "skipped (config not loaded)")
	} else if _, err := os.Stat(cfg.Fixes.PatternsPath); os.IsNotExist(err) {
		printMiss("", fmt.Sprintf("%s not found, run 'shellsage init'", cfg.Fixes.PatternsPath))
	} else {
		f := fixes.New(cfg.Fixes.PatternsPath, logger)
		if n := len(f.Patterns()); n == 0 {
			failD("%s contains no usable patterns", cfg.Fixes.PatternsPath)
		} else {
			printOK("", fmt.Sprintf("%d pattern(s) loaded", n))
		}
	}
	fmt.Println()

	// ── Check 6: git (optional) ───────────────────────────────────────────────
	fmt.Println("[ git ]")
	if out, err := exec.Command("git", "--version").Output(); err != nil {
		printWarn("", "git not found, suggestions will not use repository context")
	} else {
		printOK("", strings.TrimSpace(string(out)))
	}
	fmt.Println()

	if !allOK {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("  ✓  All checks passed.")
	return nil
}
