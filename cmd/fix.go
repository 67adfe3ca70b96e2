package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/shellsage/internal/config"
	"github.com/kamusis/shellsage/internal/fixes"
)

var fixCmd = &cobra.Command{
	Use:   "fix <error message>",
	Short: "Suggest fixes for a shell error message",
	Long: `Match an error message against the known error patterns in
~/.shellsage/patterns.json and print the suggested fixes, most confident first.

Example:
  shellsage fix --last-command "git push" "fatal: not a git repository"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

var (
	flagFixLast string
	flagFixJSON bool
)

func init() {
	fixCmd.Flags().StringVar(&flagFixLast, "last-command", "", "Command that produced the error")
	fixCmd.Flags().BoolVar(&flagFixJSON, "json", false, "Print matches as JSON")
	rootCmd.AddCommand(fixCmd)
}

// fixResult mirrors the /fix-error response body.
type fixResult struct {
	Success      bool          `json:"success"`
	Fixes        []fixes.Match `json:"fixes"`
	QuickFix     *string       `json:"quick_fix"`
	ErrorMessage string        `json:"error_message"`
}

func runFix(_ *cobra.Command, args []string) error {
	// Fixing errors needs neither the index nor an embeddings provider.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cannot load config: %w\nRun 'shellsage init' first.", err)
	}
	f := fixes.New(cfg.Fixes.PatternsPath, logger)

	res := findFixes(f, strings.Join(args, " "), flagFixLast)
	if flagFixJSON {
		return printJSON(res)
	}
	matches := res.Fixes

	printSection("shellsage fix")
	if len(matches) == 0 {
		printMiss("", "no known fix for this error")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("\n%s (%s, confidence %.2f)\n", m.Description, m.Category, m.Confidence)
		for _, fx := range m.Fixes {
			fmt.Printf("  ● %s\n", fx)
		}
	}
	if res.QuickFix != nil {
		fmt.Println()
		printOK("quick fix", *res.QuickFix)
	}
	return nil
}

func findFixes(f *fixes.Fixer, message, lastCommand string) fixResult {
	matches := f.FindFixes(message, lastCommand)
	res := fixResult{Success: true, Fixes: matches, ErrorMessage: message}
	if quick, ok := fixes.QuickFixFrom(matches); ok {
		res.QuickFix = &quick
	}
	return res
}
