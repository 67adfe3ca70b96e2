package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/shellsage/internal/rank"
	"github.com/kamusis/shellsage/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Suggest shell commands for a natural-language query",
	Long: `Retrieve commands similar to the query from the index, rerank them using
the current directory, git state and recent history, and annotate each with
a safety level.

Examples:
  shellsage suggest "show unstaged changes"
  shellsage suggest --last-command "git add ." --recent "git status" commit everything`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

var (
	flagSuggestCwd      string
	flagSuggestLast     string
	flagSuggestExitCode int
	flagSuggestRecent   []string
	flagSuggestMax      int
	flagSuggestJSON     bool
	flagSuggestExplain  bool
)

func init() {
	suggestCmd.Flags().StringVar(&flagSuggestCwd, "cwd", "", "Directory to use as context (default: current directory)")
	suggestCmd.Flags().StringVar(&flagSuggestLast, "last-command", "", "Previously executed command")
	suggestCmd.Flags().IntVar(&flagSuggestExitCode, "exit-code", 0, "Exit code of the previous command")
	suggestCmd.Flags().StringArrayVar(&flagSuggestRecent, "recent", nil, "Recently executed command (repeatable, oldest first)")
	suggestCmd.Flags().IntVarP(&flagSuggestMax, "max", "n", 0, "Maximum number of suggestions (default from config)")
	suggestCmd.Flags().BoolVar(&flagSuggestJSON, "json", false, "Print the full response as JSON")
	suggestCmd.Flags().BoolVar(&flagSuggestExplain, "explain", false, "Show the score breakdown for each suggestion")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}

	cwd := flagSuggestCwd
	if cwd == "" {
		if cwd, err = os.Getwd(); err != nil {
			return fmt.Errorf("cannot determine current directory: %w", err)
		}
	}

	req := suggest.Request{
		Query:          strings.Join(args, " "),
		Cwd:            cwd,
		LastCommand:    flagSuggestLast,
		RecentCommands: flagSuggestRecent,
		MaxSuggestions: flagSuggestMax,
	}
	if cmd.Flags().Changed("exit-code") {
		code := flagSuggestExitCode
		req.LastExitCode = &code
	}

	resp := svc.Engine.Suggest(cmd.Context(), req)
	if flagSuggestJSON {
		if err := printJSON(resp); err != nil {
			return err
		}
		if resp.Error != nil {
			return resp.Error
		}
		return nil
	}
	if resp.Error != nil {
		if resp.Error.Kind == suggest.KindState {
			return fmt.Errorf("%w\nRun 'shellsage index build' first.", resp.Error)
		}
		return resp.Error
	}
	printSuggestions(req.Query, resp)
	return nil
}

func printSuggestions(query string, resp suggest.Response) {
	fmt.Printf("\nshellsage suggest %q\n", query)
	if d := resp.Context.DirectoryType; d != "" {
		fmt.Printf("Context: %s (%s)", resp.Context.CwdBasename, d)
		if g := resp.Context.Git; g.IsGitRepo && g.Branch != nil {
			fmt.Printf(", git branch %s", *g.Branch)
		}
		fmt.Println()
	}
	if len(resp.Suggestions) == 0 {
		fmt.Println()
		printMiss("", resp.Message)
		return
	}
	fmt.Printf("\nSuggestions (%d of %d candidates):\n\n", len(resp.Suggestions), resp.TotalCandidates)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, s := range resp.Suggestions {
		level := ""
		if s.Safety != nil {
			level = levelLabel(s.Safety.Level)
		}
		fmt.Fprintf(w, "  %d.\t[%.3f]\t%s\t%s\n", s.Rank+1, s.FinalScore, s.Command, level)
		if flagSuggestExplain {
			fmt.Fprintf(w, "  \t\t%s\n", rank.Explain(s.Scored))
		}
	}
	_ = w.Flush()

	for _, s := range resp.Suggestions {
		if s.Safety != nil && s.Safety.Warning != nil {
			fmt.Println()
			printWarn(s.Command, *s.Safety.Warning)
		}
	}
}
