package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/shellsage/internal/app"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build, extend or inspect the command index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Replace the index with commands read from --file or stdin",
	Long: `Embed one command per line and replace the persisted index.

Blank lines are ignored. Example:
  shellsage index build --file ~/.bash_history
  history | cut -c8- | shellsage index build`,
	Args: cobra.NoArgs,
	RunE: runIndexBuild,
}

var indexAddCmd = &cobra.Command{
	Use:   "add [command...]",
	Short: "Append commands to the index",
	Long: `Append commands given as arguments, or one per line from --file or stdin
when no arguments are given.`,
	RunE: runIndexAdd,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and engine statistics",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

var (
	flagIndexFile string
	flagIndexJSON bool
)

func init() {
	indexCmd.PersistentFlags().StringVarP(&flagIndexFile, "file", "f", "", "Read commands from this file instead of stdin")
	indexStatsCmd.Flags().BoolVar(&flagIndexJSON, "json", false, "Print statistics as JSON")
	indexCmd.AddCommand(indexBuildCmd, indexAddCmd, indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	commands, err := inputCommands(cmd)
	if err != nil {
		return err
	}
	svc, err := openServices()
	if err != nil {
		return err
	}
	if err := svc.Index.Build(cmd.Context(), commands); err != nil {
		return fmt.Errorf("cannot build index: %w", err)
	}
	return saveIndex(svc, fmt.Sprintf("indexed %d command(s)", len(commands)))
}

func runIndexAdd(cmd *cobra.Command, args []string) error {
	commands := args
	if len(commands) == 0 {
		var err error
		if commands, err = inputCommands(cmd); err != nil {
			return err
		}
	}
	svc, err := openServices()
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		printSkip("", "no commands to add")
		return nil
	}
	if err := svc.Index.Add(cmd.Context(), commands); err != nil {
		return fmt.Errorf("cannot add commands: %w", err)
	}
	return saveIndex(svc, fmt.Sprintf("added %d command(s)", len(commands)))
}

func runIndexStats(_ *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	st := svc.Engine.Stats()
	if flagIndexJSON {
		return printJSON(st)
	}

	printSection("shellsage index")
	if !st.Index.Loaded {
		printMiss("", fmt.Sprintf("no index in %s", svc.Config.Index.Dir))
	} else {
		printOK("", fmt.Sprintf("%d command(s), dimension %d", st.Index.Count, st.Index.Dimension))
		printInfo("kind", st.Index.Kind)
		printInfo("model", st.Index.ModelID)
	}
	printInfo("top_k", fmt.Sprint(st.Config.TopK))
	printInfo("max_suggestions", fmt.Sprint(st.Config.MaxSuggestions))
	printInfo("similarity_threshold", fmt.Sprintf("%.2f", st.Config.SimilarityThreshold))
	printInfo("safety_check", fmt.Sprint(st.Config.SafetyCheckEnabled))
	return nil
}

func saveIndex(svc *app.Services, msg string) error {
	if err := svc.Index.Save(); err != nil {
		return fmt.Errorf("cannot save index: %w", err)
	}
	printOK("", fmt.Sprintf("%s, %d total in %s", msg, svc.Index.Stats().Count, svc.Config.Index.Dir))
	return nil
}

// inputCommands reads commands from --file, or from the command's stdin.
func inputCommands(cmd *cobra.Command) ([]string, error) {
	if flagIndexFile == "" {
		return readCommands(cmd.InOrStdin())
	}
	f, err := os.Open(flagIndexFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", flagIndexFile, err)
	}
	defer f.Close()
	return readCommands(f)
}

// readCommands returns the trimmed, non-blank lines of r.
func readCommands(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read commands: %w", err)
	}
	return out, nil
}
