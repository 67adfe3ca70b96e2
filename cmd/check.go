package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/shellsage/internal/safety"
)

var checkCmd = &cobra.Command{
	Use:   "check <command>",
	Short: "Classify a shell command as safe, warning or dangerous",
	Long: `Run the safety checker on a command without executing it.

Exits non-zero when the command is dangerous, so it can guard scripts:
  shellsage check -- rm -rf / && echo ok`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

var flagCheckJSON bool

func init() {
	checkCmd.Flags().BoolVar(&flagCheckJSON, "json", false, "Print the assessment as JSON")
	rootCmd.AddCommand(checkCmd)
}

// errDangerous is returned by check for dangerous commands.
var errDangerous = errors.New("command is dangerous")

func runCheck(_ *cobra.Command, args []string) error {
	command := strings.Join(args, " ")
	a := safety.New().Check(command)

	if flagCheckJSON {
		if err := printJSON(a); err != nil {
			return err
		}
	} else {
		fmt.Printf("%s  %s\n", levelLabel(a.Level), command)
		if a.Warning != nil {
			fmt.Printf("\n%s\n", *a.Warning)
		}
		for _, r := range a.Reasons {
			fmt.Printf("  ● %s\n", r)
		}
	}
	if a.Level == safety.Dangerous {
		return errDangerous
	}
	return nil
}
