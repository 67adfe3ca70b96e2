package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/kamusis/shellsage/cmd.version=...".
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ShellSage version and build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var flagVersionJSON bool

func init() {
	versionCmd.Flags().BoolVar(&flagVersionJSON, "json", false, "Print build information as JSON")
	rootCmd.AddCommand(versionCmd)
}

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:   version,
		Commit:    emptyAsNA(commit),
		BuildDate: emptyAsNA(buildDate),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func runVersion(_ *cobra.Command, _ []string) error {
	b := currentBuild()
	if flagVersionJSON {
		return printJSON(b)
	}
	fmt.Printf("shellsage %s (%s, built %s)\n", b.Version, b.Commit, b.BuildDate)
	fmt.Printf("%s %s\n", b.GoVersion, b.Platform)
	return nil
}

func emptyAsNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
