package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamusis/shellsage/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ShellSage HTTP API",
	Long: `Serve suggestions, error fixes and index maintenance over HTTP.

The server loads the persisted index once at startup and shares one set of
components between all requests. It stops cleanly on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	flagServeHost string
	flagServePort int
)

func init() {
	serveCmd.Flags().StringVar(&flagServeHost, "host", "", "Listen host (overrides config)")
	serveCmd.Flags().IntVar(&flagServePort, "port", 0, "Listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}

	host, port := svc.Config.Server.Host, svc.Config.Server.Port
	if flagServeHost != "" {
		host = flagServeHost
	}
	if flagServePort > 0 {
		port = flagServePort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if svc.Config.Fixes.Watch {
		go func() {
			if err := svc.Fixer.Watch(ctx); err != nil {
				logger.Warn("pattern watcher stopped", zap.Error(err))
			}
		}()
	}

	st := svc.Index.Stats()
	if st.Loaded {
		printOK("index", fmt.Sprintf("%d command(s) loaded", st.Count))
	} else {
		printWarn("index", "no index loaded, POST /rebuild-index to create one")
	}
	printInfo("", fmt.Sprintf("listening on http://%s", addr))

	return server.New(svc, version).Run(ctx, addr)
}
