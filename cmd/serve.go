package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/s0up4200/experian/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Relay HTTP requests to Experian with the logged in session",
	Long: `Start an HTTP server exposing:

  GET  /healthz
  GET  /headers/:bin              business headers using server.subcode
  POST /api/:family/:endpoint     relay the JSON body to any endpoint`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(registry, server.Config{Addr: addr, Subcode: cfg.Server.Subcode}, logger)
	return srv.Run(cmd.Context())
}
