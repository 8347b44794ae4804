package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/experian/config"
	"github.com/s0up4200/experian/endpoints"
	"github.com/s0up4200/experian/experian"
)

// annotationNoSession marks commands that run without config or login
const annotationNoSession = "experian/no-session"

var (
	cfgFile  string
	cfg      *config.Config
	logger   zerolog.Logger
	client   *experian.Client
	registry *endpoints.Registry
	token    *experian.TokenResponse
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "experian",
	Short: "A client for the Experian business and consumer credit APIs",
	Long: `experian authenticates against the Experian API gateway and calls the
Business Information, Business Owner Profile, Small Business Credit Share and
Consumer Credit Profile endpoints.

Credentials are read from the config file or the EXPERIAN_CLIENT_ID,
EXPERIAN_CLIENT_SECRET, EXPERIAN_USERNAME and EXPERIAN_PASSWORD variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
	for _, familyCmd := range endpointCommands(endpoints.Catalog()) {
		rootCmd.AddCommand(familyCmd)
	}
}

func needsSession(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationNoSession] != "true"
}

// initializeApp loads the configuration, creates the client and logs in
func initializeApp(cmd *cobra.Command, args []string) error {
	if !needsSession(cmd) {
		logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
		return nil
	}

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create Experian client
	client, err = experian.NewClient(cfg.Experian.ClientID, cfg.Experian.ClientSecret, logger, clientOptions(cfg.Experian)...)
	if err != nil {
		return fmt.Errorf("failed to create Experian client: %w", err)
	}

	token, err = client.Login(cmd.Context(), cfg.Experian.Username, cfg.Experian.Password)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	registry = endpoints.New(client)
	return nil
}

func clientOptions(c config.ExperianConfig) []experian.Option {
	opts := []experian.Option{
		experian.WithVersion(c.Version),
		experian.WithSandbox(c.Sandbox),
		experian.WithTimeout(c.Timeout),
		experian.WithTLSVerification(c.VerifyTLS),
	}
	if c.BaseURL != "" {
		opts = append(opts, experian.WithBaseURL(c.BaseURL))
	}
	return opts
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
