package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/steelegbr/alldaydj-sub000/api"
	"github.com/steelegbr/alldaydj-sub000/internal/config"
	"github.com/steelegbr/alldaydj-sub000/session"
	"github.com/steelegbr/alldaydj-sub000/store"
)

var (
	flagAPIURL    string
	flagTokenFile string
	jsonOutput    bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "alldaydj",
	Short: "Client for the AllDayDJ cart library",
	Long: `alldaydj is a command-line client for the AllDayDJ radio cart library backend.

It manages the login session locally - tokens are persisted on disk and the
access token is refreshed automatically while a session is being watched.

Environment Variables:
  ALLDAYDJ_API_URL        Backend API URL (default: http://localhost:8000)
  ALLDAYDJ_POLL_INTERVAL  Session re-check interval in milliseconds (default: 5000)
  ALLDAYDJ_TOKEN_FILE     Token store path (default: ~/.alldaydj/tokens.json)
  ALLDAYDJ_LOG_LEVEL      Log level (default: info)`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Backend API URL (overrides ALLDAYDJ_API_URL)")
	rootCmd.PersistentFlags().StringVar(&flagTokenFile, "token-file", "", "Token store path (overrides ALLDAYDJ_TOKEN_FILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// appContext wires the session core together for a single command run.
type appContext struct {
	cfg        config.Config
	log        zerolog.Logger
	tokenStore *store.FileStore
	client     *api.Client
	controller *session.Controller
}

func newAppContext(options ...session.ControllerOption) *appContext {
	cfg := config.New()
	log := newLogger(cfg)

	tokenStore := store.NewFileStore(tokenFilePath(cfg))
	client := api.New(apiBaseURL(cfg))
	resolver := session.NewResolver(tokenStore, log)
	refresher := session.NewRefreshCoordinator(client, tokenStore, log)

	options = append(options, session.WithPollInterval(cfg.GetPollInterval()))
	// The active tenancy survives process restarts alongside the tokens.
	if tenant, ok := tokenStore.Get(store.TenancyKey); ok && tenant != "" {
		options = append(options, session.WithInitialTenancy(tenant))
	}
	controller := session.NewController(resolver, refresher, tokenStore, log, options...)

	return &appContext{
		cfg:        cfg,
		log:        log,
		tokenStore: tokenStore,
		client:     client,
		controller: controller,
	}
}

func apiBaseURL(cfg config.Config) string {
	if flagAPIURL != "" {
		return flagAPIURL
	}
	return cfg.GetAPIBaseURL()
}

func tokenFilePath(cfg config.Config) string {
	if flagTokenFile != "" {
		return flagTokenFile
	}
	return cfg.GetTokenFile()
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
