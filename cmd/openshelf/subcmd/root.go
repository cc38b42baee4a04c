// Package subcmd wires the OpenShelf client layer into a command-line
// surface for driving the catalog from a terminal.
package subcmd

import (
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openshelf/openshelf/internal/catalog/api"
	"github.com/openshelf/openshelf/internal/catalog/config"
	"github.com/openshelf/openshelf/internal/catalog/metadata"
	"github.com/openshelf/openshelf/internal/catalog/state"
	"github.com/openshelf/openshelf/logging"
)

var (
	configPath string
	verbose    bool
)

// RootCmd is the top-level openshelf command.
var RootCmd = &cobra.Command{
	Use:   "openshelf",
	Short: "OpenShelf book catalog client",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// app bundles the shared collaborators every subcommand needs.
type app struct {
	cfg      *config.Config
	sessions *state.SessionStore
	books    *state.BookStore
	gateway  *api.Client
	metadata *metadata.Service
	logger   *logging.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := logging.WARN
	if verbose {
		level = logging.DEBUG
	}
	logger := logging.New("openshelf", level, os.Stderr)

	sessions := state.NewSessionStore(cfg.TokenFile())
	gateway, err := api.New(api.Config{
		BaseURL:           cfg.BaseURL,
		HTTPClient:        &http.Client{Timeout: cfg.Timeout()},
		Tokens:            sessions,
		Logger:            logger,
		RequestsPerSecond: cfg.Rate.RPS,
		Burst:             cfg.Rate.Burst,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		sessions: sessions,
		books:    state.NewBookStore(gateway),
		gateway:  gateway,
		metadata: metadata.NewService(&http.Client{Timeout: cfg.Timeout()}, logger, cfg.BooksAPIKey),
		logger:   logger,
	}, nil
}

// terminalNavigator stands in for the UI router: it just reports where a
// real front end would navigate.
type terminalNavigator struct{}

func (terminalNavigator) NavigateHome() {
	logrus.Info("navigate: home")
}

func (terminalNavigator) NavigateLogin() {
	logrus.Info("navigate: login")
}
