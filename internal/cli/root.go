// Package cli implements the adspanel command line: the server command and
// the client commands that manage the local connection.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/adspanel/internal/adapter/driven/backend"
	sqliteadapter "github.com/ericfisherdev/adspanel/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/adspanel/internal/application"
	"github.com/ericfisherdev/adspanel/internal/config"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	DBPath  string
	Server  string
	Output  string
	Verbose bool
}

// NewRootCmd builds the command tree. Flag defaults come from cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "adspanel",
		Short: "adspanel - Google Ads account connection and campaign reporting",
		Long: `adspanel connects a Google Ads credential set, lists the accounts it can
reach, and reports campaign performance over the last 30 days.

"adspanel serve" runs the API server that talks to Google Ads. The other
commands keep the credential set in a local SQLite file and call the server.

Examples:
  # Start the server
  adspanel serve

  # Connect and list accounts
  adspanel connect --customer-id 123-456-7890 --developer-token ... \
    --client-id ... --client-secret ... --refresh-token ...
  adspanel accounts

  # Campaign performance for the selected account, as YAML
  adspanel campaigns -o yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch opts.Output {
			case outputTable, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q: use table, json or yaml", opts.Output)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.DBPath, "db", cfg.DBPath, "Path to the local SQLite database")
	root.PersistentFlags().StringVar(&opts.Server, "server", cfg.BackendURL, "Base URL of the adspanel server")
	root.PersistentFlags().StringVarP(&opts.Output, "output", "o", outputTable, "Output format: table, json or yaml")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(cfg, opts),
		newConnectCmd(cfg, opts),
		newStatusCmd(cfg, opts),
		newAccountsCmd(cfg, opts),
		newSelectCmd(cfg, opts),
		newCampaignsCmd(cfg, opts),
		newOAuthURLCmd(cfg, opts),
		newOAuthExchangeCmd(cfg, opts),
		newDisconnectCmd(cfg, opts),
	)
	return root
}

// Execute loads configuration and runs the command tree with args.
func Execute(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	root := NewRootCmd(cfg)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// newLogger returns a text logger on stderr. --verbose forces debug level.
func newLogger(cmd *cobra.Command, cfg *config.Config, opts *globalOptions) *slog.Logger {
	level := cfg.LogLevel
	if opts.Verbose {
		level = slog.LevelDebug
	} else if level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// session holds the client-side wiring for one command invocation.
type session struct {
	db         *sqliteadapter.DB
	settings   *sqliteadapter.SettingsRepo
	cache      *application.CredentialCache
	backend    *backend.Client
	connection *application.Connection
	campaigns  *application.CampaignClient
	logger     *slog.Logger
}

// openSession opens the local database, loads the held credentials and wires
// the client services.
func openSession(cmd *cobra.Command, cfg *config.Config, opts *globalOptions) (*session, error) {
	ctx := cmd.Context()
	logger := newLogger(cmd, cfg, opts)

	db, err := sqliteadapter.NewDB(ctx, opts.DBPath)
	if err != nil {
		return nil, err
	}
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug("database ready", "path", opts.DBPath, "schema_version", version)

	credRepo, err := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if !credRepo.Encrypted() {
		logger.Debug("ADSPANEL_SECRET_KEY not set, credentials are stored unencrypted")
	}

	cache := application.NewCredentialCache(credRepo)
	if err := cache.Load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	settings := sqliteadapter.NewSettingsRepo(db)
	client := backend.NewClient(opts.Server, &http.Client{Timeout: cfg.HTTPTimeout}, logger)
	validator := application.NewValidationClient(client)

	return &session{
		db:         db,
		settings:   settings,
		cache:      cache,
		backend:    client,
		connection: application.NewConnection(cache, validator, settings, logger),
		campaigns:  application.NewCampaignClient(cache, client),
		logger:     logger,
	}, nil
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// withSession runs fn with an open session and closes it afterwards.
func withSession(cfg *config.Config, opts *globalOptions, fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, cfg, opts)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

// exitCode prints err to stderr and returns the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

// Main runs the CLI and returns the process exit code.
func Main(ctx context.Context, args []string) int {
	return exitCode(Execute(ctx, args))
}
