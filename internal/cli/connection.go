package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/adspanel/internal/config"
	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

func newConnectCmd(cfg *config.Config, opts *globalOptions) *cobra.Command {
	var creds model.Credentials

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Validate a credential set and store it locally",
		Long: `Validate a Google Ads credential set against the server. Accepted
credentials are stored in the local database and replace any previous set.
Rejected credentials are not stored.`,
		Args: cobra.NoArgs,
		RunE: withSession(cfg, opts, func(cmd *cobra.Command, _ []string, s *session) error {
			result, err := s.connection.Connect(cmd.Context(), creds)
			if err != nil {
				return err
			}
			if !result.IsValid {
				return result.Err()
			}
			state := s.connection.Snapshot()
			return render(cmd.OutOrStdout(), opts.Output, state, statusTable(state))
		}),
	}

	f := cmd.Flags()
	f.StringVar(&creds.CustomerID, "customer-id", "", "Google Ads customer id (dashes allowed)")
	f.StringVar(&creds.DeveloperToken, "developer-token", "", "Google Ads developer token")
	f.StringVar(&creds.ClientID, "client-id", "", "OAuth client id")
	f.StringVar(&creds.ClientSecret, "client-secret", "", "OAuth client secret")
	f.StringVar(&creds.RefreshToken, "refresh-token", "", "OAuth refresh token")
	return cmd
}

func newStatusCmd(cfg *config.Config, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Revalidate the stored credentials and show the connection",
		Args:  cobra.NoArgs,
		RunE: withSession(cfg, opts, func(cmd *cobra.Command, _ []string, s *session) error {
			if err := s.connection.Init(cmd.Context()); err != nil {
				return err
			}
			state := s.connection.Snapshot()
			return render(cmd.OutOrStdout(), opts.Output, state, statusTable(state))
		}),
	}
}

func newAccountsCmd(cfg *config.Config, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts reachable with the stored credentials",
		Long: `List the accounts reachable with the stored credentials. The selected
account is marked with "*".`,
		Args: cobra.NoArgs,
		RunE: withSession(cfg, opts, func(cmd *cobra.Command, _ []string, s *session) error {
			if err := connected(cmd, s); err != nil {
				return err
			}
			state := s.connection.Snapshot()
			return render(cmd.OutOrStdout(), opts.Output, state.Accounts,
				accountsTable(state.Accounts, state.SelectedAccount))
		}),
	}
}

func newSelectCmd(cfg *config.Config, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select <account-id>",
		Short: "Select the account used by default for campaign reports",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(cfg, opts, func(cmd *cobra.Command, args []string, s *session) error {
			id, err := model.NormalizeCustomerID(args[0])
			if err != nil {
				return err
			}
			if err := connected(cmd, s); err != nil {
				return err
			}
			if err := s.connection.SetSelectedAccount(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Selected account %s\n", id)
			return nil
		}),
	}
}

func newDisconnectCmd(cfg *config.Config, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Remove the stored credentials and selection",
		Args:  cobra.NoArgs,
		RunE: withSession(cfg, opts, func(cmd *cobra.Command, _ []string, s *session) error {
			if err := s.connection.Disconnect(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Disconnected")
			return nil
		}),
	}
}

// connected revalidates the stored credentials and fails unless they are
// accepted.
func connected(cmd *cobra.Command, s *session) error {
	if !s.cache.IsPresent() {
		return model.ErrNotAuthenticated
	}
	if err := s.connection.Init(cmd.Context()); err != nil {
		return err
	}
	state := s.connection.Snapshot()
	if state.IsConnected {
		return nil
	}
	if state.Status != nil {
		return state.Status.Err()
	}
	return errors.New("credentials were not accepted")
}
