package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/adspanel/internal/config"
)

func newOAuthURLCmd(cfg *config.Config, opts *globalOptions) *cobra.Command {
	var clientID string

	cmd := &cobra.Command{
		Use:   "oauth-url",
		Short: "Print the Google consent URL for an OAuth client",
		Long: `Print the Google consent URL for an OAuth client. Open it in a browser,
approve access, then pass the code shown to "adspanel oauth-exchange".
Without --client-id the stored credential's client id is used.`,
		Args: cobra.NoArgs,
		RunE: withSession(cfg, opts, func(cmd *cobra.Command, _ []string, s *session) error {
			id := clientID
			if id == "" {
				if creds, ok := s.cache.Get(); ok {
					id = creds.ClientID
				}
			}
			url, err := s.backend.OAuthURL(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		}),
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id (defaults to the stored one)")
	return cmd
}

func newOAuthExchangeCmd(cfg *config.Config, opts *globalOptions) *cobra.Command {
	var clientID, clientSecret, code string

	cmd := &cobra.Command{
		Use:   "oauth-exchange",
		Short: "Exchange an authorization code for a refresh token",
		Args:  cobra.NoArgs,
		RunE: withSession(cfg, opts, func(cmd *cobra.Command, _ []string, s *session) error {
			token, err := s.backend.ExchangeCode(cmd.Context(), clientID, clientSecret, code)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&clientID, "client-id", "", "OAuth client id")
	f.StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	f.StringVar(&code, "code", "", "Authorization code from the consent page")
	return cmd
}
