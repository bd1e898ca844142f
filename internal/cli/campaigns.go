package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/adspanel/internal/application"
	"github.com/ericfisherdev/adspanel/internal/config"
	"github.com/ericfisherdev/adspanel/internal/domain/model"
	"github.com/ericfisherdev/adspanel/internal/domain/port/driven"
)

func newCampaignsCmd(cfg *config.Config, opts *globalOptions) *cobra.Command {
	var (
		account string
		demo    bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "campaigns",
		Short: "Show campaign performance for the last 30 days",
		Long: `Show campaign performance for the last 30 days. The account defaults to
the selected account, then to the credential's own customer id.

--demo prints placeholder rows without contacting the server.`,
		Args: cobra.NoArgs,
		RunE: withSession(cfg, opts, func(cmd *cobra.Command, _ []string, s *session) error {
			ctx := cmd.Context()

			var source application.CampaignSource = s.campaigns
			if demo {
				source = application.StubCampaignSource{}
			}

			id := account
			if id != "" {
				normalized, err := model.NormalizeCustomerID(id)
				if err != nil {
					return err
				}
				id = normalized
			} else if !demo {
				remembered, err := s.settings.Get(ctx, driven.SettingKeySelectedAccount)
				if err != nil {
					s.logger.Warn("could not read selected account", "error", err)
				}
				id = remembered
			}

			rows, err := source.Campaigns(ctx, id)
			if err != nil {
				return err
			}
			s.logger.Debug("campaigns fetched", "account", id, "rows", len(rows))

			if summary {
				sum := model.Summarize(rows)
				return render(cmd.OutOrStdout(), opts.Output, sum, summaryTable(sum))
			}
			return render(cmd.OutOrStdout(), opts.Output, rows, campaignsTable(rows))
		}),
	}

	f := cmd.Flags()
	f.StringVar(&account, "account", "", "Account id to report on")
	f.BoolVar(&demo, "demo", false, "Show placeholder rows instead of live data")
	f.BoolVar(&summary, "summary", false, "Show totals instead of one row per campaign")
	return cmd
}
