package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/adspanel/internal/application"
	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// render writes v in the requested format. table is called for table output.
func render(w io.Writer, format string, v any, table func(tw *tabwriter.Writer)) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func accountsTable(accounts []model.Account, selected string) func(*tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "\tID\tNAME\tTYPE\tSTATUS\tCURRENCY\tTIME ZONE")
		for _, a := range accounts {
			marker := ""
			if a.ID == selected {
				marker = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				marker, a.ID, a.Name, a.Type, a.Status, a.CurrencyCode, a.TimeZone)
		}
	}
}

func statusTable(state application.ConnectionState) func(*tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Connected:\t%t\n", state.IsConnected)
		fmt.Fprintf(tw, "Accounts:\t%d\n", len(state.Accounts))
		if state.SelectedAccount != "" {
			fmt.Fprintf(tw, "Selected account:\t%s\n", state.SelectedAccount)
		}
		if state.Status != nil {
			if info := state.Status.ManagerInfo; info != nil {
				fmt.Fprintf(tw, "Manager:\t%s (%s), %d clients\n", info.Name, info.ID, info.TotalClients)
			}
			if state.Status.Error != "" {
				fmt.Fprintf(tw, "Error:\t%s\n", state.Status.Error)
			}
		}
	}
}

func campaignsTable(rows []model.CampaignRow) func(*tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tTYPE\tIMPRESSIONS\tCLICKS\tCTR\tCPC\tCOST\tCONVERSIONS")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%.2f%%\t%.2f\t%.2f\t%.2f\n",
				r.ID, r.Name, r.Status, r.Type, r.Impressions, r.Clicks, r.CTR, r.CPC, r.Cost, r.Conversions)
		}
	}
}

func summaryTable(s model.CampaignSummary) func(*tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "Campaigns:\t%d\n", s.Campaigns)
		fmt.Fprintf(tw, "Active:\t%d\n", s.ActiveCampaigns)
		fmt.Fprintf(tw, "Total cost:\t%.2f\n", s.TotalCost)
		fmt.Fprintf(tw, "Total clicks:\t%d\n", s.TotalClicks)
		fmt.Fprintf(tw, "Total conversions:\t%.2f\n", s.TotalConversion)
		fmt.Fprintf(tw, "Average CTR:\t%.2f%%\n", s.AverageCTR)
	}
}
