package googleads

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ericfisherdev/adspanel/internal/domain/model"
)

const customerQuery = `
SELECT
  customer.id,
  customer.descriptive_name,
  customer.currency_code,
  customer.time_zone,
  customer.status,
  customer.manager
FROM customer
WHERE customer.id = %s`

const customerClientQuery = `
SELECT
  customer_client.id,
  customer_client.descriptive_name,
  customer_client.currency_code,
  customer_client.time_zone,
  customer_client.status,
  customer_client.level,
  customer_client.manager
FROM customer_client
WHERE customer_client.status != 'CANCELLED'
ORDER BY customer_client.descriptive_name`

const campaignQuery = `
SELECT
  campaign.id,
  campaign.name,
  campaign.status,
  campaign.advertising_channel_type,
  campaign.campaign_budget,
  metrics.impressions,
  metrics.clicks,
  metrics.cost_micros,
  metrics.conversions,
  metrics.ctr,
  metrics.average_cpc
FROM campaign
WHERE campaign.status != 'REMOVED'
  AND segments.date DURING LAST_30_DAYS
ORDER BY campaign.name`

// number accepts either a JSON string or a JSON number and keeps the textual
// form. The REST API encodes int64 fields as strings and doubles as numbers.
type number string

func (n *number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = number(s)
		return nil
	}
	*n = number(b)
	return nil
}

type customerJSON struct {
	ID              number `json:"id"`
	DescriptiveName string `json:"descriptiveName"`
	CurrencyCode    string `json:"currencyCode"`
	TimeZone        string `json:"timeZone"`
	Status          string `json:"status"`
	Level           number `json:"level"`
	Manager         bool   `json:"manager"`
}

func (c customerJSON) toModel() model.Customer {
	level, _ := strconv.Atoi(string(c.Level))
	return model.Customer{
		ID:              string(c.ID),
		DescriptiveName: c.DescriptiveName,
		CurrencyCode:    c.CurrencyCode,
		TimeZone:        c.TimeZone,
		Status:          c.Status,
		Level:           level,
		Manager:         c.Manager,
	}
}

type customerRow struct {
	Customer *customerJSON `json:"customer"`
}

type customerClientRow struct {
	CustomerClient *customerJSON `json:"customerClient"`
}

type campaignRow struct {
	Campaign *struct {
		ID                     number `json:"id"`
		Name                   string `json:"name"`
		Status                 string `json:"status"`
		AdvertisingChannelType string `json:"advertisingChannelType"`
		CampaignBudget         string `json:"campaignBudget"`
	} `json:"campaign"`
	Metrics *struct {
		Impressions number `json:"impressions"`
		Clicks      number `json:"clicks"`
		CostMicros  number `json:"costMicros"`
		Conversions number `json:"conversions"`
		Ctr         number `json:"ctr"`
		AverageCpc  number `json:"averageCpc"`
	} `json:"metrics"`
}

// GetCustomer returns the customer record for customerID, or nil if the query
// returned no rows.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*model.Customer, error) {
	rows, err := search[customerRow](ctx, c, "get_customer", customerID, fmt.Sprintf(customerQuery, customerID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].Customer == nil {
		return nil, nil
	}

	customer := rows[0].Customer.toModel()
	return &customer, nil
}

// ListCustomerClients returns the non-cancelled accounts under managerID.
func (c *Client) ListCustomerClients(ctx context.Context, managerID string) ([]model.Customer, error) {
	rows, err := search[customerClientRow](ctx, c, "list_customer_clients", managerID, customerClientQuery)
	if err != nil {
		return nil, err
	}

	clients := make([]model.Customer, 0, len(rows))
	for _, row := range rows {
		if row.CustomerClient == nil {
			continue
		}
		clients = append(clients, row.CustomerClient.toModel())
	}
	return clients, nil
}

// ListCampaignPerformance returns normalized campaign rows for customerID.
func (c *Client) ListCampaignPerformance(ctx context.Context, customerID string) ([]model.CampaignRow, error) {
	rows, err := search[campaignRow](ctx, c, "list_campaigns", customerID, campaignQuery)
	if err != nil {
		return nil, err
	}

	campaigns := make([]model.CampaignRow, 0, len(rows))
	for _, row := range rows {
		campaigns = append(campaigns, mapCampaignRow(row))
	}
	return campaigns, nil
}

// mapCampaignRow converts a search result row into a display row.
func mapCampaignRow(row campaignRow) model.CampaignRow {
	var out model.CampaignRow
	if row.Campaign != nil {
		out.ID = string(row.Campaign.ID)
		out.Name = row.Campaign.Name
		out.Status = strings.ToLower(row.Campaign.Status)
		out.Type = row.Campaign.AdvertisingChannelType
		out.Budget = row.Campaign.CampaignBudget
	}

	var metrics model.CampaignMetrics
	if row.Metrics != nil {
		metrics = model.CampaignMetrics{
			Impressions: string(row.Metrics.Impressions),
			Clicks:      string(row.Metrics.Clicks),
			CostMicros:  string(row.Metrics.CostMicros),
			Conversions: string(row.Metrics.Conversions),
			CTR:         string(row.Metrics.Ctr),
			AverageCPC:  string(row.Metrics.AverageCpc),
		}
	}
	metrics.Normalize(&out)
	return out
}
