package model

import (
	"math"
	"strconv"
)

const (
	microsPerUnit = 1_000_000

	// percentScale bounds the precision of percentages so that binary
	// float error from the ×100 step ("0.034" → 3.4000000000000004) is dropped.
	percentScale = 1e10
)

// CampaignRow is one campaign's performance over the trailing 30 days,
// already normalized for display.
type CampaignRow struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Status      string  `json:"status" yaml:"status"`
	Type        string  `json:"type" yaml:"type"`
	Budget      string  `json:"budget,omitempty" yaml:"budget,omitempty"`
	Impressions int64   `json:"impressions" yaml:"impressions"`
	Clicks      int64   `json:"clicks" yaml:"clicks"`
	Cost        float64 `json:"cost" yaml:"cost"`
	Conversions float64 `json:"conversions" yaml:"conversions"`
	CTR         float64 `json:"ctr" yaml:"ctr"`
	CPC         float64 `json:"cpc" yaml:"cpc"`
}

// CampaignMetrics holds the raw metric strings as the platform transmits
// them. Empty strings mean the field was absent.
type CampaignMetrics struct {
	Impressions string
	Clicks      string
	CostMicros  string
	Conversions string
	CTR         string
	AverageCPC  string
}

// Normalize converts raw metrics into display units: micros to currency,
// fractional CTR to a percentage. Absent or unparsable values become zero.
func (m CampaignMetrics) Normalize(row *CampaignRow) {
	row.Impressions = parseInt(m.Impressions)
	row.Clicks = parseInt(m.Clicks)
	row.Cost = MicrosToUnits(m.CostMicros)
	row.Conversions = parseFloat(m.Conversions)
	row.CTR = FractionToPercent(m.CTR)
	row.CPC = MicrosToUnits(m.AverageCPC)
}

// MicrosToUnits converts a micro-unit amount ("2500000") to currency units (2.5).
func MicrosToUnits(micros string) float64 {
	return parseFloat(micros) / microsPerUnit
}

// FractionToPercent converts a fraction ("0.034") to a percentage (3.4).
func FractionToPercent(fraction string) float64 {
	return math.Round(parseFloat(fraction)*100*percentScale) / percentScale
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some fields arrive as "12.0"; keep the integer part.
		return int64(parseFloat(s))
	}
	return v
}

// CampaignSummary aggregates campaign rows for the dashboard overview.
type CampaignSummary struct {
	Campaigns       int     `json:"campaigns" yaml:"campaigns"`
	ActiveCampaigns int     `json:"activeCampaigns" yaml:"activeCampaigns"`
	TotalCost       float64 `json:"totalCost" yaml:"totalCost"`
	TotalClicks     int64   `json:"totalClicks" yaml:"totalClicks"`
	TotalConversion float64 `json:"totalConversions" yaml:"totalConversions"`
	// AverageCTR is total clicks over total impressions, as a percentage.
	AverageCTR float64 `json:"averageCtr" yaml:"averageCtr"`
}

// Summarize totals rows. A campaign counts as active when its status is "enabled".
func Summarize(rows []CampaignRow) CampaignSummary {
	s := CampaignSummary{Campaigns: len(rows)}
	var impressions int64
	for _, r := range rows {
		if r.Status == "enabled" {
			s.ActiveCampaigns++
		}
		s.TotalCost += r.Cost
		s.TotalClicks += r.Clicks
		s.TotalConversion += r.Conversions
		impressions += r.Impressions
	}
	if impressions > 0 {
		s.AverageCTR = math.Round(float64(s.TotalClicks)/float64(impressions)*100*percentScale) / percentScale
	}
	return s
}
