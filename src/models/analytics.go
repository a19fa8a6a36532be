// backend/src/models/analytics.go
package models

import "time"

// PerformanceSummary is the single aggregate over an entire record set.
// All ratios follow the ratio-of-sums rule: they are recomputed from the
// summed counters, never averaged across rows.
type PerformanceSummary struct {
	TotalSpend       float64 `json:"total_spend"`
	TotalSales       float64 `json:"total_sales"`
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalOrders      int64   `json:"total_orders"`
	OverallACOS      float64 `json:"overall_acos"`
	OverallROAS      float64 `json:"overall_roas"`
	OverallCTR       float64 `json:"overall_ctr"`
	OverallCPC       float64 `json:"overall_cpc"`
	ConversionRate   float64 `json:"conversion_rate"`
}

// CampaignAggregate accumulates one campaign's counters across all of its
// records, then re-derives the ratios over the sums.
type CampaignAggregate struct {
	CampaignID       string  `json:"campaign_id"`
	Name             string  `json:"name"`
	TotalSpend       float64 `json:"total_spend"`
	TotalSales       float64 `json:"total_sales"`
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalOrders      int64   `json:"total_orders"`
	Days             int     `json:"days"`
	ACOS             float64 `json:"acos"`
	ROAS             float64 `json:"roas"`
	CTR              float64 `json:"ctr"`
	CPC              float64 `json:"cpc"`
	ConversionRate   float64 `json:"conversion_rate"`
}

// CampaignAnalysis groups the per-campaign aggregates with their rankings.
// Top performers are ranked by ROAS descending, worst performers by ACOS
// descending, both capped at five entries. Ranking is stable: campaigns with
// equal keys keep first-seen input order.
type CampaignAnalysis struct {
	TotalCampaigns  int                  `json:"total_campaigns"`
	TopPerformers   []*CampaignAggregate `json:"top_performers"`
	WorstPerformers []*CampaignAggregate `json:"worst_performers"`
	CampaignDetails []*CampaignAggregate `json:"campaign_details"`
}

// DailyAggregate is the per-calendar-date roll-up across all campaigns.
type DailyAggregate struct {
	Date        time.Time `json:"date"`
	Spend       float64   `json:"spend"`
	Sales       float64   `json:"sales"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	Orders      int64     `json:"orders"`
	ACOS        float64   `json:"acos"`
	ROAS        float64   `json:"roas"`
	CTR         float64   `json:"ctr"`
}

// Trend direction values, comparing the latest day's ACOS to the earliest.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// TrendAnalysis holds the daily time series, oldest first, plus the
// classified direction.
type TrendAnalysis struct {
	DailyPerformance []*DailyAggregate `json:"daily_performance"`
	TrendDirection   string            `json:"trend_direction"`
}

// CampaignEfficiency is a heuristic scalar per campaign: roas*10 - acos/10,
// floored at zero. Deliberately not normalized to a fixed range.
type CampaignEfficiency struct {
	CampaignID      string  `json:"campaign_id"`
	Name            string  `json:"name"`
	EfficiencyScore float64 `json:"efficiency_score"`
}

// EfficiencyMetrics holds the per-campaign scores and their arithmetic mean.
type EfficiencyMetrics struct {
	CampaignEfficiency []*CampaignEfficiency `json:"campaign_efficiency"`
	OverallEfficiency  float64               `json:"overall_efficiency"`
}

// Analytics is the full output of one analysis pass over a record set.
type Analytics struct {
	PerformanceSummary *PerformanceSummary `json:"performance_summary"`
	CampaignAnalysis   *CampaignAnalysis   `json:"campaign_analysis"`
	TrendAnalysis      *TrendAnalysis      `json:"trend_analysis"`
	EfficiencyMetrics  *EfficiencyMetrics  `json:"efficiency_metrics"`
	Recommendations    []Recommendation    `json:"recommendations"`
}

// Recommendation priority values.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is one typed, prioritized optimization suggestion. These are
// pure output of an analysis run: stamped once, never mutated.
type Recommendation struct {
	Type              string  `json:"type"`
	Priority          string  `json:"priority"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	AffectedCampaigns int     `json:"affected_campaigns,omitempty"`
	CampaignID        string  `json:"campaign_id,omitempty"`
	CampaignName      string  `json:"campaign_name,omitempty"`
	ExpectedImpact    string  `json:"expected_impact,omitempty"`
	PotentialSavings  float64 `json:"potential_savings,omitempty"`
	PotentialRevenue  float64 `json:"potential_revenue,omitempty"`
}

// BidRecommendation suggests a bid adjustment for a single campaign.
type BidRecommendation struct {
	CampaignID     string             `json:"campaign_id"`
	CampaignName   string             `json:"campaign_name"`
	Action         string             `json:"action"` // increase, decrease, maintain
	Percentage     int                `json:"percentage"`
	Reason         string             `json:"reason"`
	CurrentMetrics *CampaignAggregate `json:"current_metrics"`
}

// BudgetRecommendation suggests a budget change for a single campaign.
type BudgetRecommendation struct {
	CampaignID   string  `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	Action       string  `json:"action"` // increase_budget, decrease_budget
	Percentage   int     `json:"percentage"`
	Reason       string  `json:"reason"`
	CurrentSpend float64 `json:"current_spend"`
}

// KeywordRecommendation is a keyword-level optimization suggestion derived
// from campaign performance.
type KeywordRecommendation struct {
	CampaignID         string  `json:"campaign_id,omitempty"`
	CampaignName       string  `json:"campaign_name,omitempty"`
	RecommendationType string  `json:"recommendation_type"` // negative_keywords, keyword_expansion, keyword_scaling
	Action             string  `json:"action"`
	Priority           string  `json:"priority"`
	ExpectedImpact     string  `json:"expected_impact"`
	CurrentACOS        float64 `json:"current_acos,omitempty"`
	CurrentImpressions int64   `json:"current_impressions,omitempty"`
	CurrentROAS        float64 `json:"current_roas,omitempty"`
}

// PriorityAction is one entry of the ordered action list in an optimization
// response.
type PriorityAction struct {
	Priority    int    `json:"priority"`
	Action      string `json:"action"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// ExpectedImpact is the conservative roll-up estimate attached to every
// optimization response. Estimates, not guarantees; confidence is always
// reported alongside.
type ExpectedImpact struct {
	ACOSImprovement         float64 `json:"acos_improvement"`
	ROASImprovement         float64 `json:"roas_improvement"`
	EstimatedMonthlySavings float64 `json:"estimated_monthly_savings"`
	EstimatedSalesIncrease  float64 `json:"estimated_sales_increase"`
	ConfidenceLevel         string  `json:"confidence_level"`
}

// CampaignOptimization bundles a campaign's current metrics with its specific
// recommendations and a 1-10 priority score used for ordering.
type CampaignOptimization struct {
	CampaignID      string             `json:"campaign_id"`
	CampaignName    string             `json:"campaign_name"`
	CurrentMetrics  *CampaignAggregate `json:"current_metrics"`
	Recommendations []Recommendation   `json:"recommendations"`
	Priority        int                `json:"priority"`
}

// ReportSummaryRef is the slice of a report used by the comparison engine.
type ReportSummaryRef struct {
	ReportID   int64               `json:"report_id"`
	ReportName string              `json:"report_name"`
	Summary    *PerformanceSummary `json:"performance_summary"`
}

// ComparisonInsight is one relative finding across compared reports.
type ComparisonInsight struct {
	Type                 string  `json:"type"`
	BestReport           string  `json:"best_report,omitempty"`
	WorstReport          string  `json:"worst_report,omitempty"`
	BestValue            float64 `json:"best_value,omitempty"`
	WorstValue           float64 `json:"worst_value,omitempty"`
	ImprovementPotential float64 `json:"improvement_potential,omitempty"`
	MostEfficientReport  string  `json:"most_efficient_report,omitempty"`
	EfficiencyRatio      float64 `json:"efficiency_ratio,omitempty"`
	TotalSpend           float64 `json:"total_spend,omitempty"`
	TotalSales           float64 `json:"total_sales,omitempty"`
}

// Insights is the AI collaborator's response shape. The service tolerates
// malformed model output by wrapping raw text into the Insights list.
type Insights struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	PriorityActions []string `json:"priority_actions"`
}
