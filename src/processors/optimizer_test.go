package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/adlytics/backend/src/models"
)

func analyticsFor(campaigns ...*models.CampaignAggregate) *models.Analytics {
	summary := &models.PerformanceSummary{}
	for _, c := range campaigns {
		summary.TotalSpend += c.TotalSpend
		summary.TotalSales += c.TotalSales
	}
	if summary.TotalSales > 0 {
		summary.OverallACOS = summary.TotalSpend / summary.TotalSales * 100
	}
	if summary.TotalSpend > 0 {
		summary.OverallROAS = summary.TotalSales / summary.TotalSpend
	}
	return &models.Analytics{
		PerformanceSummary: summary,
		CampaignAnalysis: &models.CampaignAnalysis{
			TotalCampaigns:  len(campaigns),
			CampaignDetails: campaigns,
			TopPerformers:   campaigns,
			WorstPerformers: campaigns,
		},
		TrendAnalysis: &models.TrendAnalysis{TrendDirection: models.TrendStable},
	}
}

func TestOptimize_HighACOSCampaign(t *testing.T) {
	// ACOS 66.7 with spend above the floor triggers the high-ACOS rule with
	// estimated savings of 30% of spend.
	c := &models.CampaignAggregate{
		CampaignID: "C1", Name: "Bleeder",
		TotalSpend: 100, TotalSales: 150, ACOS: 66.7, ROAS: 1.5,
		TotalImpressions: 50000,
	}

	result := NewOptimizationProcessor().Optimize(analyticsFor(c))

	require.Len(t, result.CampaignRecommendations, 1)
	rec := result.CampaignRecommendations[0]
	assert.Equal(t, "high_acos", rec.Type)
	assert.Equal(t, models.PriorityHigh, rec.Priority)
	assert.Equal(t, "C1", rec.CampaignID)
	assert.InDelta(t, 30.0, rec.PotentialSavings, 1e-9)
	assert.InDelta(t, 30.0, result.Summary.PotentialSavings, 1e-9)
	assert.Equal(t, 1, result.Summary.RecommendationsCount)
}

func TestOptimize_ScalingOpportunity(t *testing.T) {
	c := &models.CampaignAggregate{
		CampaignID: "C1", Name: "Winner",
		TotalSpend: 40, TotalSales: 200, ACOS: 20, ROAS: 5,
		TotalImpressions: 50000,
	}

	result := NewOptimizationProcessor().Optimize(analyticsFor(c))

	require.Len(t, result.ScalingOpportunities, 1)
	assert.Equal(t, "scaling_opportunity", result.ScalingOpportunities[0].Type)
	assert.InDelta(t, 100.0, result.ScalingOpportunities[0].PotentialRevenue, 1e-9)
	assert.Empty(t, result.CampaignRecommendations)
}

func TestOptimize_LowImpressions(t *testing.T) {
	c := &models.CampaignAggregate{
		CampaignID: "C1", Name: "Invisible",
		TotalSpend: 10, TotalSales: 20, ACOS: 50, ROAS: 2,
		TotalImpressions: 500,
	}

	result := NewOptimizationProcessor().Optimize(analyticsFor(c))

	require.Len(t, result.CampaignRecommendations, 1)
	rec := result.CampaignRecommendations[0]
	assert.Equal(t, "low_impressions", rec.Type)
	assert.Equal(t, models.PriorityMedium, rec.Priority)
	assert.InDelta(t, 4.0, rec.PotentialRevenue, 1e-9)
}

func TestOptimize_BudgetRecommendations(t *testing.T) {
	up := &models.CampaignAggregate{
		CampaignID: "C1", Name: "Scale Up",
		TotalSpend: 20, TotalSales: 120, ACOS: 16.7, ROAS: 6,
		TotalImpressions: 20000,
	}
	down := &models.CampaignAggregate{
		CampaignID: "C2", Name: "Cut",
		TotalSpend: 80, TotalSales: 100, ACOS: 80, ROAS: 1.25,
		TotalImpressions: 20000,
	}

	result := NewOptimizationProcessor().Optimize(analyticsFor(up, down))

	require.Len(t, result.BudgetRecommendations, 2)
	assert.Equal(t, "increase_budget", result.BudgetRecommendations[0].Action)
	assert.Equal(t, "C1", result.BudgetRecommendations[0].CampaignID)
	assert.Equal(t, "decrease_budget", result.BudgetRecommendations[1].Action)
	assert.Equal(t, "C2", result.BudgetRecommendations[1].CampaignID)
}

func TestCampaignPriority(t *testing.T) {
	tests := []struct {
		name     string
		campaign *models.CampaignAggregate
		want     int
	}{
		{
			"baseline",
			&models.CampaignAggregate{TotalSpend: 100, ACOS: 20, ROAS: 1},
			5,
		},
		{
			"high spend and severe acos",
			&models.CampaignAggregate{TotalSpend: 1500, ACOS: 70, ROAS: 1},
			10, // 5 + 2 + 3
		},
		{
			"great roas adds scaling urgency",
			&models.CampaignAggregate{TotalSpend: 600, ACOS: 20, ROAS: 5},
			8, // 5 + 1 + 2
		},
		{
			"score is capped at ten",
			&models.CampaignAggregate{TotalSpend: 5000, ACOS: 90, ROAS: 5},
			10, // raw 12
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, campaignPriority(tt.campaign))
		})
	}
}

func TestCampaignOptimizations_OrderedByPriority(t *testing.T) {
	calm := &models.CampaignAggregate{CampaignID: "C1", Name: "Calm", TotalSpend: 100, ACOS: 20, ROAS: 1}
	urgent := &models.CampaignAggregate{CampaignID: "C2", Name: "Urgent", TotalSpend: 1500, ACOS: 70, ROAS: 1}

	out := NewOptimizationProcessor().CampaignOptimizations(analyticsFor(calm, urgent))

	require.Len(t, out, 2)
	assert.Equal(t, "C2", out[0].CampaignID)
	assert.Equal(t, 10, out[0].Priority)
	assert.Equal(t, "C1", out[1].CampaignID)
	assert.Equal(t, 5, out[1].Priority)
}

func TestBidRecommendations_Bands(t *testing.T) {
	tests := []struct {
		name       string
		campaign   *models.CampaignAggregate
		wantAction string
		wantNone   bool
	}{
		{
			"scale opportunity",
			&models.CampaignAggregate{CampaignID: "C1", ROAS: 4, ACOS: 20},
			"increase", false,
		},
		{
			"high acos",
			&models.CampaignAggregate{CampaignID: "C2", ROAS: 1, ACOS: 60},
			"decrease", false,
		},
		{
			"balanced",
			&models.CampaignAggregate{CampaignID: "C3", ROAS: 2.5, ACOS: 40},
			"maintain", false,
		},
		{
			"fits no band",
			&models.CampaignAggregate{CampaignID: "C4", ROAS: 1.5, ACOS: 20},
			"", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewOptimizationProcessor().BidRecommendations(analyticsFor(tt.campaign))
			if tt.wantNone {
				assert.Empty(t, out)
				return
			}
			require.Len(t, out, 1)
			assert.Equal(t, tt.wantAction, out[0].Action)
		})
	}
}

func TestKeywordRecommendations(t *testing.T) {
	c := &models.CampaignAggregate{
		CampaignID: "C1", Name: "Mixed",
		TotalSpend: 10, TotalSales: 40, ACOS: 60, ROAS: 4,
		TotalImpressions: 50,
	}

	out := NewOptimizationProcessor().KeywordRecommendations(analyticsFor(c))

	// One campaign can trip all three keyword rules at once.
	types := make(map[string]bool)
	for _, rec := range out {
		types[rec.RecommendationType] = true
	}
	assert.True(t, types["negative_keywords"])
	assert.True(t, types["keyword_expansion"])
	assert.True(t, types["keyword_scaling"])
}

func TestExpectedImpact_ACOSReductionCapped(t *testing.T) {
	summary := &models.PerformanceSummary{OverallACOS: 80, OverallROAS: 1.25, TotalSpend: 100, TotalSales: 125}
	analytics := &models.Analytics{
		PerformanceSummary: summary,
		CampaignAnalysis:   &models.CampaignAnalysis{},
	}

	result := NewOptimizationProcessor().Optimize(analytics)

	// 20% of 80 is 16, capped at 10 points.
	assert.InDelta(t, 10.0, result.ExpectedImpact.ACOSImprovement, 1e-9)
	assert.InDelta(t, 10.0, result.ExpectedImpact.EstimatedMonthlySavings, 1e-9)
	assert.Equal(t, "medium", result.ExpectedImpact.ConfidenceLevel)
}

func TestSimulate_BidAdjustment(t *testing.T) {
	summary := &models.PerformanceSummary{
		TotalSpend: 100, TotalSales: 200, TotalClicks: 100,
		OverallACOS: 50, OverallROAS: 2,
	}

	sim := NewOptimizationProcessor().Simulate(summary, models.SimulationChanges{BidAdjustment: 10})

	// Spend follows at 0.8x the bid change, clicks at 0.6x, sales at 0.4x.
	assert.InDelta(t, 108.0, sim.TotalSpend, 1e-9)
	assert.Equal(t, int64(106), sim.TotalClicks)
	assert.InDelta(t, 208.0, sim.TotalSales, 1e-9)
	assert.InDelta(t, 108.0/208.0*100, sim.OverallACOS, 1e-9)
	assert.InDelta(t, 208.0/108.0, sim.OverallROAS, 1e-9)

	// The input summary is untouched.
	assert.Equal(t, 100.0, summary.TotalSpend)
	assert.Equal(t, 50.0, summary.OverallACOS)
}

func TestSimulate_BudgetAdjustment(t *testing.T) {
	summary := &models.PerformanceSummary{
		TotalSpend: 100, TotalSales: 200,
		OverallACOS: 50, OverallROAS: 2,
	}

	sim := NewOptimizationProcessor().Simulate(summary, models.SimulationChanges{BudgetAdjustment: 20})

	// Spend scales 1:1 with budget; sales follow at 0.7x.
	assert.InDelta(t, 120.0, sim.TotalSpend, 1e-9)
	assert.InDelta(t, 228.0, sim.TotalSales, 1e-9)
}

func TestSimulate_NoChanges(t *testing.T) {
	summary := &models.PerformanceSummary{
		TotalSpend: 100, TotalSales: 200, OverallACOS: 50, OverallROAS: 2,
	}

	sim := NewOptimizationProcessor().Simulate(summary, models.SimulationChanges{})
	assert.Equal(t, summary, sim)
}
