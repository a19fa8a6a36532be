package processors

import (
	"fmt"
	"sort"

	"github.com/username/adlytics/backend/src/models"
	"github.com/username/adlytics/backend/src/utils"
)

// Rule thresholds. These are fixed contractual constants, not tunables:
// downstream consumers and historical sessions depend on the exact values.
const (
	highACOSThreshold    = 50.0
	highACOSMinSpend     = 10.0
	lowImpressionsMax    = 1000
	lowImpressionsSpend  = 5.0
	scalingMaxACOS       = 30.0
	scalingMinSales      = 100.0
	highCPCThreshold     = 2.0
	lowCPCThreshold      = 0.5
	lowCPCMaxImpressions = 5000
	budgetUpMaxACOS      = 30.0
	budgetUpMinSales     = 50.0
	budgetDownMinACOS    = 60.0
)

// optimizationProcessorImpl implements the OptimizationProcessor interface.
type optimizationProcessorImpl struct{}

// NewOptimizationProcessor creates a new instance of OptimizationProcessor.
func NewOptimizationProcessor() OptimizationProcessor {
	return &optimizationProcessorImpl{}
}

// Optimize evaluates the full rule set over the campaign aggregates and
// returns the comprehensive recommendation bundle.
func (p *optimizationProcessorImpl) Optimize(analytics *models.Analytics) *models.OptimizationResult {
	campaigns := analytics.CampaignAnalysis.CampaignDetails
	result := &models.OptimizationResult{
		Summary:                 &models.OptimizationSummary{TotalCampaigns: len(campaigns)},
		CampaignRecommendations: []models.Recommendation{},
		ScalingOpportunities:    []models.Recommendation{},
		BidAdjustments:          []*models.BidRecommendation{},
		BudgetRecommendations:   []*models.BudgetRecommendation{},
		PriorityActions:         p.priorityActions(analytics),
		ExpectedImpact:          p.expectedImpact(analytics.PerformanceSummary),
	}
	result.KeywordRecommendations = p.KeywordRecommendations(analytics)

	for _, c := range campaigns {
		if c.ACOS > highACOSThreshold && c.TotalSpend > highACOSMinSpend {
			savings := c.TotalSpend * 0.3
			result.CampaignRecommendations = append(result.CampaignRecommendations, models.Recommendation{
				Type:             "high_acos",
				Priority:         models.PriorityHigh,
				Title:            "High ACOS",
				Description:      "Reduce bids by 20-30% or pause underperforming keywords",
				CampaignID:       c.CampaignID,
				CampaignName:     c.Name,
				PotentialSavings: savings,
			})
			result.Summary.PotentialSavings += savings
			result.Summary.RecommendationsCount++
		}

		if c.TotalImpressions < lowImpressionsMax && c.TotalSpend > lowImpressionsSpend {
			revenue := c.TotalSales * 0.2
			result.CampaignRecommendations = append(result.CampaignRecommendations, models.Recommendation{
				Type:             "low_impressions",
				Priority:         models.PriorityMedium,
				Title:            "Low Impressions",
				Description:      "Increase bids by 15-25% or expand keyword targeting",
				CampaignID:       c.CampaignID,
				CampaignName:     c.Name,
				PotentialRevenue: revenue,
			})
			result.Summary.PotentialRevenueIncrease += revenue
			result.Summary.RecommendationsCount++
		}

		if c.ACOS < scalingMaxACOS && c.TotalSales > scalingMinSales {
			revenue := c.TotalSales * 0.5
			result.ScalingOpportunities = append(result.ScalingOpportunities, models.Recommendation{
				Type:             "scaling_opportunity",
				Priority:         models.PriorityHigh,
				Title:            "Scaling Opportunity",
				Description:      "Scale up: Increase budget by 50-100%",
				CampaignID:       c.CampaignID,
				CampaignName:     c.Name,
				PotentialRevenue: revenue,
			})
			result.Summary.PotentialRevenueIncrease += revenue
			result.Summary.RecommendationsCount++
		}

		if c.CPC > highCPCThreshold {
			result.BidAdjustments = append(result.BidAdjustments, &models.BidRecommendation{
				CampaignID:     c.CampaignID,
				CampaignName:   c.Name,
				Action:         "decrease",
				Percentage:     20,
				Reason:         "High cost per click",
				CurrentMetrics: c,
			})
		} else if c.CPC > 0 && c.CPC < lowCPCThreshold && c.TotalImpressions < lowCPCMaxImpressions {
			result.BidAdjustments = append(result.BidAdjustments, &models.BidRecommendation{
				CampaignID:     c.CampaignID,
				CampaignName:   c.Name,
				Action:         "increase",
				Percentage:     25,
				Reason:         "Low cost per click with low impressions",
				CurrentMetrics: c,
			})
		}

		if c.ACOS < budgetUpMaxACOS && c.TotalSales > budgetUpMinSales {
			result.BudgetRecommendations = append(result.BudgetRecommendations, &models.BudgetRecommendation{
				CampaignID:   c.CampaignID,
				CampaignName: c.Name,
				Action:       "increase_budget",
				Percentage:   75,
				Reason:       "High performance, low ACOS",
				CurrentSpend: c.TotalSpend,
			})
		} else if c.ACOS > budgetDownMinACOS {
			result.BudgetRecommendations = append(result.BudgetRecommendations, &models.BudgetRecommendation{
				CampaignID:   c.CampaignID,
				CampaignName: c.Name,
				Action:       "decrease_budget",
				Percentage:   40,
				Reason:       "Poor performance, high ACOS",
				CurrentSpend: c.TotalSpend,
			})
		}
	}

	result.Summary.PotentialSavings = utils.RoundFloat(result.Summary.PotentialSavings, 2)
	result.Summary.PotentialRevenueIncrease = utils.RoundFloat(result.Summary.PotentialRevenueIncrease, 2)
	return result
}

// CampaignOptimizations scores every campaign 1-10 and returns them ordered
// by descending priority. The score is used only for ordering here; it is
// never persisted.
func (p *optimizationProcessorImpl) CampaignOptimizations(analytics *models.Analytics) []*models.CampaignOptimization {
	var out []*models.CampaignOptimization
	for _, c := range analytics.CampaignAnalysis.CampaignDetails {
		out = append(out, &models.CampaignOptimization{
			CampaignID:      c.CampaignID,
			CampaignName:    c.Name,
			CurrentMetrics:  c,
			Recommendations: campaignSpecificRecommendations(c),
			Priority:        campaignPriority(c),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// campaignPriority scores one campaign on a 1-10 scale: base 5, bumped by
// spend, ACOS severity, and scaling potential, capped at 10.
func campaignPriority(c *models.CampaignAggregate) int {
	priority := 5

	switch {
	case c.TotalSpend > 1000:
		priority += 2
	case c.TotalSpend > 500:
		priority++
	}

	switch {
	case c.ACOS > 60:
		priority += 3
	case c.ACOS > 40:
		priority += 2
	case c.ACOS > 30:
		priority++
	}

	switch {
	case c.ROAS > 4:
		priority += 2
	case c.ROAS > 3:
		priority++
	}

	return utils.MinInt(priority, 10)
}

func campaignSpecificRecommendations(c *models.CampaignAggregate) []models.Recommendation {
	recs := []models.Recommendation{}
	if c.ACOS > 50 {
		recs = append(recs, models.Recommendation{
			Type:        "reduce_bids",
			Priority:    models.PriorityHigh,
			Description: "Reduce bids by 20-30% to lower ACOS",
		})
	}
	if c.CTR < 0.5 {
		recs = append(recs, models.Recommendation{
			Type:        "improve_targeting",
			Priority:    models.PriorityMedium,
			Description: "Review and improve keyword targeting for better CTR",
		})
	}
	if c.ROAS > 3 {
		recs = append(recs, models.Recommendation{
			Type:        "scale_campaign",
			Priority:    models.PriorityHigh,
			Description: "Increase budget to scale this high-performing campaign",
		})
	}
	return recs
}

// BidRecommendations classifies every campaign into increase / decrease /
// maintain. Campaigns that fit none of the three bands get no recommendation.
func (p *optimizationProcessorImpl) BidRecommendations(analytics *models.Analytics) []*models.BidRecommendation {
	var out []*models.BidRecommendation
	for _, c := range analytics.CampaignAnalysis.CampaignDetails {
		switch {
		case c.ROAS > 3 && c.ACOS < 30:
			out = append(out, &models.BidRecommendation{
				CampaignID: c.CampaignID, CampaignName: c.Name,
				Action: "increase", Percentage: 15,
				Reason:         "High ROAS and low ACOS - scale opportunity",
				CurrentMetrics: c,
			})
		case c.ACOS > 50:
			out = append(out, &models.BidRecommendation{
				CampaignID: c.CampaignID, CampaignName: c.Name,
				Action: "decrease", Percentage: 25,
				Reason:         "High ACOS - reduce spend",
				CurrentMetrics: c,
			})
		case c.ACOS >= 30 && c.ACOS <= 50 && c.ROAS >= 2:
			out = append(out, &models.BidRecommendation{
				CampaignID: c.CampaignID, CampaignName: c.Name,
				Action: "maintain", Percentage: 0,
				Reason:         "Balanced performance - monitor closely",
				CurrentMetrics: c,
			})
		}
	}
	return out
}

// KeywordRecommendations derives keyword-level suggestions from campaign
// performance: negative keywords for bleeders, expansion for invisibility,
// scaling for proven winners.
func (p *optimizationProcessorImpl) KeywordRecommendations(analytics *models.Analytics) []*models.KeywordRecommendation {
	var out []*models.KeywordRecommendation
	for _, c := range analytics.CampaignAnalysis.CampaignDetails {
		if c.ACOS > 50 {
			out = append(out, &models.KeywordRecommendation{
				CampaignID: c.CampaignID, CampaignName: c.Name,
				RecommendationType: "negative_keywords",
				Action:             "Add negative keywords for high-cost, low-converting search terms",
				Priority:           models.PriorityHigh,
				ExpectedImpact:     "Reduce ACOS by 15-25%",
				CurrentACOS:        c.ACOS,
			})
		}
		if c.TotalImpressions < 100 {
			out = append(out, &models.KeywordRecommendation{
				CampaignID: c.CampaignID, CampaignName: c.Name,
				RecommendationType: "keyword_expansion",
				Action:             "Add more relevant keywords to increase visibility",
				Priority:           models.PriorityMedium,
				ExpectedImpact:     "Increase impressions by 50-100%",
				CurrentImpressions: c.TotalImpressions,
			})
		}
		if c.TotalSales > c.TotalSpend*3 {
			out = append(out, &models.KeywordRecommendation{
				CampaignID: c.CampaignID, CampaignName: c.Name,
				RecommendationType: "keyword_scaling",
				Action:             "Scale successful keywords with higher bids",
				Priority:           models.PriorityHigh,
				ExpectedImpact:     "Increase sales by 20-40%",
				CurrentROAS:        c.ROAS,
			})
		}
	}
	return out
}

func (p *optimizationProcessorImpl) priorityActions(analytics *models.Analytics) []*models.PriorityAction {
	actions := []*models.PriorityAction{}
	summary := analytics.PerformanceSummary

	if summary.OverallACOS > 40 {
		actions = append(actions, &models.PriorityAction{
			Priority:    1,
			Action:      "Reduce high ACOS campaigns",
			Description: fmt.Sprintf("Overall ACOS is %.1f%% - focus on reducing spend on underperforming campaigns", summary.OverallACOS),
			Impact:      "high",
		})
	}
	if summary.OverallROAS < 2 {
		actions = append(actions, &models.PriorityAction{
			Priority:    2,
			Action:      "Improve ROAS",
			Description: fmt.Sprintf("Overall ROAS is %.2fx - optimize targeting and bids", summary.OverallROAS),
			Impact:      "high",
		})
	}
	if len(analytics.CampaignAnalysis.TopPerformers) > 0 {
		actions = append(actions, &models.PriorityAction{
			Priority:    3,
			Action:      "Scale top performing campaigns",
			Description: "Increase budgets for campaigns with ROAS > 3x",
			Impact:      "medium",
		})
	}
	return actions
}

// expectedImpact builds the conservative estimate roll-up: 20% ACOS
// reduction capped at 10 points, 15% ROAS lift, 10% spend savings, 15% sales
// increase, always labeled medium confidence.
func (p *optimizationProcessorImpl) expectedImpact(summary *models.PerformanceSummary) *models.ExpectedImpact {
	acosReduction := summary.OverallACOS * 0.2
	if acosReduction > 10 {
		acosReduction = 10
	}
	return &models.ExpectedImpact{
		ACOSImprovement:         acosReduction,
		ROASImprovement:         summary.OverallROAS * 0.15,
		EstimatedMonthlySavings: summary.TotalSpend * 0.1,
		EstimatedSalesIncrease:  summary.TotalSales * 0.15,
		ConfidenceLevel:         "medium",
	}
}

// Simulate applies proposed bid/budget changes to a performance summary using
// the fixed elasticity factors and re-derives ACOS and ROAS from the adjusted
// totals. The input summary is not mutated.
func (p *optimizationProcessorImpl) Simulate(summary *models.PerformanceSummary, changes models.SimulationChanges) *models.PerformanceSummary {
	sim := *summary

	if changes.BidAdjustment != 0 {
		bid := changes.BidAdjustment / 100
		// Spend moves less than the bid; clicks and sales follow with
		// progressively weaker elasticity.
		sim.TotalSpend *= 1 + bid*0.8
		sim.TotalClicks = int64(float64(sim.TotalClicks) * (1 + bid*0.6))
		sim.TotalSales *= 1 + bid*0.4
	}
	if changes.BudgetAdjustment != 0 {
		budget := changes.BudgetAdjustment / 100
		sim.TotalSpend *= 1 + budget
		sim.TotalSales *= 1 + budget*0.7
	}

	if sim.TotalSales > 0 {
		sim.OverallACOS = sim.TotalSpend / sim.TotalSales * 100
	}
	if sim.TotalSpend > 0 {
		sim.OverallROAS = sim.TotalSales / sim.TotalSpend
	}
	return &sim
}
