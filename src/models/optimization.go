// backend/src/models/optimization.go
package models

// OptimizationSummary rolls up the counts and dollar estimates of one
// optimization pass.
type OptimizationSummary struct {
	TotalCampaigns           int     `json:"total_campaigns"`
	RecommendationsCount     int     `json:"recommendations_count"`
	PotentialSavings         float64 `json:"potential_savings"`
	PotentialRevenueIncrease float64 `json:"potential_revenue_increase"`
}

// OptimizationResult is the comprehensive output of the rule-based
// recommendation engine over one report's analytics.
type OptimizationResult struct {
	Summary                 *OptimizationSummary     `json:"summary"`
	CampaignRecommendations []Recommendation         `json:"campaign_recommendations"`
	ScalingOpportunities    []Recommendation         `json:"scaling_opportunities"`
	BidAdjustments          []*BidRecommendation     `json:"bid_adjustments"`
	BudgetRecommendations   []*BudgetRecommendation  `json:"budget_recommendations"`
	KeywordRecommendations  []*KeywordRecommendation `json:"keyword_recommendations"`
	PriorityActions         []*PriorityAction        `json:"priority_actions"`
	ExpectedImpact          *ExpectedImpact          `json:"expected_impact"`
}

// SimulationChanges are the proposed adjustments fed to the what-if
// simulator, each a percentage (25 means +25%).
type SimulationChanges struct {
	BidAdjustment    float64 `json:"bid_adjustment"`
	BudgetAdjustment float64 `json:"budget_adjustment"`
}

// SimulationImpact is the delta between current and simulated performance.
type SimulationImpact struct {
	SpendChange  float64 `json:"spend_change"`
	SalesChange  float64 `json:"sales_change"`
	ACOSChange   float64 `json:"acos_change"`
	ROASChange   float64 `json:"roas_change"`
	ProfitChange float64 `json:"profit_change"`
}
