package processors

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/adlytics/backend/src/models"
	"github.com/username/adlytics/backend/src/utils"
)

// analyticsProcessorImpl implements the AnalyticsProcessor interface.
type analyticsProcessorImpl struct{}

// NewAnalyticsProcessor creates a new instance of AnalyticsProcessor.
func NewAnalyticsProcessor() AnalyticsProcessor {
	return &analyticsProcessorImpl{}
}

// Analyze computes every aggregate in one pass over the records. Ratios are
// always recomputed from summed counters (ratio-of-sums); averaging per-row
// ratios would let low-traffic days skew the result.
func (p *analyticsProcessorImpl) Analyze(records []models.CanonicalRecord) (*models.Analytics, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	campaigns := p.analyzeCampaigns(records)
	return &models.Analytics{
		PerformanceSummary: p.summarize(records),
		CampaignAnalysis:   campaigns,
		TrendAnalysis:      p.analyzeTrends(records),
		EfficiencyMetrics:  p.efficiencyMetrics(campaigns.CampaignDetails),
		Recommendations:    p.baselineRecommendations(records),
	}, nil
}

func (p *analyticsProcessorImpl) summarize(records []models.CanonicalRecord) *models.PerformanceSummary {
	s := &models.PerformanceSummary{}
	for _, r := range records {
		s.TotalSpend += r.Spend
		s.TotalSales += r.Sales
		s.TotalImpressions += r.Impressions
		s.TotalClicks += r.Clicks
		s.TotalOrders += r.Orders
	}
	s.OverallACOS = ratio(s.TotalSpend, s.TotalSales) * 100
	s.OverallROAS = ratio(s.TotalSales, s.TotalSpend)
	s.OverallCTR = ratio(float64(s.TotalClicks), float64(s.TotalImpressions)) * 100
	s.OverallCPC = ratio(s.TotalSpend, float64(s.TotalClicks))
	s.ConversionRate = ratio(float64(s.TotalOrders), float64(s.TotalClicks)) * 100
	return s
}

func (p *analyticsProcessorImpl) analyzeCampaigns(records []models.CanonicalRecord) *models.CampaignAnalysis {
	byID := make(map[string]*models.CampaignAggregate)
	var inOrder []*models.CampaignAggregate // first-seen order, preserved through stable sorts

	for _, r := range records {
		agg, ok := byID[r.CampaignID]
		if !ok {
			agg = &models.CampaignAggregate{CampaignID: r.CampaignID, Name: r.CampaignName}
			byID[r.CampaignID] = agg
			inOrder = append(inOrder, agg)
		}
		agg.TotalSpend += r.Spend
		agg.TotalSales += r.Sales
		agg.TotalImpressions += r.Impressions
		agg.TotalClicks += r.Clicks
		agg.TotalOrders += r.Orders
		agg.Days++
	}

	for _, agg := range inOrder {
		agg.ACOS = ratio(agg.TotalSpend, agg.TotalSales) * 100
		agg.ROAS = ratio(agg.TotalSales, agg.TotalSpend)
		agg.CTR = ratio(float64(agg.TotalClicks), float64(agg.TotalImpressions)) * 100
		agg.CPC = ratio(agg.TotalSpend, float64(agg.TotalClicks))
		agg.ConversionRate = ratio(float64(agg.TotalOrders), float64(agg.TotalClicks)) * 100
	}

	top := make([]*models.CampaignAggregate, len(inOrder))
	copy(top, inOrder)
	sort.SliceStable(top, func(i, j int) bool { return top[i].ROAS > top[j].ROAS })

	worst := make([]*models.CampaignAggregate, len(inOrder))
	copy(worst, inOrder)
	sort.SliceStable(worst, func(i, j int) bool { return worst[i].ACOS > worst[j].ACOS })

	return &models.CampaignAnalysis{
		TotalCampaigns:  len(inOrder),
		TopPerformers:   top[:utils.MinInt(5, len(top))],
		WorstPerformers: worst[:utils.MinInt(5, len(worst))],
		CampaignDetails: inOrder,
	}
}

func (p *analyticsProcessorImpl) analyzeTrends(records []models.CanonicalRecord) *models.TrendAnalysis {
	byDate := make(map[time.Time]*models.DailyAggregate)
	for _, r := range records {
		day := r.Date.Truncate(24 * time.Hour)
		agg, ok := byDate[day]
		if !ok {
			agg = &models.DailyAggregate{Date: day}
			byDate[day] = agg
		}
		agg.Spend += r.Spend
		agg.Sales += r.Sales
		agg.Impressions += r.Impressions
		agg.Clicks += r.Clicks
		agg.Orders += r.Orders
	}

	daily := make([]*models.DailyAggregate, 0, len(byDate))
	for _, agg := range byDate {
		agg.ACOS = ratio(agg.Spend, agg.Sales) * 100
		agg.ROAS = ratio(agg.Sales, agg.Spend)
		agg.CTR = ratio(float64(agg.Clicks), float64(agg.Impressions)) * 100
		daily = append(daily, agg)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date.Before(daily[j].Date) })

	return &models.TrendAnalysis{
		DailyPerformance: daily,
		TrendDirection:   trendDirection(daily),
	}
}

// trendDirection compares the most recent day's ACOS against the earliest:
// more than a 10% move in either direction counts as a trend.
func trendDirection(daily []*models.DailyAggregate) string {
	if len(daily) < 2 {
		return models.TrendInsufficientData
	}
	earliest := daily[0].ACOS
	recent := daily[len(daily)-1].ACOS
	switch {
	case recent < earliest*0.9:
		return models.TrendImproving
	case recent > earliest*1.1:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func (p *analyticsProcessorImpl) efficiencyMetrics(campaigns []*models.CampaignAggregate) *models.EfficiencyMetrics {
	metrics := &models.EfficiencyMetrics{}
	var total float64
	for _, c := range campaigns {
		score := c.ROAS*10 - c.ACOS/10
		if score < 0 {
			score = 0
		}
		metrics.CampaignEfficiency = append(metrics.CampaignEfficiency, &models.CampaignEfficiency{
			CampaignID:      c.CampaignID,
			Name:            c.Name,
			EfficiencyScore: score,
		})
		total += score
	}
	if len(campaigns) > 0 {
		metrics.OverallEfficiency = total / float64(len(campaigns))
	}
	return metrics
}

// baselineRecommendations flags the coarse row-level signals that belong with
// every analysis response. The full rule engine lives in the optimization
// processor.
func (p *analyticsProcessorImpl) baselineRecommendations(records []models.CanonicalRecord) []models.Recommendation {
	var highACOS, lowImpressions, highROAS int
	for _, r := range records {
		if r.ACOS > 50 {
			highACOS++
		}
		if r.Impressions < 100 {
			lowImpressions++
		}
		if r.ROAS > 3 {
			highROAS++
		}
	}

	var recs []models.Recommendation
	if highACOS > 0 {
		recs = append(recs, models.Recommendation{
			Type:              "high_acos_alert",
			Priority:          models.PriorityHigh,
			Title:             "High ACOS Campaigns Detected",
			Description:       fmt.Sprintf("%d campaigns have ACOS above 50%%. Consider reducing bids or pausing underperforming keywords.", highACOS),
			AffectedCampaigns: highACOS,
		})
	}
	if lowImpressions > 0 {
		recs = append(recs, models.Recommendation{
			Type:              "low_impressions",
			Priority:          models.PriorityMedium,
			Title:             "Low Impression Campaigns",
			Description:       fmt.Sprintf("%d campaigns have very low impressions. Consider increasing bids or expanding keyword targeting.", lowImpressions),
			AffectedCampaigns: lowImpressions,
		})
	}
	if highROAS > 0 {
		recs = append(recs, models.Recommendation{
			Type:              "scale_opportunity",
			Priority:          models.PriorityHigh,
			Title:             "Scaling Opportunity",
			Description:       fmt.Sprintf("%d campaigns have excellent ROAS (>3x). Consider increasing budgets to scale these winners.", highROAS),
			AffectedCampaigns: highROAS,
		})
	}
	return recs
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
