package processors

import (
	"github.com/username/adlytics/backend/src/models"
)

// comparisonProcessorImpl implements the ComparisonProcessor interface.
type comparisonProcessorImpl struct{}

// NewComparisonProcessor creates a new instance of ComparisonProcessor.
func NewComparisonProcessor() ComparisonProcessor {
	return &comparisonProcessorImpl{}
}

// Compare computes relative deltas across already-aggregated reports: best
// and worst ACOS, best and worst ROAS, and the most spend-efficient report.
// Ties resolve to the first report supplied.
func (p *comparisonProcessorImpl) Compare(reports []*models.ReportSummaryRef) ([]*models.ComparisonInsight, error) {
	if len(reports) < 2 {
		return nil, ErrInsufficientReports
	}

	bestACOS, worstACOS := 0, 0
	bestROAS, worstROAS := 0, 0
	mostEfficient := 0
	for i, r := range reports {
		if r.Summary.OverallACOS < reports[bestACOS].Summary.OverallACOS {
			bestACOS = i
		}
		if r.Summary.OverallACOS > reports[worstACOS].Summary.OverallACOS {
			worstACOS = i
		}
		if r.Summary.OverallROAS > reports[bestROAS].Summary.OverallROAS {
			bestROAS = i
		}
		if r.Summary.OverallROAS < reports[worstROAS].Summary.OverallROAS {
			worstROAS = i
		}
		if spendEfficiency(r.Summary) > spendEfficiency(reports[mostEfficient].Summary) {
			mostEfficient = i
		}
	}

	insights := []*models.ComparisonInsight{
		{
			Type:                 "acos_comparison",
			BestReport:           reports[bestACOS].ReportName,
			BestValue:            reports[bestACOS].Summary.OverallACOS,
			WorstReport:          reports[worstACOS].ReportName,
			WorstValue:           reports[worstACOS].Summary.OverallACOS,
			ImprovementPotential: reports[worstACOS].Summary.OverallACOS - reports[bestACOS].Summary.OverallACOS,
		},
		{
			Type:                 "roas_comparison",
			BestReport:           reports[bestROAS].ReportName,
			BestValue:            reports[bestROAS].Summary.OverallROAS,
			WorstReport:          reports[worstROAS].ReportName,
			WorstValue:           reports[worstROAS].Summary.OverallROAS,
			ImprovementPotential: reports[bestROAS].Summary.OverallROAS - reports[worstROAS].Summary.OverallROAS,
		},
		{
			Type:                "efficiency_comparison",
			MostEfficientReport: reports[mostEfficient].ReportName,
			EfficiencyRatio:     spendEfficiency(reports[mostEfficient].Summary),
			TotalSpend:          reports[mostEfficient].Summary.TotalSpend,
			TotalSales:          reports[mostEfficient].Summary.TotalSales,
		},
	}
	return insights, nil
}

// spendEfficiency is sales per dollar of spend, with zero spend treated as
// zero efficiency rather than infinity.
func spendEfficiency(s *models.PerformanceSummary) float64 {
	if s.TotalSpend <= 0 {
		return 0
	}
	return s.TotalSales / s.TotalSpend
}
