package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/adlytics/backend/src/models"
)

func summaryRef(id int64, name string, spend, sales float64) *models.ReportSummaryRef {
	s := &models.PerformanceSummary{TotalSpend: spend, TotalSales: sales}
	if sales > 0 {
		s.OverallACOS = spend / sales * 100
	}
	if spend > 0 {
		s.OverallROAS = sales / spend
	}
	return &models.ReportSummaryRef{ReportID: id, ReportName: name, Summary: s}
}

func TestCompare_RequiresTwoReports(t *testing.T) {
	p := NewComparisonProcessor()

	_, err := p.Compare(nil)
	assert.ErrorIs(t, err, ErrInsufficientReports)

	_, err = p.Compare([]*models.ReportSummaryRef{summaryRef(1, "only", 10, 20)})
	assert.ErrorIs(t, err, ErrInsufficientReports)
}

func TestCompare_Insights(t *testing.T) {
	march := summaryRef(1, "march.csv", 20, 100) // ACOS 20, ROAS 5
	april := summaryRef(2, "april.csv", 60, 100) // ACOS 60, ROAS 1.67

	insights, err := NewComparisonProcessor().Compare([]*models.ReportSummaryRef{march, april})
	require.NoError(t, err)
	require.Len(t, insights, 3)

	byType := make(map[string]*models.ComparisonInsight)
	for _, ins := range insights {
		byType[ins.Type] = ins
	}

	acos := byType["acos_comparison"]
	require.NotNil(t, acos)
	assert.Equal(t, "march.csv", acos.BestReport)
	assert.Equal(t, "april.csv", acos.WorstReport)
	assert.InDelta(t, 40.0, acos.ImprovementPotential, 1e-9)

	roas := byType["roas_comparison"]
	require.NotNil(t, roas)
	assert.Equal(t, "march.csv", roas.BestReport)
	assert.Equal(t, "april.csv", roas.WorstReport)
	assert.InDelta(t, 5.0-100.0/60.0, roas.ImprovementPotential, 1e-9)

	eff := byType["efficiency_comparison"]
	require.NotNil(t, eff)
	assert.Equal(t, "march.csv", eff.MostEfficientReport)
	assert.InDelta(t, 5.0, eff.EfficiencyRatio, 1e-9)
	assert.Equal(t, 20.0, eff.TotalSpend)
	assert.Equal(t, 100.0, eff.TotalSales)
}

func TestCompare_TiesResolveToFirstReport(t *testing.T) {
	a := summaryRef(1, "first.csv", 30, 100)
	b := summaryRef(2, "second.csv", 30, 100)

	insights, err := NewComparisonProcessor().Compare([]*models.ReportSummaryRef{a, b})
	require.NoError(t, err)

	for _, ins := range insights {
		switch ins.Type {
		case "acos_comparison", "roas_comparison":
			assert.Equal(t, "first.csv", ins.BestReport)
			assert.Equal(t, "first.csv", ins.WorstReport)
			assert.Equal(t, 0.0, ins.ImprovementPotential)
		case "efficiency_comparison":
			assert.Equal(t, "first.csv", ins.MostEfficientReport)
		}
	}
}

func TestCompare_ZeroSpendHasZeroEfficiency(t *testing.T) {
	idle := summaryRef(1, "idle.csv", 0, 0)
	active := summaryRef(2, "active.csv", 50, 100)

	insights, err := NewComparisonProcessor().Compare([]*models.ReportSummaryRef{idle, active})
	require.NoError(t, err)

	for _, ins := range insights {
		if ins.Type == "efficiency_comparison" {
			assert.Equal(t, "active.csv", ins.MostEfficientReport)
			assert.InDelta(t, 2.0, ins.EfficiencyRatio, 1e-9)
		}
	}
}
