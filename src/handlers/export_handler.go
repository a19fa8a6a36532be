// backend/src/handlers/export_handler.go
package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/security/validation"
	"github.com/username/adlytics/backend/src/services"
	"github.com/username/adlytics/backend/src/utils"
)

type ExportHandler struct {
	analyticsService services.AnalyticsService
}

func NewExportHandler(analyticsService services.AnalyticsService) *ExportHandler {
	return &ExportHandler{
		analyticsService: analyticsService,
	}
}

var exportHeader = []string{
	"campaign_id", "campaign_name", "keyword", "match_type", "search_term", "date",
	"impressions", "clicks", "spend", "sales", "orders", "units",
	"ctr", "cpc", "acos", "roas", "conversion_rate",
}

// HandleExportCSV streams a report's canonical records as a CSV download.
func (h *ExportHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	records, err := h.analyticsService.GetRecords(reportID, userID)
	if err != nil {
		sendAnalysisError(w, userID, reportID, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"report_%d.csv\"", reportID))

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		logger.L.Error("Error writing CSV header", "userID", userID, "reportID", reportID, "error", err)
		return
	}
	// Campaign names and keywords are user-supplied text; guard spreadsheet
	// consumers against formula injection.
	exportCell := func(s string) string {
		return validation.SanitizeForFormulaInjection(validation.StripUnprintable(s))
	}
	for i := range records {
		rec := &records[i]
		row := []string{
			exportCell(rec.CampaignID), exportCell(rec.CampaignName), exportCell(rec.Keyword),
			exportCell(rec.MatchType), exportCell(rec.SearchTerm),
			rec.Date.Format("2006-01-02"),
			strconv.FormatInt(rec.Impressions, 10),
			strconv.FormatInt(rec.Clicks, 10),
			strconv.FormatFloat(rec.Spend, 'f', 2, 64),
			strconv.FormatFloat(rec.Sales, 'f', 2, 64),
			strconv.FormatInt(rec.Orders, 10),
			strconv.FormatInt(rec.Units, 10),
			strconv.FormatFloat(rec.CTR, 'f', 4, 64),
			strconv.FormatFloat(rec.CPC, 'f', 4, 64),
			strconv.FormatFloat(rec.ACOS, 'f', 4, 64),
			strconv.FormatFloat(rec.ROAS, 'f', 4, 64),
			strconv.FormatFloat(rec.ConversionRate, 'f', 4, 64),
		}
		if err := writer.Write(row); err != nil {
			logger.L.Error("Error writing CSV row", "userID", userID, "reportID", reportID, "error", err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.L.Error("Error flushing CSV export", "userID", userID, "reportID", reportID, "error", err)
	}
}

// HandleExportJSON downloads the full analysis as a JSON document.
func (h *ExportHandler) HandleExportJSON(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	analytics, err := h.analyticsService.GetReportAnalytics(reportID, userID)
	if err != nil {
		sendAnalysisError(w, userID, reportID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"analysis_%d.json\"", reportID))
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(map[string]interface{}{
		"report_id": reportID,
		"analysis":  analytics,
	}); err != nil {
		logger.L.Error("Error encoding analysis export", "userID", userID, "reportID", reportID, "error", err)
	}
}
