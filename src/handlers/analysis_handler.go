// backend/src/handlers/analysis_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/models"
	"github.com/username/adlytics/backend/src/processors"
	"github.com/username/adlytics/backend/src/services"
	"github.com/username/adlytics/backend/src/utils"
)

type AnalysisHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalysisHandler(analyticsService services.AnalyticsService) *AnalysisHandler {
	return &AnalysisHandler{
		analyticsService: analyticsService,
	}
}

// sendAnalysisError maps service-level failures onto HTTP statuses. All
// analysis endpoints share the same error surface.
func sendAnalysisError(w http.ResponseWriter, userID, reportID int64, err error) {
	switch {
	case errors.Is(err, services.ErrReportNotFound):
		utils.SendJSONError(w, "report not found", http.StatusNotFound)
	case errors.Is(err, services.ErrReportNotProcessed):
		utils.SendJSONError(w, "report has not finished processing", http.StatusConflict)
	case errors.Is(err, processors.ErrNoData):
		utils.SendJSONError(w, "no campaign data found in report", http.StatusUnprocessableEntity)
	default:
		logger.L.Error("Analysis request failed", "userID", userID, "reportID", reportID, "error", err)
		utils.SendJSONError(w, "Error computing analysis", http.StatusInternalServerError)
	}
}

// HandleGetAnalysis returns the full analysis for one report, including AI
// insights, with ETag support so unchanged results short-circuit to 304.
func (h *AnalysisHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	analytics, insights, err := h.analyticsService.GetAnalysisWithInsights(reportID, userID)
	if err != nil {
		sendAnalysisError(w, userID, reportID, err)
		return
	}
	response := map[string]interface{}{
		"report_id":   reportID,
		"analysis":    analytics,
		"ai_insights": insights,
	}

	currentETag, etagErr := utils.GenerateETag(response)
	w.Header().Set("Cache-Control", "no-cache, private")
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.L.Error("Error encoding analysis response", "userID", userID, "reportID", reportID, "error", err)
	}
}

func (h *AnalysisHandler) HandleGetCampaigns(w http.ResponseWriter, r *http.Request) {
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
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"report_id":         reportID,
		"campaign_analysis": analytics.CampaignAnalysis,
	}); err != nil {
		logger.L.Error("Error encoding campaign analysis", "userID", userID, "reportID", reportID, "error", err)
	}
}

func (h *AnalysisHandler) HandleGetTrends(w http.ResponseWriter, r *http.Request) {
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
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"report_id":      reportID,
		"trend_analysis": analytics.TrendAnalysis,
	}); err != nil {
		logger.L.Error("Error encoding trend analysis", "userID", userID, "reportID", reportID, "error", err)
	}
}

type compareRequest struct {
	ReportIDs []int64 `json:"report_ids"`
}

// HandleCompareReports compares two or more of the user's reports. Reports
// that are missing or unprocessed are skipped; fewer than two usable reports
// is a client error.
func (h *AnalysisHandler) HandleCompareReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body, expected {\"report_ids\": [...]}", http.StatusBadRequest)
		return
	}
	if len(req.ReportIDs) < 2 {
		utils.SendJSONError(w, processors.ErrInsufficientReports.Error(), http.StatusBadRequest)
		return
	}

	comparison, err := h.analyticsService.CompareReports(req.ReportIDs, userID)
	if err != nil {
		if errors.Is(err, processors.ErrInsufficientReports) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Comparison request failed", "userID", userID, "reportIDs", req.ReportIDs, "error", err)
		utils.SendJSONError(w, "Error comparing reports", http.StatusInternalServerError)
		return
	}
	if comparison.Reports == nil {
		comparison.Reports = []*models.ReportSummaryRef{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(comparison); err != nil {
		logger.L.Error("Error encoding comparison response", "userID", userID, "error", err)
	}
}
