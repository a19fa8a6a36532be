// backend/src/handlers/optimization_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/models"
	"github.com/username/adlytics/backend/src/services"
	"github.com/username/adlytics/backend/src/utils"
)

type OptimizationHandler struct {
	analyticsService services.AnalyticsService
}

func NewOptimizationHandler(analyticsService services.AnalyticsService) *OptimizationHandler {
	return &OptimizationHandler{
		analyticsService: analyticsService,
	}
}

// HandleGetOptimization returns the comprehensive recommendation bundle for
// one report.
func (h *OptimizationHandler) HandleGetOptimization(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	response, err := h.analyticsService.GetOptimization(reportID, userID)
	if err != nil {
		sendAnalysisError(w, userID, reportID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.L.Error("Error encoding optimization response", "userID", userID, "reportID", reportID, "error", err)
	}
}

// HandleCampaignOptimizations returns per-campaign optimizations together
// with priority buckets: scores above 7 are high, 4 to 7 medium, below 4 low.
func (h *OptimizationHandler) HandleCampaignOptimizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	optimizations, err := h.analyticsService.GetCampaignOptimizations(reportID, userID)
	if err != nil {
		sendAnalysisError(w, userID, reportID, err)
		return
	}

	high := []*models.CampaignOptimization{}
	medium := []*models.CampaignOptimization{}
	low := []*models.CampaignOptimization{}
	for _, opt := range optimizations {
		switch {
		case opt.Priority > 7:
			high = append(high, opt)
		case opt.Priority >= 4:
			medium = append(medium, opt)
		default:
			low = append(low, opt)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"report_id":       reportID,
		"total_campaigns": len(optimizations),
		"high_priority":   high,
		"medium_priority": medium,
		"low_priority":    low,
	}); err != nil {
		logger.L.Error("Error encoding campaign optimizations", "userID", userID, "reportID", reportID, "error", err)
	}
}

func (h *OptimizationHandler) HandleBidRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	recommendations, err := h.analyticsService.GetBidRecommendations(reportID, userID)
	if err != nil {
		sendAnalysisError(w, userID, reportID, err)
		return
	}

	summary := map[string]int{"increase": 0, "decrease": 0, "maintain": 0}
	for _, rec := range recommendations {
		summary[rec.Action]++
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"report_id":           reportID,
		"bid_recommendations": recommendations,
		"summary":             summary,
	}); err != nil {
		logger.L.Error("Error encoding bid recommendations", "userID", userID, "reportID", reportID, "error", err)
	}
}

func (h *OptimizationHandler) HandleKeywordRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	recommendations, err := h.analyticsService.GetKeywordRecommendations(reportID, userID)
	if err != nil {
		sendAnalysisError(w, userID, reportID, err)
		return
	}

	typeCounts := map[string]int{}
	for _, rec := range recommendations {
		typeCounts[rec.RecommendationType]++
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"report_id":               reportID,
		"keyword_recommendations": recommendations,
		"type_counts":             typeCounts,
	}); err != nil {
		logger.L.Error("Error encoding keyword recommendations", "userID", userID, "reportID", reportID, "error", err)
	}
}

// HandleSimulate applies proposed bid and budget percentage changes to a
// report's current performance and returns the projected delta.
func (h *OptimizationHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	var changes models.SimulationChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		utils.SendJSONError(w, "invalid request body, expected {\"bid_adjustment\": ..., \"budget_adjustment\": ...}", http.StatusBadRequest)
		return
	}

	response, err := h.analyticsService.Simulate(reportID, userID, changes)
	if err != nil {
		sendAnalysisError(w, userID, reportID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.L.Error("Error encoding simulation response", "userID", userID, "reportID", reportID, "error", err)
	}
}
