// backend/src/handlers/report_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/models"
	"github.com/username/adlytics/backend/src/services"
	"github.com/username/adlytics/backend/src/utils"
)

type ReportHandler struct {
	store            services.ReportStore
	analyticsService services.AnalyticsService
}

func NewReportHandler(store services.ReportStore, analyticsService services.AnalyticsService) *ReportHandler {
	return &ReportHandler{
		store:            store,
		analyticsService: analyticsService,
	}
}

// reportIDFromPath parses the {id} path segment. A zero return means the
// handler already wrote the error response.
func reportIDFromPath(w http.ResponseWriter, r *http.Request) int64 {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		utils.SendJSONError(w, "invalid report id", http.StatusBadRequest)
		return 0
	}
	return id
}

func (h *ReportHandler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	reports, err := h.store.ListReports(userID)
	if err != nil {
		logger.L.Error("Error listing reports", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving reports", http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []*models.Report{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"reports": reports}); err != nil {
		logger.L.Error("Error encoding reports list", "userID", userID, "error", err)
	}
}

func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	report, err := h.store.GetReport(reportID, userID)
	if err != nil {
		logger.L.Error("Error loading report", "userID", userID, "reportID", reportID, "error", err)
		utils.SendJSONError(w, "Error retrieving report", http.StatusInternalServerError)
		return
	}
	if report == nil {
		utils.SendJSONError(w, "report not found", http.StatusNotFound)
		return
	}

	records, err := h.store.GetRecords(reportID)
	if err != nil {
		logger.L.Error("Error loading report records", "userID", userID, "reportID", reportID, "error", err)
		utils.SendJSONError(w, "Error retrieving report data", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.CanonicalRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"report":  report,
		"records": records,
	}); err != nil {
		logger.L.Error("Error encoding report detail", "userID", userID, "reportID", reportID, "error", err)
	}
}

func (h *ReportHandler) HandleDeleteReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	reportID := reportIDFromPath(w, r)
	if reportID == 0 {
		return
	}

	if err := h.store.DeleteReport(reportID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.SendJSONError(w, "report not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting report", "userID", userID, "reportID", reportID, "error", err)
		utils.SendJSONError(w, "Error deleting report", http.StatusInternalServerError)
		return
	}
	h.analyticsService.InvalidateReportCache(reportID)
	logger.L.Info("Report deleted", "userID", userID, "reportID", reportID)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"message": "report deleted successfully"}); err != nil {
		logger.L.Error("Error encoding delete response", "userID", userID, "error", err)
	}
}
