// backend/src/services/upload_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/username/adlytics/backend/src/logger"
	"github.com/username/adlytics/backend/src/models"
	"github.com/username/adlytics/backend/src/parsers"
)

type uploadServiceImpl struct {
	store            ReportStore
	analyticsService AnalyticsService
}

func NewUploadService(store ReportStore, analyticsService AnalyticsService) UploadService {
	return &uploadServiceImpl{
		store:            store,
		analyticsService: analyticsService,
	}
}

// ProcessUpload runs the full ingestion pass for one file: detect the report
// type, extract canonical records, persist them, and compute the upload
// summary. Row-level defects are absorbed by the extractors; only file-level
// defects surface as errors here.
func (s *uploadServiceImpl) ProcessUpload(fileReader io.Reader, filename string, userID int64) (*UploadResult, error) {
	startTime := time.Now()
	logger.L.Info("ProcessUpload START", "userID", userID, "filename", filename)

	// The file is read fully up front: detection peeks at the header row and
	// the parser then needs the stream from the beginning. Upload size is
	// already bounded by the handler.
	data, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrParsingFailed, err)
	}

	headers, err := parsers.ReadHeaderRow(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	reportType := parsers.DetectReportType(filename, headers)

	parser, err := parsers.GetParser(reportType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	report := &models.Report{
		UserID:           userID,
		Filename:         filename,
		StoredName:       uuid.NewString(),
		ReportType:       reportType,
		UploadDate:       time.Now().UTC(),
		ProcessingStatus: models.StatusPending,
	}
	reportID, err := s.store.InsertReport(report)
	if err != nil {
		return nil, fmt.Errorf("%w: creating report record: %v", ErrProcessingFailed, err)
	}
	report.ID = reportID

	records, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		if markErr := s.store.MarkReportError(reportID, err.Error()); markErr != nil {
			logger.L.Error("Failed to mark report as errored", "reportID", reportID, "error", markErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	if len(records) == 0 {
		// Parsed cleanly but nothing usable: a distinct outcome, not an error
		// and not a populated success.
		report.ProcessingStatus = models.StatusCompleted
		if err := s.store.UpdateReportResults(report); err != nil {
			return nil, fmt.Errorf("%w: updating report: %v", ErrProcessingFailed, err)
		}
		logger.L.Info("ProcessUpload END (no data)", "userID", userID, "reportID", reportID)
		return &UploadResult{
			ReportID:   reportID,
			ReportType: reportType,
			Status:     UploadStatusNoData,
			Message:    "no data found in report",
		}, nil
	}

	if err := s.store.InsertRecords(reportID, records); err != nil {
		if markErr := s.store.MarkReportError(reportID, err.Error()); markErr != nil {
			logger.L.Error("Failed to mark report as errored", "reportID", reportID, "error", markErr)
		}
		return nil, fmt.Errorf("%w: storing records: %v", ErrProcessingFailed, err)
	}

	summarizeUpload(report, records)
	report.ProcessingStatus = models.StatusCompleted
	if err := s.store.UpdateReportResults(report); err != nil {
		return nil, fmt.Errorf("%w: updating report: %v", ErrProcessingFailed, err)
	}

	s.analyticsService.InvalidateReportCache(reportID)

	logger.L.Info("ProcessUpload END", "userID", userID, "reportID", reportID,
		"rows", len(records), "duration", time.Since(startTime))
	return &UploadResult{
		ReportID:       reportID,
		ReportType:     reportType,
		Status:         UploadStatusProcessed,
		Message:        "report uploaded and processed successfully",
		RowsProcessed:  len(records),
		TotalSpend:     report.TotalSpend,
		TotalSales:     report.TotalSales,
		ACOS:           report.ACOS,
		DateRangeStart: report.DateRangeStart.Format("2006-01-02"),
		DateRangeEnd:   report.DateRangeEnd.Format("2006-01-02"),
	}, nil
}

// summarizeUpload folds the extracted records into the report's stored
// totals, including the observed date range and the overall ACOS computed
// over the sums.
func summarizeUpload(report *models.Report, records []models.CanonicalRecord) {
	for i, r := range records {
		report.TotalSpend += r.Spend
		report.TotalSales += r.Sales
		report.TotalImpressions += r.Impressions
		report.TotalClicks += r.Clicks
		if i == 0 || r.Date.Before(report.DateRangeStart) {
			report.DateRangeStart = r.Date
		}
		if i == 0 || r.Date.After(report.DateRangeEnd) {
			report.DateRangeEnd = r.Date
		}
	}
	if report.TotalSales > 0 {
		report.ACOS = report.TotalSpend / report.TotalSales * 100
	}
	report.RowsProcessed = len(records)
}
