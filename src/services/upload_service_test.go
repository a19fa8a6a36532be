package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/adlytics/backend/src/models"
)

// fakeReportStore is an in-memory ReportStore for service tests.
type fakeReportStore struct {
	nextID       int64
	reports      map[int64]*models.Report
	records      map[int64][]models.CanonicalRecord
	insertErr    error
	recordsErr   error
	errorReports map[int64]string
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{
		reports:      make(map[int64]*models.Report),
		records:      make(map[int64][]models.CanonicalRecord),
		errorReports: make(map[int64]string),
	}
}

func (f *fakeReportStore) InsertReport(report *models.Report) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	stored := *report
	stored.ID = f.nextID
	f.reports[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeReportStore) UpdateReportResults(report *models.Report) error {
	stored := *report
	f.reports[report.ID] = &stored
	return nil
}

func (f *fakeReportStore) MarkReportError(reportID int64, message string) error {
	f.errorReports[reportID] = message
	if r, ok := f.reports[reportID]; ok {
		r.ProcessingStatus = models.StatusError
		r.ErrorMessage = message
	}
	return nil
}

func (f *fakeReportStore) GetReport(reportID, userID int64) (*models.Report, error) {
	r, ok := f.reports[reportID]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	return r, nil
}

func (f *fakeReportStore) ListReports(userID int64) ([]*models.Report, error) {
	var out []*models.Report
	for _, r := range f.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportStore) DeleteReport(reportID, userID int64) error {
	delete(f.reports, reportID)
	delete(f.records, reportID)
	return nil
}

func (f *fakeReportStore) InsertRecords(reportID int64, records []models.CanonicalRecord) error {
	if f.recordsErr != nil {
		return f.recordsErr
	}
	f.records[reportID] = records
	return nil
}

func (f *fakeReportStore) GetRecords(reportID int64) ([]models.CanonicalRecord, error) {
	return f.records[reportID], nil
}

// fakeAnalyticsService records cache invalidations; everything else panics if
// called, which is the point: uploads must not trigger analytics reads.
type fakeAnalyticsService struct {
	AnalyticsService
	invalidated []int64
}

func (f *fakeAnalyticsService) InvalidateReportCache(reportID int64) {
	f.invalidated = append(f.invalidated, reportID)
}

func TestProcessUpload_Success(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Campaign Name,Campaign ID,Impressions,Clicks,Spend,Sales,Orders",
		"2024-03-03,Book One,C1,1000,20,10.00,40.00,4",
		"2024-03-01,Book Two,C2,500,10,5.00,10.00,1",
	}, "\n")

	store := newFakeReportStore()
	analytics := &fakeAnalyticsService{}
	svc := NewUploadService(store, analytics)

	result, err := svc.ProcessUpload(strings.NewReader(csvData), "sponsored_products_campaign.csv", 7)
	require.NoError(t, err)

	assert.Equal(t, UploadStatusProcessed, result.Status)
	assert.Equal(t, models.ReportSponsoredProductsCampaign, result.ReportType)
	assert.Equal(t, 2, result.RowsProcessed)
	assert.Equal(t, 15.0, result.TotalSpend)
	assert.Equal(t, 50.0, result.TotalSales)
	assert.InDelta(t, 30.0, result.ACOS, 1e-9)
	assert.Equal(t, "2024-03-01", result.DateRangeStart)
	assert.Equal(t, "2024-03-03", result.DateRangeEnd)

	stored := store.reports[result.ReportID]
	require.NotNil(t, stored)
	assert.Equal(t, int64(7), stored.UserID)
	assert.Equal(t, models.StatusCompleted, stored.ProcessingStatus)
	assert.NotEmpty(t, stored.StoredName)
	assert.Equal(t, "sponsored_products_campaign.csv", stored.Filename)
	assert.Equal(t, 2, stored.RowsProcessed)
	assert.Len(t, store.records[result.ReportID], 2)

	assert.Equal(t, []int64{result.ReportID}, analytics.invalidated)
}

func TestProcessUpload_NoData(t *testing.T) {
	// Header only: parses cleanly but yields no rows.
	csvData := "Date,Campaign Name,Impressions,Clicks,Spend,Sales\n"

	store := newFakeReportStore()
	analytics := &fakeAnalyticsService{}
	svc := NewUploadService(store, analytics)

	result, err := svc.ProcessUpload(strings.NewReader(csvData), "report.csv", 7)
	require.NoError(t, err)

	assert.Equal(t, UploadStatusNoData, result.Status)
	assert.Equal(t, 0, result.RowsProcessed)

	stored := store.reports[result.ReportID]
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusCompleted, stored.ProcessingStatus)

	// No records and no cache to invalidate.
	assert.Empty(t, store.records[result.ReportID])
	assert.Empty(t, analytics.invalidated)
}

func TestProcessUpload_EmptyFile(t *testing.T) {
	store := newFakeReportStore()
	svc := NewUploadService(store, &fakeAnalyticsService{})

	_, err := svc.ProcessUpload(strings.NewReader(""), "report.csv", 7)
	assert.ErrorIs(t, err, ErrParsingFailed)
	assert.Empty(t, store.reports)
}

func TestProcessUpload_StoreFailures(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Campaign Name,Impressions,Clicks,Spend,Sales",
		"2024-03-01,Book One,1000,20,10.00,40.00",
	}, "\n")

	t.Run("insert report fails", func(t *testing.T) {
		store := newFakeReportStore()
		store.insertErr = errors.New("disk full")
		svc := NewUploadService(store, &fakeAnalyticsService{})

		_, err := svc.ProcessUpload(strings.NewReader(csvData), "report.csv", 7)
		assert.ErrorIs(t, err, ErrProcessingFailed)
	})

	t.Run("insert records fails and marks report errored", func(t *testing.T) {
		store := newFakeReportStore()
		store.recordsErr = errors.New("disk full")
		svc := NewUploadService(store, &fakeAnalyticsService{})

		_, err := svc.ProcessUpload(strings.NewReader(csvData), "report.csv", 7)
		assert.ErrorIs(t, err, ErrProcessingFailed)
		require.Len(t, store.errorReports, 1)
		assert.Equal(t, models.StatusError, store.reports[1].ProcessingStatus)
	})
}
