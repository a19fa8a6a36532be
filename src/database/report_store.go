package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/adlytics/backend/src/models"
)

// Dates are stored as bare day strings; upload timestamps keep full
// precision.
const (
	dayFormat       = "2006-01-02"
	timestampFormat = time.RFC3339
)

// SQLReportStore persists reports and their extracted records in sqlite.
type SQLReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *SQLReportStore {
	return &SQLReportStore{db: db}
}

func (s *SQLReportStore) InsertReport(report *models.Report) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO reports (user_id, filename, stored_name, report_type, upload_date, processing_status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.UserID, report.Filename, report.StoredName, string(report.ReportType),
		report.UploadDate.Format(timestampFormat), report.ProcessingStatus)
	if err != nil {
		return 0, fmt.Errorf("inserting report: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading report id: %w", err)
	}
	return id, nil
}

func (s *SQLReportStore) UpdateReportResults(report *models.Report) error {
	_, err := s.db.Exec(`
		UPDATE reports
		SET processing_status = ?, date_range_start = ?, date_range_end = ?,
		    total_spend = ?, total_sales = ?, total_impressions = ?, total_clicks = ?,
		    acos = ?, rows_processed = ?
		WHERE id = ?`,
		report.ProcessingStatus,
		report.DateRangeStart.Format(dayFormat), report.DateRangeEnd.Format(dayFormat),
		report.TotalSpend, report.TotalSales, report.TotalImpressions, report.TotalClicks,
		report.ACOS, report.RowsProcessed, report.ID)
	if err != nil {
		return fmt.Errorf("updating report %d: %w", report.ID, err)
	}
	return nil
}

func (s *SQLReportStore) MarkReportError(reportID int64, message string) error {
	_, err := s.db.Exec(`
		UPDATE reports SET processing_status = ?, error_message = ? WHERE id = ?`,
		models.StatusError, message, reportID)
	if err != nil {
		return fmt.Errorf("marking report %d as errored: %w", reportID, err)
	}
	return nil
}

func (s *SQLReportStore) GetReport(reportID, userID int64) (*models.Report, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, filename, COALESCE(stored_name, ''), report_type, upload_date,
		       processing_status, COALESCE(error_message, ''),
		       COALESCE(date_range_start, ''), COALESCE(date_range_end, ''),
		       total_spend, total_sales, total_impressions, total_clicks, acos, rows_processed
		FROM reports WHERE id = ? AND user_id = ?`, reportID, userID)
	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading report %d: %w", reportID, err)
	}
	return report, nil
}

func (s *SQLReportStore) ListReports(userID int64) ([]*models.Report, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, filename, COALESCE(stored_name, ''), report_type, upload_date,
		       processing_status, COALESCE(error_message, ''),
		       COALESCE(date_range_start, ''), COALESCE(date_range_end, ''),
		       total_spend, total_sales, total_impressions, total_clicks, acos, rows_processed
		FROM reports WHERE user_id = ? ORDER BY upload_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}

func (s *SQLReportStore) DeleteReport(reportID, userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting delete transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("DELETE FROM reports WHERE id = ? AND user_id = ?", reportID, userID)
	if err != nil {
		return fmt.Errorf("deleting report %d: %w", reportID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	// Explicit cleanup; foreign key cascades are off by default in sqlite.
	if _, err := tx.Exec("DELETE FROM report_records WHERE report_id = ?", reportID); err != nil {
		return fmt.Errorf("deleting records for report %d: %w", reportID, err)
	}
	return tx.Commit()
}

func (s *SQLReportStore) InsertRecords(reportID int64, records []models.CanonicalRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO report_records (
			report_id, campaign_id, campaign_name, keyword, match_type, search_term, date,
			impressions, clicks, spend, sales, orders, units,
			ctr, cpc, acos, roas, conversion_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		_, err := stmt.Exec(
			reportID, r.CampaignID, r.CampaignName, r.Keyword, r.MatchType, r.SearchTerm,
			r.Date.Format(dayFormat),
			r.Impressions, r.Clicks, r.Spend, r.Sales, r.Orders, r.Units,
			r.CTR, r.CPC, r.ACOS, r.ROAS, r.ConversionRate)
		if err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLReportStore) GetRecords(reportID int64) ([]models.CanonicalRecord, error) {
	rows, err := s.db.Query(`
		SELECT campaign_id, campaign_name, keyword, match_type, search_term, date,
		       impressions, clicks, spend, sales, orders, units,
		       ctr, cpc, acos, roas, conversion_rate
		FROM report_records WHERE report_id = ? ORDER BY id`, reportID)
	if err != nil {
		return nil, fmt.Errorf("loading records for report %d: %w", reportID, err)
	}
	defer rows.Close()

	var records []models.CanonicalRecord
	for rows.Next() {
		var r models.CanonicalRecord
		var day string
		err := rows.Scan(
			&r.CampaignID, &r.CampaignName, &r.Keyword, &r.MatchType, &r.SearchTerm, &day,
			&r.Impressions, &r.Clicks, &r.Spend, &r.Sales, &r.Orders, &r.Units,
			&r.CTR, &r.CPC, &r.ACOS, &r.ROAS, &r.ConversionRate)
		if err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}
		r.Date, _ = time.Parse(dayFormat, day)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// scanTarget lets scanReport serve both QueryRow and Query results.
type scanTarget interface {
	Scan(dest ...interface{}) error
}

func scanReport(row scanTarget) (*models.Report, error) {
	var report models.Report
	var reportType, uploadDate, rangeStart, rangeEnd string
	err := row.Scan(
		&report.ID, &report.UserID, &report.Filename, &report.StoredName, &reportType, &uploadDate,
		&report.ProcessingStatus, &report.ErrorMessage,
		&rangeStart, &rangeEnd,
		&report.TotalSpend, &report.TotalSales, &report.TotalImpressions, &report.TotalClicks,
		&report.ACOS, &report.RowsProcessed)
	if err != nil {
		return nil, err
	}
	report.ReportType = models.ReportType(reportType)
	if t, err := time.Parse(timestampFormat, uploadDate); err == nil {
		report.UploadDate = t
	}
	if rangeStart != "" {
		report.DateRangeStart, _ = time.Parse(dayFormat, rangeStart)
	}
	if rangeEnd != "" {
		report.DateRangeEnd, _ = time.Parse(dayFormat, rangeEnd)
	}
	return &report, nil
}
