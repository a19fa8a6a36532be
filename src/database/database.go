package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/adlytics/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateReportsTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		auth_provider TEXT DEFAULT 'local',
		is_email_verified BOOLEAN DEFAULT FALSE,
		email_verification_token TEXT,
		email_verification_token_expires_at TIMESTAMP,
		password_reset_token TEXT,
		password_reset_token_expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		filename TEXT NOT NULL,
		stored_name TEXT,
		report_type TEXT NOT NULL,
		upload_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		processing_status TEXT NOT NULL DEFAULT 'pending',
		error_message TEXT,
		date_range_start TEXT,
		date_range_end TEXT,
		total_spend REAL DEFAULT 0,
		total_sales REAL DEFAULT 0,
		total_impressions INTEGER DEFAULT 0,
		total_clicks INTEGER DEFAULT 0,
		acos REAL DEFAULT 0,
		rows_processed INTEGER DEFAULT 0,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS report_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id INTEGER NOT NULL,
		campaign_id TEXT,
		campaign_name TEXT,
		keyword TEXT,
		match_type TEXT,
		search_term TEXT,
		date TEXT NOT NULL,
		impressions INTEGER DEFAULT 0,
		clicks INTEGER DEFAULT 0,
		spend REAL DEFAULT 0,
		sales REAL DEFAULT 0,
		orders INTEGER DEFAULT 0,
		units INTEGER DEFAULT 0,
		ctr REAL DEFAULT 0,
		cpc REAL DEFAULT 0,
		acos REAL DEFAULT 0,
		roas REAL DEFAULT 0,
		conversion_rate REAL DEFAULT 0,
		FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_reports_user ON reports(user_id);
	CREATE INDEX IF NOT EXISTS idx_report_records_report ON report_records(report_id);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateReportsTable adds columns introduced after the reports table first
// shipped. Additive only; sqlite cannot drop columns in place and nothing
// here needs it.
func migrateReportsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='reports'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'reports' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'reports' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'reports' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'reports' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(reports)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'reports'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'reports': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'reports'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'reports': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'reports'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'reports': %v", err)
		}
		return
	}

	addColumn := func(name, definition string) {
		if columnExists[name] {
			return
		}
		if _, err := DB.Exec("ALTER TABLE reports ADD COLUMN " + name + " " + definition); err != nil {
			logger.L.Error("Error adding column to 'reports' table", "column", name, "error", err)
		} else {
			logger.L.Info("Added column to 'reports' table", "column", name)
		}
	}
	addColumn("stored_name", "TEXT")
	addColumn("error_message", "TEXT")
	addColumn("rows_processed", "INTEGER DEFAULT 0")
}
