// backend/src/parsers/interfaces.go
package parsers

import (
	"io"

	"github.com/username/adlytics/backend/src/models"
)

// Parser turns one uploaded report file into canonical records. Rows that
// cannot be extracted are skipped, never surfaced as errors; a returned error
// means the file itself was unreadable.
type Parser interface {
	Parse(file io.Reader) ([]models.CanonicalRecord, error)
}

// rowExtractor maps a single normalized row (lower-cased, trimmed header to
// raw value) to a canonical record. The second return value is false when the
// row must be skipped, which makes the skip-on-defect policy an explicit
// contract instead of a side effect of error handling.
type rowExtractor interface {
	extract(row map[string]string) (models.CanonicalRecord, bool)
}
