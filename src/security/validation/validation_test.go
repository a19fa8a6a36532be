package validation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/adlytics/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"equals formula", "=SUM(A1:A2)", "'=SUM(A1:A2)"},
		{"plus prefix", "+cmd", "'+cmd"},
		{"minus prefix", "-2+3", "'-2+3"},
		{"at prefix", "@here", "'@here"},
		{"leading space before formula", "  =1+1", "'  =1+1"},
		{"plain text untouched", "Fantasy Book Launch", "Fantasy Book Launch"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeForFormulaInjection(tt.input))
		})
	}
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "hello world", StripUnprintable("hello\x00 world\x07"))
	assert.Equal(t, "tab\tand\nnewline\r", StripUnprintable("tab\tand\nnewline\r"))
}

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("text/csv"))
	assert.NoError(t, ValidateClientContentType("TEXT/CSV"))
	assert.NoError(t, ValidateClientContentType("application/vnd.ms-excel"))
	assert.Error(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.Error(t, ValidateClientContentType("application/pdf"))
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	t.Run("csv content passes and pointer resets", func(t *testing.T) {
		content := []byte("Date,Campaign Name,Spend\n2024-03-01,Book,1.00\n")
		r := bytes.NewReader(content)

		detected, err := ValidateFileContentByMagicBytes(r)
		require.NoError(t, err)
		assert.Equal(t, "text/plain", detected)

		// Full content is still readable after validation.
		rest := make([]byte, len(content))
		n, _ := r.Read(rest)
		assert.Equal(t, len(content), n)
	})

	t.Run("binary content is rejected", func(t *testing.T) {
		// PDF magic bytes.
		_, err := ValidateFileContentByMagicBytes(bytes.NewReader([]byte("%PDF-1.4 binary body")))
		assert.Error(t, err)
	})

	t.Run("nil file", func(t *testing.T) {
		_, err := ValidateFileContentByMagicBytes(nil)
		assert.Error(t, err)
	})
}
