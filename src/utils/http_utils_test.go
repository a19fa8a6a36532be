package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateETag(t *testing.T) {
	first, err := GenerateETag(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Len(t, first, 64)

	same, err := GenerateETag(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, first, same)

	different, err := GenerateETag(map[string]int{"a": 2})
	require.NoError(t, err)
	assert.NotEqual(t, first, different)
}

func TestSendJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	SendJSONError(w, "report not found", 404)

	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "report not found", body["error"])
}
