package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	three := 3
	zero := 0

	tests := []struct {
		name     string
		status   string
		data     any
		message  string
		count    *int
		wantKeys []string
		skipKeys []string
	}{
		{
			name:     "status only",
			status:   StatusSuccess,
			wantKeys: []string{"status"},
			skipKeys: []string{"data", "count", "message"},
		},
		{
			name:     "success with data and count",
			status:   StatusSuccess,
			data:     []string{"a", "b"},
			count:    &three,
			wantKeys: []string{"status", "data", "count"},
			skipKeys: []string{"message"},
		},
		{
			name:     "explicit zero count is included",
			status:   StatusSuccess,
			data:     []string{},
			count:    &zero,
			wantKeys: []string{"status", "count"},
			skipKeys: []string{"message"},
		},
		{
			name:     "error with message",
			status:   StatusError,
			message:  "Run not found: x",
			wantKeys: []string{"status", "message"},
			skipKeys: []string{"data", "count"},
		},
		{
			name:     "empty message is omitted",
			status:   StatusError,
			wantKeys: []string{"status"},
			skipKeys: []string{"message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnvelope(tt.status, tt.data, tt.message, tt.count)

			raw, err := json.Marshal(e)
			require.NoError(t, err)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(raw, &decoded))

			assert.Equal(t, tt.status, decoded["status"])
			for _, key := range tt.wantKeys {
				assert.Contains(t, decoded, key)
			}
			for _, key := range tt.skipKeys {
				assert.NotContains(t, decoded, key)
			}
		})
	}
}

func TestRespondList_ZeroCount(t *testing.T) {
	rec := httptest.NewRecorder()
	respondList(rec, []string{}, 0)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))

	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, float64(0), decoded["count"])
}

func TestRespondError_Shape(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, 500, "boom")

	assert.Equal(t, 500, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "error", decoded["status"])
	assert.Equal(t, "boom", decoded["message"])
	assert.NotContains(t, decoded, "data")
	assert.NotContains(t, decoded, "count")
}
