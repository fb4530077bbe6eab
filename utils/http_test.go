package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("successful write", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"message": "test"}

		err := WriteJSON(w, http.StatusOK, data)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response map[string]string
		err = json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, "test", response["message"])
	})

	t.Run("nil data", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusNoContent, nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteSuccess(w, map[string]interface{}{"delete": 3, "success": false})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, float64(3), response["delete"])
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		write       func(http.ResponseWriter) error
		wantStatus  int
		wantMessage string
	}{
		{"bad request", WriteBadRequest, http.StatusBadRequest, "bad request"},
		{"not found", WriteNotFound, http.StatusNotFound, "resource not found"},
		{"method not allowed", WriteMethodNotAllowed, http.StatusMethodNotAllowed, "method not allowed"},
		{"unprocessable", WriteUnprocessable, http.StatusUnprocessableEntity, "unprocessable"},
		{"internal", WriteInternalServerError, http.StatusInternalServerError, "internal server error"},
		{
			name:        "empty message falls back to the status default",
			write:       func(w http.ResponseWriter) error { return WriteError(w, http.StatusNotFound, "") },
			wantStatus:  http.StatusNotFound,
			wantMessage: "resource not found",
		},
		{
			name:        "unlisted status uses status text",
			write:       func(w http.ResponseWriter) error { return WriteError(w, http.StatusServiceUnavailable, "") },
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, tt.write(w))

			assert.Equal(t, tt.wantStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, false, response["success"])
			assert.Equal(t, float64(tt.wantStatus), response["error"])
			assert.Equal(t, tt.wantMessage, response["message"])
		})
	}
}

func TestWriteAuthError(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteAuthError(w, 0, "token_expired", "token expired")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t,
		`{"success":false,"error":401,"message":{"code":"token_expired","description":"token expired"}}`,
		w.Body.String())
}
