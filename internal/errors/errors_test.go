package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusNotFound, "DATASET_NOT_FOUND", "Dataset not found")
	assert.Equal(t, "Dataset not found", err.Error())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, DatasetNotFoundError("ds-42"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "DATASET_NOT_FOUND", resp.Error.ErrorCode)
	assert.Equal(t, "ds-42", resp.Error.Details)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusUnprocessableEntity,
		TypeDatasetInvalid,
		"Unprocessable Entity",
		"File is not a readable record collection",
		"/api/datasets",
	).WithExtension("error_code", "INVALID_DATASET")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeDatasetInvalid, decoded["type"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), decoded["status"])
	assert.Equal(t, "INVALID_DATASET", decoded["error_code"])
}

func TestErrorHandler_HandleError_APIError(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/datasets/nope/summary", nil)

	h.HandleError(rec, req, DatasetNotFoundError("nope"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, TypeDatasetNotFound, decoded["type"])
	assert.Equal(t, "/api/datasets/nope/summary", decoded["instance"])
}

func TestErrorHandler_HandleError_GenericError(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)

	h.HandleError(rec, req, fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, TypeInternal, decoded["type"])
}

func TestErrorHandler_HandleError_ContextCancelled(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)

	h.HandleError(rec, req, context.Canceled)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestErrorHandler_WrappedAPIError(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/datasets", nil)

	wrapped := fmt.Errorf("processing upload: %w", InvalidDatasetError(fmt.Errorf("no recognizable columns")))
	h.HandleError(rec, req, wrapped)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, TypeDatasetInvalid, decoded["type"])
}

func TestRecoveryMiddleware(t *testing.T) {
	h := NewErrorHandler(slog.Default(), false)
	mw := RecoveryMiddleware(h)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something broke")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
