package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cleanse/internal/errors"
	"cleanse/internal/exporter"
	"cleanse/internal/registry"
	"cleanse/internal/services"
)

// uploadFieldName is the multipart form field carrying the dataset file.
const uploadFieldName = "file"

// DatasetHandler serves the dataset API
type DatasetHandler struct {
	service        DatasetServiceInterface
	csv            *exporter.CSVWriter
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		csv:            exporter.NewCSVWriter(logger),
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the dataset routes with proper chi patterns
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Get("/current", h.GetCurrent)

	r.Route("/{id}", func(r chi.Router) {
		r.Delete("/", h.Delete)
		r.Get("/summary", h.GetSummary)
		r.Get("/included", h.GetIncluded)
		r.Get("/excluded", h.GetExcluded)
		r.Get("/top-names", h.GetTopNames)
		r.Get("/export/{kind}", h.Export)
	})

	return r
}

// datasetResponse is the row-free dataset view returned by the API.
type datasetResponse struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	UploadedAt    time.Time `json:"uploaded_at"`
	OriginalCount int       `json:"original_count"`
	IncludedCount int       `json:"included_count"`
	ExcludedCount int       `json:"excluded_count"`
}

func toDatasetResponse(d *registry.Dataset) datasetResponse {
	return datasetResponse{
		ID:            d.ID,
		Filename:      d.Filename,
		UploadedAt:    d.UploadedAt,
		OriginalCount: d.OriginalCount,
		IncludedCount: len(d.Included),
		ExcludedCount: len(d.Excluded),
	}
}

// Upload handles POST /api/datasets
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(uploadFieldName, "A dataset file is required"))
		return
	}
	defer file.Close()

	h.logger.InfoContext(ctx, "processing upload",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	dataset, err := h.service.Process(ctx, header.Filename, file)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"data":    toDatasetResponse(dataset),
		"summary": dataset.Summary,
	})
}

// List handles GET /api/datasets
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	datasets := h.service.List(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   datasets,
		"count":  len(datasets),
	})
}

// GetCurrent handles GET /api/datasets/current
func (h *DatasetHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.service.Current(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   toDatasetResponse(dataset),
	})
}

// Delete handles DELETE /api/datasets/{id}
func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusNoContent)
	render.NoContent(w, r)
}

// GetSummary handles GET /api/datasets/{id}/summary
func (h *DatasetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	summary, err := h.service.Summary(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetIncluded handles GET /api/datasets/{id}/included
func (h *DatasetHandler) GetIncluded(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, perPage := pageParams(r)

	rows, meta, err := h.service.Included(r.Context(), id, page, perPage)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":     "success",
		"data":       rows,
		"count":      len(rows),
		"pagination": meta,
	})
}

// GetExcluded handles GET /api/datasets/{id}/excluded
func (h *DatasetHandler) GetExcluded(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, perPage := pageParams(r)

	rows, meta, err := h.service.Excluded(r.Context(), id, page, perPage)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":     "success",
		"data":       rows,
		"count":      len(rows),
		"pagination": meta,
	})
}

// GetTopNames handles GET /api/datasets/{id}/top-names
func (h *DatasetHandler) GetTopNames(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.service.TopNames(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// Export handles GET /api/datasets/{id}/export/{kind}
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	kind := chi.URLParam(r, "kind")

	dataset, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	switch kind {
	case "included":
		h.exportCSV(w, r, "data_included.csv", func(wr http.ResponseWriter) error {
			return h.csv.WriteIncluded(wr, dataset.Included)
		})
	case "excluded":
		h.exportCSV(w, r, "data_excluded.csv", func(wr http.ResponseWriter) error {
			return h.csv.WriteExcluded(wr, dataset.Excluded)
		})
	case "summary":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="summary_stats.json"`)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dataset.Summary); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to stream summary export",
				slog.String("dataset_id", id),
				slog.String("error", err.Error()))
		}
	default:
		h.errorHandler.HandleError(w, r,
			apierrors.ErrValidation("kind", fmt.Sprintf("Unknown export kind: %s", kind)))
	}
}

func (h *DatasetHandler) exportCSV(w http.ResponseWriter, r *http.Request, filename string, write func(http.ResponseWriter) error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := write(w); err != nil {
		// Headers are already gone, so only log.
		h.logger.ErrorContext(r.Context(), "failed to stream csv export",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
	}
}

// handleServiceError maps service sentinels to API errors.
func (h *DatasetHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
	case errors.Is(err, services.ErrNoCurrentDataset):
		h.errorHandler.HandleError(w, r, apierrors.ErrNoCurrentData)
	case errors.Is(err, services.ErrInvalidDataset):
		h.errorHandler.HandleError(w, r, apierrors.InvalidDatasetError(err))
	case errors.Is(err, services.ErrUnsupportedFormat):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusUnprocessableEntity,
			"UNSUPPORTED_FORMAT",
			"Unsupported file format",
			err.Error(),
		))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// pageParams parses page and per_page query parameters with defaults.
func pageParams(r *http.Request) (int, int) {
	page := 1
	perPage := 50

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
		}
	}

	return page, perPage
}
