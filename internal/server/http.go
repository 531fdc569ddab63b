package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/example/triptime/internal/dataset"
	"github.com/example/triptime/internal/errs"
	"github.com/example/triptime/internal/pipeline"
)

// Runner is the slice of the pipeline the HTTP surface needs.
type Runner interface {
	Train(ctx context.Context, cfg pipeline.Config) (pipeline.TrainResult, error)
	PredictTrips(ctx context.Context, cfg pipeline.Config, trips []dataset.Trip) ([]dataset.Prediction, error)
}

// HTTP exposes the prediction and training pipelines as two endpoints.
type HTTP struct {
	runner     Runner
	cfg        pipeline.Config
	logger     *zap.Logger
	trainGuard func(http.Handler) http.Handler
}

// NewHTTP constructs the handler. Each request runs a full pipeline
// invocation against cfg.
func NewHTTP(runner Runner, cfg pipeline.Config, logger *zap.Logger) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTP{runner: runner, cfg: cfg, logger: logger}
}

// WithTrainGuard installs middleware protecting the training endpoint.
func (h *HTTP) WithTrainGuard(guard func(http.Handler) http.Handler) *HTTP {
	h.trainGuard = guard
	return h
}

// Router builds the chi router with all endpoints and middlewares.
func (h *HTTP) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Post("/v1/predict", h.predict)
	if h.trainGuard != nil {
		r.With(h.trainGuard).Post("/v1/train", h.train)
	} else {
		r.Post("/v1/train", h.train)
	}
	return r
}

type tripRecord struct {
	ID               string   `json:"id"`
	PickupLatitude   *float64 `json:"pickup_latitude"`
	PickupLongitude  *float64 `json:"pickup_longitude"`
	DropoffLatitude  *float64 `json:"dropoff_latitude"`
	DropoffLongitude *float64 `json:"dropoff_longitude"`
	PassengerCount   *int     `json:"passenger_count"`
	PickupDatetime   string   `json:"pickup_datetime"`
}

func (rec tripRecord) missingField() string {
	switch {
	case rec.PickupLatitude == nil:
		return "pickup_latitude"
	case rec.PickupLongitude == nil:
		return "pickup_longitude"
	case rec.DropoffLatitude == nil:
		return "dropoff_latitude"
	case rec.DropoffLongitude == nil:
		return "dropoff_longitude"
	case rec.PassengerCount == nil:
		return "passenger_count"
	case rec.PickupDatetime == "":
		return "pickup_datetime"
	default:
		return ""
	}
}

func (h *HTTP) predict(w http.ResponseWriter, r *http.Request) {
	var records []tripRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusBadRequest, "at least one trip record is required")
		return
	}

	trips := make([]dataset.Trip, len(records))
	for i, rec := range records {
		if field := rec.missingField(); field != "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("record %d: missing field %q", i, field))
			return
		}
		id := rec.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		trips[i] = dataset.Trip{
			ID:               id,
			PassengerCount:   *rec.PassengerCount,
			PickupLatitude:   *rec.PickupLatitude,
			PickupLongitude:  *rec.PickupLongitude,
			DropoffLatitude:  *rec.DropoffLatitude,
			DropoffLongitude: *rec.DropoffLongitude,
			PickupDatetime:   rec.PickupDatetime,
		}
	}

	predictions, err := h.runner.PredictTrips(r.Context(), h.cfg, trips)
	if err != nil {
		h.logger.Error("predict request failed", zap.Error(err))
		writeError(w, predictStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": predictions})
}

func (h *HTTP) train(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Train(r.Context(), h.cfg)
	if err != nil {
		h.logger.Error("train request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "trained",
		"run_id":     result.RunID,
		"model_path": result.ModelPath,
		"rows":       result.Rows,
		"trained_at": result.TrainedAt,
	})
}

// predictStatus maps pipeline failures to response classes: a schema
// violation means the caller's records were malformed, everything else is an
// internal failure.
func predictStatus(err error) int {
	var schemaErr *errs.SchemaError
	if errors.As(err, &schemaErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
