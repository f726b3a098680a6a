package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"goqmra/app"
	"goqmra/internal"
	apperrors "goqmra/internal/errors"
	"goqmra/internal/pathogen"
)

// PathogenList is the body of GET /v1/pathogens.
type PathogenList struct {
	Pathogens []pathogen.Record `json:"pathogens"`
	Count     int               `json:"count"`
}

// BatchRequest is the body of POST /v1/assessments/batch.
type BatchRequest struct {
	Scenarios []app.Scenario `json:"scenarios"`
}

// DoseForRiskRequest is the body of POST /v1/dose-response/{pathogen}/dose-for-risk.
type DoseForRiskRequest struct {
	Target float64 `json:"target"`
	Model  string  `json:"model,omitempty"`
}

// Handler exposes the application services as HTTP handlers.
type Handler struct {
	assessments  *app.AssessmentService
	batches      *app.BatchService
	maxBodyBytes int64
	logger       *internal.Logger
}

// NewHandler creates a new Handler.
func NewHandler(assessments *app.AssessmentService, batches *app.BatchService, maxBodyBytes int64, logger *internal.Logger) *Handler {
	return &Handler{
		assessments:  assessments,
		batches:      batches,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPathogens handles GET /v1/pathogens.
func (h *Handler) ListPathogens(w http.ResponseWriter, r *http.Request) {
	records, err := h.assessments.Pathogens(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, PathogenList{Pathogens: records, Count: len(records)})
}

// GetPathogen handles GET /v1/pathogens/{name}.
func (h *Handler) GetPathogen(w http.ResponseWriter, r *http.Request) {
	record, err := h.assessments.Pathogen(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}

// CreateAssessment handles POST /v1/assessments.
func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var sc app.Scenario
	if err := h.decode(w, r, &sc); err != nil {
		h.writeError(w, r, err)
		return
	}
	assessment, err := h.assessments.Assess(r.Context(), sc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, assessment)
}

// CreateBatch handles POST /v1/assessments/batch. Invalid scenarios reject the
// whole request with every issue listed; scenarios that fail while running
// are reported inside the result.
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.batches.Validate(req.Scenarios); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.batches.Run(r.Context(), req.Scenarios)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// DoseForRisk handles POST /v1/dose-response/{pathogen}/dose-for-risk.
func (h *Handler) DoseForRisk(w http.ResponseWriter, r *http.Request) {
	var req DoseForRiskRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.assessments.DoseForRisk(r.Context(), chi.URLParam(r, "pathogen"), req.Model, req.Target)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// decode reads a single JSON document, rejecting unknown fields.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("request body is empty")
		}
		return apperrors.InvalidInput(fmt.Sprintf("invalid JSON body: %v", err))
	}
	if dec.More() {
		return apperrors.InvalidInput("request body must contain a single JSON document")
	}
	return nil
}
