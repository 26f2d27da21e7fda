package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/loan-registry/internal/config"
	"github.com/Dan9191/loan-registry/internal/export"
	"github.com/Dan9191/loan-registry/internal/metrics"
	"github.com/Dan9191/loan-registry/internal/middleware"
	"github.com/Dan9191/loan-registry/internal/models"
	"github.com/Dan9191/loan-registry/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc     *service.Service
	cfg     *config.Config
	metrics *metrics.Metrics
	log     *logrus.Logger
}

func NewHandler(svc *service.Service, cfg *config.Config, m *metrics.Metrics, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, metrics: m, log: log}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type deleteResponse struct {
	Outcome string              `json:"outcome"`
	Message string              `json:"message"`
	Records []models.LoanRecord `json:"records,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrDuplicateEmail) && errors.As(err, &vErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: vErr.Message, Field: vErr.Field})
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Message, Field: vErr.Field})
	default:
		h.log.Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "An error occurred while accessing the database."})
	}
}

// Login handles operator authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := middleware.IssueToken(h.cfg, req.Password)
	if err != nil {
		h.log.Warnf("Login rejected: %v", err)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ListRecords returns all stored records
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.Records.Set(float64(len(records)))
	writeJSON(w, http.StatusOK, records)
}

// SubmitRecord handles a loan application
func (h *Handler) SubmitRecord(w http.ResponseWriter, r *http.Request) {
	var app models.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.svc.Submit(app)
	if err != nil {
		h.metrics.Applications.WithLabelValues(outcomeOf(err)).Inc()
		h.writeError(w, err)
		return
	}
	h.metrics.Applications.WithLabelValues("stored").Inc()
	writeJSON(w, http.StatusCreated, record)
}

// DeleteRecord removes the record keyed by the email path variable.
// The confirm query parameter carries the user's yes/no decision.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	outcome, err := h.svc.Delete(email, func(string) bool { return confirmed })
	if err != nil {
		h.metrics.Deletions.WithLabelValues(outcomeOf(err)).Inc()
		h.writeError(w, err)
		return
	}
	h.metrics.Deletions.WithLabelValues(outcome.String()).Inc()

	switch outcome {
	case service.DeleteCancelled:
		writeJSON(w, http.StatusPreconditionRequired, deleteResponse{
			Outcome: outcome.String(),
			Message: fmt.Sprintf("Deletion of the record for %s was not confirmed.", email),
		})
	case service.DeleteNotFound:
		writeJSON(w, http.StatusNotFound, deleteResponse{
			Outcome: outcome.String(),
			Message: fmt.Sprintf("No record found with email: %s", email),
		})
	default:
		records, err := h.svc.List()
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.metrics.Records.Set(float64(len(records)))
		writeJSON(w, http.StatusOK, deleteResponse{
			Outcome: outcome.String(),
			Message: "The record has been successfully removed from the database.",
			Records: records,
		})
	}
}

// ExportRecords downloads all records as csv, xml or xlsx
func (h *Handler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.svc.List()
	if err != nil {
		h.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, records); err != nil {
		h.writeError(w, err)
		return
	}

	filename := fmt.Sprintf("loan-records-%s.%s", time.Now().Format("20060102"), format.Extension())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes())
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		return "duplicate"
	case errors.Is(err, service.ErrValidation):
		return "invalid"
	default:
		return "storage_error"
	}
}
