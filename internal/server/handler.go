// Package server exposes a Repository over the /records REST resource.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dbsmedya/recordsdesk/internal/api"
	"github.com/dbsmedya/recordsdesk/internal/logger"
	"github.com/dbsmedya/recordsdesk/internal/record"
	"github.com/dbsmedya/recordsdesk/internal/repository"
)

// maxBodyBytes caps request bodies on POST and PATCH.
const maxBodyBytes = 1 << 20

// Handler serves the records resource plus /healthz and, when a registry is
// configured, /metrics.
type Handler struct {
	repo    repository.Repository
	logger  *logger.Logger
	metrics *Metrics
	health  func(context.Context) error
	mux     *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records request metrics into m and serves them on /metrics.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithHealthCheck makes /healthz report 503 while check fails.
func WithHealthCheck(check func(context.Context) error) Option {
	return func(h *Handler) {
		h.health = check
	}
}

// NewHandler constructs the HTTP handler for repo.
func NewHandler(repo repository.Repository, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.NewDefault()
	}
	h := &Handler{repo: repo, logger: log, mux: http.NewServeMux()}
	for _, opt := range opts {
		opt(h)
	}

	collection := api.ResourcePath
	item := api.ResourcePath + "/{id}"

	h.route("GET "+collection, h.handleList)
	h.route("POST "+collection, h.handleCreate)
	h.route("PATCH "+item, h.handleUpdate)
	h.route("DELETE "+item, h.handleDelete)
	h.route("GET /healthz", h.handleHealth)
	if h.metrics != nil {
		h.mux.Handle("GET /metrics", promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{}))
	}
	return h
}

func (h *Handler) route(pattern string, fn http.HandlerFunc) {
	var next http.Handler = fn
	next = h.logRequests(next)
	if h.metrics != nil {
		next = h.metrics.instrument(pattern, next)
	}
	h.mux.Handle(pattern, requestID(next))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var d record.Draft
	if !decodeBody(w, r, &d) {
		return
	}
	created, err := h.repo.Create(r.Context(), d)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	requestLogger(r, h.logger).WithRecord(created.ID).Infow("Record created")
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	// only the keys present in the body change
	var p record.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	updated, err := h.repo.Update(r.Context(), id, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	requestLogger(r, h.logger).WithRecord(id).Infow("Record updated")
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	requestLogger(r, h.logger).WithRecord(id).Infow("Record deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			requestLogger(r, h.logger).Warnw("Health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// fail maps repository errors onto status codes.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	requestLogger(r, h.logger).Errorw("Repository failure", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
