package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/timeutil"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	mu      sync.Mutex
	tracker *service.TrackerService
}

// NewHandler creates a new handler
func NewHandler(tracker *service.TrackerService) *Handler {
	return &Handler{tracker: tracker}
}

// CloseIdle is middleware that closes a work interval left open past
// max_idle before the request is served.
func (h *Handler) CloseIdle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		_, err := h.tracker.CloseIdle(h.tracker.Now())
		h.mu.Unlock()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to close idle work", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetStatus handles GET /api/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, toStatusDTO(h.tracker.Status()))
}

// ListRecords handles GET /api/records
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, toRecordDTOs(h.tracker.Records()))
}

// GetReport handles GET /api/report. Without parameters it covers the last
// seven days.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := r.URL.Query()
	start, end, err := timeutil.ParseDateRangeFlags(q.Get("from"), q.Get("to"), 0, h.tracker.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err)
		return
	}

	writeJSON(w, http.StatusOK, toReportDTO(h.tracker.Report(start, end)))
}

// StartWork handles POST /api/work
func (h *Handler) StartWork(w http.ResponseWriter, r *http.Request) {
	h.record(w, h.tracker.StartWork)
}

// StartBreak handles POST /api/break
func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.record(w, h.tracker.StartBreak)
}

// Toggle handles POST /api/toggle
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.record(w, h.tracker.Toggle)
}

// AddBreak handles POST /api/break-add
func (h *Handler) AddBreak(w http.ResponseWriter, r *http.Request) {
	var req BreakAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Minutes > entry.MaxDurationMinutes {
		writeError(w, http.StatusBadRequest, "break too long", service.ErrInvalidBreakDuration)
		return
	}

	h.record(w, func() (entry.Record, error) {
		return h.tracker.AddBreak(time.Duration(req.Minutes) * time.Minute)
	})
}

func (h *Handler) record(w http.ResponseWriter, fn func() (entry.Record, error)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec, err := fn()
	switch {
	case errors.Is(err, service.ErrAlreadyWorking), errors.Is(err, service.ErrAlreadyOnBreak):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidBreakDuration):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to save record", err)
	default:
		writeJSON(w, http.StatusCreated, toRecordDTO(rec))
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
