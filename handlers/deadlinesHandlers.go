package handlers

import (
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"deadline-tracker/errs"
	"deadline-tracker/models"
	"deadline-tracker/services"
	"deadline-tracker/utilities"
	"deadline-tracker/validation"
)

const statusUpdatedMessage = "Deadline status updated successfully"

type DeadlineHandlers struct {
	service *services.DeadlineService
}

func NewDeadlineHandlers(service *services.DeadlineService) *DeadlineHandlers {
	return &DeadlineHandlers{service: service}
}

// CreateDeadlineHandler handles POST /deadlines/.
func (h *DeadlineHandlers) CreateDeadlineHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Creating new deadline")

	var input models.CreateDeadlineInput
	if err := validation.DecodeJSON(r, &input); err != nil {
		writeError(w, err, "")
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// ListDeadlinesHandler handles GET /deadlines/?status=<Status>.
func (h *DeadlineHandlers) ListDeadlinesHandler(w http.ResponseWriter, r *http.Request) {
	var filter *models.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			writeError(w, err, "")
			return
		}
		filter = &st
	}

	utilities.LogDebug("Listing deadlines (status filter: %q)", r.URL.Query().Get("status"))
	deadlines, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, deadlines)
}

// UpdateDueDateHandler handles PUT /deadlines/{id}/due-date?new_due_date=<timestamp>.
func (h *DeadlineHandlers) UpdateDueDateHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	raw := r.URL.Query().Get("new_due_date")
	if raw == "" {
		writeError(w, errs.NewBadRequestError("new_due_date is required", []errs.FieldError{
			{Field: "new_due_date", Error: "is required"},
		}), id)
		return
	}
	dueDate, err := ParseTimestamp(raw)
	if err != nil {
		writeError(w, errs.NewBadRequestError("new_due_date is not a valid timestamp", []errs.FieldError{
			{Field: "new_due_date", Error: err.Error()},
		}), id)
		return
	}

	updated, err := h.service.UpdateDueDate(r.Context(), id, dueDate)
	if err != nil {
		writeError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UpdateStatusHandler handles PUT /deadlines/{id}/update-status?new_status=<Status>.
func (h *DeadlineHandlers) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	st, err := models.ParseStatus(r.URL.Query().Get("new_status"))
	if err != nil {
		writeError(w, errs.NewBadRequestError("new_status must be one of: Open Done Postponed", []errs.FieldError{
			{Field: "new_status", Error: err.Error()},
		}), id)
		return
	}

	if _, err := h.service.UpdateStatus(r.Context(), id, st); err != nil {
		writeError(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: statusUpdatedMessage})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

var timestampLayouts = buildTimestampLayouts()

// buildTimestampLayouts lists YYYY-MM-DD[T| ]HH:MM[:SS[.f]][Z|±HH[:]MM]
// plus a bare date.
func buildTimestampLayouts() []string {
	var layouts []string
	for _, sep := range []string{"T", " "} {
		for _, clock := range []string{"15:04:05.999999999", "15:04"} {
			for _, zone := range []string{"Z07:00", "Z0700", "Z07", ""} {
				layouts = append(layouts, "2006-01-02"+sep+clock+zone)
			}
		}
	}
	return append(layouts, "2006-01-02")
}

var (
	numericTimestamp = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	trailingOffset   = regexp.MustCompile(`^\d{2}(:?\d{2})?$`)
)

// Larger Unix values are read as milliseconds.
const maxUnixSeconds = 2e10

// ParseTimestamp accepts ISO 8601 date-times with or without seconds and
// offset (naive values are UTC), bare dates and Unix seconds or
// milliseconds. A "+" offset that arrived as a space from an unescaped query
// string is restored.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if numericTimestamp.MatchString(raw) {
		return parseUnix(raw)
	}

	candidates := []string{raw}
	if i := strings.LastIndex(raw, " "); i > 0 && trailingOffset.MatchString(raw[i+1:]) && strings.Contains(raw[:i], ":") {
		candidates = append(candidates, raw[:i]+"+"+raw[i+1:])
	}

	var lastErr error
	for _, c := range candidates {
		for _, layout := range timestampLayouts {
			t, err := time.Parse(layout, c)
			if err == nil {
				return t, nil
			}
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, lastErr)
}

func parseUnix(raw string) (time.Time, error) {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, err
	}
	if math.Abs(n) > maxUnixSeconds {
		n /= 1000
	}
	if math.Abs(n) > maxUnixSeconds {
		return time.Time{}, fmt.Errorf("timestamp %s out of range", raw)
	}
	secs, frac := math.Modf(n)
	micros := int64(math.Round(frac * 1e6))
	return time.Unix(int64(secs), micros*int64(time.Microsecond)).UTC(), nil
}
