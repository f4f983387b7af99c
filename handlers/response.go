package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"deadline-tracker/errs"
	"deadline-tracker/models"
	"deadline-tracker/utilities"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		utilities.LogError(err, "Error encoding response body")
	}
}

// writeError is the single place where errors become HTTP statuses.
// Causes of 500s are logged and never sent to the client.
func writeError(w http.ResponseWriter, err error, id string) {
	var httpErr *errs.HTTPError
	switch {
	case errors.As(err, &httpErr):
		// already shaped for the client
	case errors.Is(err, models.ErrDeadlineNotFound):
		httpErr = errs.NewNotFoundError("Deadline with UUID " + id + " not found")
	case errors.Is(err, models.ErrInvalidStatus), errors.Is(err, models.ErrInvalidCategory):
		httpErr = errs.NewBadRequestError(err.Error(), nil)
	case errors.Is(err, models.ErrDeadlineUpdate):
		utilities.LogError(err, "Deadline update rejected by the store")
		httpErr = errs.NewInternalServerError("Error updating the deadline")
	default:
		utilities.LogError(err, "Unhandled error")
		httpErr = errs.NewInternalServerError("")
	}
	writeJSON(w, httpErr.Status, httpErr)
}
