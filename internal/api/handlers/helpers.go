package handlers

import (
	"delivery-scheduler/internal/services"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Warn("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeQueryError maps reporter errors onto HTTP statuses: unknown ids are 404,
// other rejected input is 400.
func writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrPackageNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrRejectedInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		logrus.WithError(err).Error("status query failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// queryTime returns the "at" parameter, defaulting to end of day.
func queryTime(r *http.Request) string {
	if at := r.URL.Query().Get("at"); at != "" {
		return at
	}
	return "EOD"
}
