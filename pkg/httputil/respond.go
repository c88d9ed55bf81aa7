package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/echo-track/echo-track-api/pkg/apperr"
	"github.com/sirupsen/logrus"
)

// Envelope is the response body for mutations.
type Envelope struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("Failed to encode response body")
	}
}

// Success writes the {success, result} envelope used by mutation routes.
func Success(w http.ResponseWriter, status int, result interface{}) {
	JSON(w, status, Envelope{Success: true, Result: result})
}

// Error maps err's kind to a status code and writes the structured error
// body. Every route goes through here so the mapping stays uniform.
func Error(w http.ResponseWriter, err error) {
	JSON(w, StatusFor(apperr.KindOf(err)), errorBody{
		Error: errorDetail{
			Kind:    apperr.KindOf(err),
			Message: apperr.MessageOf(err),
		},
	})
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
