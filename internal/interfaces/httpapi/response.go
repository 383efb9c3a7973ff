package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/league-scoreboard/internal/usecase"
)

const apiVersion = "2.0"

// responseEnvelope carries either data or error, never both.
type responseEnvelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// errorClass maps a usecase sentinel onto its HTTP shape.
type errorClass struct {
	target     error
	httpStatus int
	status     string
	reason     string
}

var errorClasses = []errorClass{
	{target: usecase.ErrInvalidInput, httpStatus: http.StatusBadRequest, status: "INVALID_ARGUMENT", reason: "invalidInput"},
	{target: usecase.ErrNotFound, httpStatus: http.StatusNotFound, status: "NOT_FOUND", reason: "notFound"},
	{target: usecase.ErrConflict, httpStatus: http.StatusConflict, status: "ALREADY_EXISTS", reason: "alreadyPlayed"},
	{target: usecase.ErrDependencyUnavailable, httpStatus: http.StatusServiceUnavailable, status: "UNAVAILABLE", reason: "storageUnavailable"},
}

var internalErrorClass = errorClass{httpStatus: http.StatusInternalServerError, status: "INTERNAL", reason: "internalError"}

func classifyError(err error) errorClass {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class
		}
	}
	return internalErrorClass
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload responseEnvelope) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, responseEnvelope{APIVersion: apiVersion, Data: data})
}

// writeError replaces the message of unclassified errors with a generic one.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classifyError(err)
	message := "internal server error"
	if class.httpStatus != http.StatusInternalServerError {
		message = err.Error()
	}

	writeJSON(ctx, w, class.httpStatus, responseEnvelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.httpStatus,
			Status:  class.status,
			Reason:  class.reason,
			Message: message,
		},
	})
}
