package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code apperrors.Code) int {
	switch {
	case code == apperrors.ErrCodeCycleDetected,
		code == apperrors.ErrCodeSelfRelation,
		code == apperrors.ErrCodeTooManyParents,
		code == apperrors.ErrCodeDragInProgress:
		return http.StatusConflict
	case code == apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(string(code), "NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErrorStatus(w, http.StatusRequestEntityTooLarge, string(apperrors.ErrCodeInvalidInput), "request body too large")
		return
	}
	code := apperrors.GetCode(err)
	if code == "" {
		writeErrorStatus(w, http.StatusInternalServerError, string(apperrors.ErrCodeInternal), err.Error())
		return
	}
	writeErrorStatus(w, statusFor(code), string(code), apperrors.UserMessage(err))
}

func writeErrorStatus(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
