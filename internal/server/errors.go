package server

import (
	"encoding/json"
	"net/http"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
)

type errorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case mberr.IsInvalid(err):
		return http.StatusBadRequest
	case mberr.Is(err, mberr.ErrCodeNotFound):
		return http.StatusNotFound
	case mberr.Is(err, mberr.ErrCodeCanceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := mberr.GetCode(err)
	if code == "" {
		code = mberr.ErrCodeInternal
	}

	msg := mberr.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestID(r.Context()))
	}
	writeJSON(w, status, errorResponse{Code: string(code), Error: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
