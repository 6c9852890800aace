package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/pipelayout/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	// Cycles lists the cyclic step groups for CYCLIC_GRAPH.
	Cycles [][]string `json:"cycles,omitempty"`
	// Step and Missing describe a DANGLING_CONNECTION.
	Step    string `json:"step,omitempty"`
	Missing string `json:"missing,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPath, errors.ErrCodeDuplicateStep:
		return http.StatusBadRequest
	case errors.ErrCodeDanglingConnection, errors.ErrCodeCyclicGraph:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func describe(err error) errorDetail {
	d := errorDetail{Code: errors.GetCode(err)}
	if d.Code == "" {
		d.Code = errors.ErrCodeInternal
	}

	var cyc *errors.CyclicGraphError
	var dangling *errors.DanglingConnectionError
	var coded *errors.Error
	switch {
	case stderrors.As(err, &cyc):
		d.Message = cyc.Error()
		d.Cycles = cyc.Cycles
	case stderrors.As(err, &dangling):
		d.Message = dangling.Error()
		d.Step, d.Missing = dangling.Step, dangling.Missing
	case stderrors.As(err, &coded):
		d.Message = coded.Message
	default:
		d.Message = "internal error"
	}
	return d
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	d := describe(err)
	status := statusFor(d.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", RequestIDFromContext(r.Context()))
	}
	writeJSON(w, status, errorBody{Error: d, RequestID: RequestIDFromContext(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
