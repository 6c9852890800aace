package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/pipelayout/pkg/buildinfo"
	"github.com/matzehuels/pipelayout/pkg/errors"
	"github.com/matzehuels/pipelayout/pkg/graph"
	"github.com/matzehuels/pipelayout/pkg/layout"
	"github.com/matzehuels/pipelayout/pkg/pipeline"
)

// request is the body accepted by every /v1 endpoint.
type request struct {
	Pipeline *graph.Pipeline  `json:"pipeline"`
	Options  pipeline.Options `json:"options"`
}

// LayoutResponse is returned by POST /v1/layout.
type LayoutResponse struct {
	RequestID    string                     `json:"request_id"`
	PipelineHash string                     `json:"pipeline_hash"`
	Cached       bool                       `json:"cached"`
	Positions    map[string]layout.Position `json:"positions"`
	Components   []layout.Component         `json:"components"`
	Bounds       layout.BBox                `json:"bounds"`
	Pipeline     *graph.Pipeline            `json:"pipeline"`
}

// SequenceResponse is returned by POST /v1/sequence.
type SequenceResponse struct {
	RequestID string   `json:"request_id"`
	Cached    bool     `json:"cached"`
	Sequence  []string `json:"sequence"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// decode reads the request body, seeding options from the server defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*request, error) {
	req := &request{Options: s.defaults}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", MaxBodyBytes)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request: %v", err)
	}
	if req.Pipeline == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request has no pipeline")
	}
	req.Options.Logger = s.logger
	if err := req.Options.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Pipeline, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	positioned, err := pipeline.Positioned(req.Pipeline, res)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		RequestID:    RequestIDFromContext(r.Context()),
		PipelineHash: pipeline.HashPipeline(req.Pipeline),
		Cached:       hit,
		Positions:    res.Positions,
		Components:   res.Components,
		Bounds:       res.Bounds(),
		Pipeline:     positioned,
	})
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	seq, hit, err := s.runner.SequenceWithCacheInfo(r.Context(), req.Pipeline, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SequenceResponse{
		RequestID: RequestIDFromContext(r.Context()),
		Cached:    hit,
		Sequence:  seq,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Options.Formats = []string{format}

	res, err := s.runner.Layout(r.Context(), req.Pipeline, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	positioned, err := pipeline.Positioned(req.Pipeline, res)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), positioned, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}
