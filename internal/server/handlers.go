package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ontoviz/pkg/buildinfo"
	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/hull"
	"github.com/matzehuels/ontoviz/pkg/pipeline"
	"github.com/matzehuels/ontoviz/pkg/render"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// LayoutRequest is the body of layout, render and frame requests.
type LayoutRequest struct {
	Snapshot graph.Snapshot    `json:"snapshot"`
	Options  *pipeline.Options `json:"options,omitempty"`
}

// LayoutResponse is the body of a successful layout request.
type LayoutResponse struct {
	RequestID    string          `json:"request_id"`
	SnapshotHash string          `json:"snapshot_hash"`
	Cached       bool            `json:"cached"`
	Payload      *render.Payload `json:"payload"`
	Stats        StatsResponse   `json:"stats"`
}

// StatsResponse reports pipeline statistics with durations in milliseconds.
type StatsResponse struct {
	Nodes      int     `json:"nodes"`
	Edges      int     `json:"edges"`
	Dropped    int     `json:"dropped"`
	Groups     int     `json:"groups"`
	Iterations int     `json:"iterations"`
	LayoutMS   float64 `json:"layout_ms"`
	HullMS     float64 `json:"hull_ms"`
}

// HullsRequest asks for the hulls of groups at given positions. Group
// membership comes from the nodes' group ids.
type HullsRequest struct {
	Nodes      []graph.Node      `json:"nodes"`
	Positions  graph.PositionMap `json:"positions"`
	NodeWidth  float64           `json:"node_width"`
	NodeHeight float64           `json:"node_height"`
	Padding    *float64          `json:"padding,omitempty"`
}

// HullsResponse is the body of a successful hulls request.
type HullsResponse struct {
	RequestID string       `json:"request_id"`
	Hulls     []hull.Shape `json:"hulls"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	RequestID string    `json:"request_id"`
	Error     ErrorBody `json:"error"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "build": buildinfo.Map()}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.options(req.Options)
	opts.Formats = []string{pipeline.FormatJSON}

	res, err := s.runner.Execute(r.Context(), req.Snapshot, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		RequestID:    RequestID(r.Context()),
		SnapshotHash: res.SnapshotHash,
		Cached:       res.CacheInfo.LayoutHit,
		Payload:      res.Payload,
		Stats: StatsResponse{
			Nodes:      res.Stats.NodeCount,
			Edges:      res.Stats.EdgeCount,
			Dropped:    res.Stats.Dropped,
			Groups:     res.Stats.GroupCount,
			Iterations: res.Stats.Iterations,
			LayoutMS:   float64(res.Stats.LayoutTime.Microseconds()) / 1000,
			HullMS:     float64(res.Stats.HullTime.Microseconds()) / 1000,
		},
	})
}

// contentTypes maps artifact formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.options(req.Options)
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), req.Snapshot, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleHulls(w http.ResponseWriter, r *http.Request) {
	var req HullsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.NodeWidth < 0 || req.NodeHeight < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "node size must be non-negative"))
		return
	}
	padding := pipeline.DefaultPadding
	if req.Padding != nil {
		if *req.Padding < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "padding must be non-negative"))
			return
		}
		padding = *req.Padding
	}
	for id, p := range req.Positions {
		if !p.IsFinite() {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "position of %q is not finite", id))
			return
		}
	}

	snap := graph.Snapshot{Nodes: req.Nodes}
	ids := make([]string, len(req.Nodes))
	for i, n := range req.Nodes {
		ids[i] = n.ID
	}
	shapes := hull.Compute(req.Positions, hull.UniformSizes(ids, req.NodeWidth, req.NodeHeight), snap.Groups(), padding)
	if shapes == nil {
		shapes = []hull.Shape{}
	}
	writeJSON(w, http.StatusOK, HullsResponse{RequestID: RequestID(r.Context()), Hulls: shapes})
}

// =============================================================================
// Helpers
// =============================================================================

// options starts from the server defaults and overlays the request's
// non-zero fields.
func (s *Server) options(req *pipeline.Options) pipeline.Options {
	opts := s.defaults
	if req != nil {
		opts = *req
		if opts.Layout.Algorithm == "" {
			opts.Layout.Algorithm = s.defaults.Layout.Algorithm
		}
		if opts.Padding == 0 {
			opts.Padding = s.defaults.Padding
		}
		if opts.Engine == "" {
			opts.Engine = s.defaults.Engine
		}
	}
	opts.Logger = s.logger
	return opts
}

// decode reads a JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.maxBody)
		case stderrors.Is(err, io.EOF):
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		default:
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
		}
	}
	return nil
}

// writeError writes err as an [ErrorResponse] with the status its code maps to.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code, msg = errors.ErrCodeInternal, "internal server error"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		RequestID: RequestID(r.Context()),
		Error:     ErrorBody{Code: code, Message: msg},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
