package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/pipeline"
)

// SSE event names.
const (
	EventFrame      = "frame"
	EventDone       = "done"
	EventSuperseded = "superseded"
	EventError      = "error"
)

// eventStream writes server-sent events.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func (es *eventStream) start() {
	if es.started {
		return
	}
	h := es.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	es.w.WriteHeader(http.StatusOK)
	es.started = true
}

func (es *eventStream) send(event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	es.start()
	if _, err := fmt.Fprintf(es.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	es.flusher.Flush()
	return nil
}

// handleFrames streams the animation of a layout as server-sent events.
// Validation errors are reported as JSON before the stream starts; after
// that, the stream ends with a done, superseded or error event.
func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "streaming not supported"))
		return
	}
	view := chi.URLParam(r, "view")
	if err := errors.ValidateViewName(view); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.options(req.Options)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := pipeline.ValidateSnapshot(req.Snapshot); err != nil {
		s.writeError(w, r, err)
		return
	}

	es := &eventStream{w: w, flusher: flusher}
	var last pipeline.FrameEvent
	err := s.animator.Animate(r.Context(), view, req.Snapshot, opts, func(ev pipeline.FrameEvent) error {
		last = ev
		return es.send(EventFrame, ev)
	})

	reqID := RequestID(r.Context())
	switch {
	case err == nil:
		_ = es.send(EventDone, map[string]any{
			"request_id": reqID,
			"view":       view,
			"run_id":     last.RunID,
			"generation": last.Generation,
			"tick":       last.Tick,
			"converged":  last.Converged,
		})
	case errors.Is(err, errors.ErrCodeStale):
		_ = es.send(EventSuperseded, map[string]any{
			"request_id": reqID,
			"view":       view,
			"run_id":     last.RunID,
			"generation": last.Generation,
		})
	case stderrors.Is(err, context.Canceled), r.Context().Err() != nil:
		s.logger.Debug("frame stream closed by client", "view", view, "id", reqID)
	case !es.started:
		s.writeError(w, r, err)
	default:
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		s.logger.Error("frame stream failed", "view", view, "id", reqID, "err", err)
		_ = es.send(EventError, ErrorResponse{
			RequestID: reqID,
			Error:     ErrorBody{Code: code, Message: errors.UserMessage(err)},
		})
	}
}

// handleCancelFrames stops the live frame stream of a view. The stream
// receives a superseded event.
func (s *Server) handleCancelFrames(w http.ResponseWriter, r *http.Request) {
	view := chi.URLParam(r, "view")
	if err := errors.ValidateViewName(view); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.animator.Cancel(view) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no live stream for view %q", view))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
