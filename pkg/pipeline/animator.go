package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/generation"
	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/hull"
	"github.com/matzehuels/ontoviz/pkg/layout"
	"github.com/matzehuels/ontoviz/pkg/model"
	"github.com/matzehuels/ontoviz/pkg/observability"
	"github.com/matzehuels/ontoviz/pkg/sim"
)

// FrameEvent is one animation frame delivered to an [Animator] consumer.
type FrameEvent struct {
	View       string            `json:"view"`
	RunID      string            `json:"run_id"`
	Generation uint64            `json:"generation"`
	Algorithm  string            `json:"algorithm"`
	HasCycles  bool              `json:"has_cycles"`
	Tick       int               `json:"tick"`
	Alpha      float64           `json:"alpha"`
	Final      bool              `json:"final"`
	Converged  bool              `json:"converged"`
	Positions  graph.PositionMap `json:"positions"`
	Hulls      []hull.Shape      `json:"hulls,omitempty"`
}

// Animator runs iterative layouts frame by frame. At most one run per view
// is live: starting a run cancels the previous run of the same view, and its
// generation token makes any frame the old run still produces stale. Runs
// are ordered by generation, not by arrival: a run whose token was issued
// after the live run's replaces it, one issued before never starts.
// Every run owns its own simulation.
type Animator struct {
	Tracker *generation.Tracker
	Logger  *log.Logger

	// Every emits every Nth frame; the final frame is always emitted.
	Every int

	mu   sync.Mutex
	runs map[string]*run
}

type run struct {
	id         string
	generation uint64
	cancel     context.CancelFunc
}

// NewAnimator creates an animator. A nil tracker uses an in-process store.
func NewAnimator(tracker *generation.Tracker, logger *log.Logger) *Animator {
	if tracker == nil {
		tracker = generation.NewTracker(nil)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Animator{
		Tracker: tracker,
		Logger:  logger,
		Every:   1,
		runs:    make(map[string]*run),
	}
}

// Animate lays out snap for view and calls emit for each frame until the
// layout halts. Hierarchical layouts produce a single final frame.
//
// It returns nil after the final frame, a STALE_RESULT error when a newer
// run for the same view superseded this one, the context's error when ctx
// ends, or the first error returned by emit.
func (a *Animator) Animate(ctx context.Context, view string, snap graph.Snapshot, opts Options, emit func(FrameEvent) error) error {
	if err := errors.ValidateViewName(view); err != nil {
		return err
	}
	if opts.Logger == nil {
		opts.Logger = a.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if err := ValidateSnapshot(snap); err != nil {
		return err
	}

	tok, err := a.Tracker.Begin(ctx, view)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "begin generation for %s", view)
	}
	runCtx, self, ok := a.begin(ctx, view, tok.Generation)
	if !ok {
		return a.stopped(ctx, view, tok, 0, generation.ErrStale)
	}
	defer a.end(view, self)

	m := model.Build(snap.Nodes, snap.Edges, model.WithLogger(opts.Logger))
	w, h := opts.NodeSize()
	sizes := hull.UniformSizes(m.IDs(), w, h)
	groups := m.Groups()

	base := FrameEvent{
		View:       view,
		RunID:      self.id,
		Generation: tok.Generation,
		Algorithm:  string(opts.Layout.Algorithm),
		HasCycles:  m.HasCycles(),
	}
	send := func(f sim.Frame) error {
		ev := base
		ev.Tick, ev.Alpha = f.Tick, f.Alpha
		ev.Final, ev.Converged = f.Final, f.Converged
		ev.Positions = f.Positions
		ev.Hulls = hull.Compute(f.Positions, sizes, groups, opts.Padding)
		return a.Tracker.Commit(runCtx, tok, func() error { return emit(ev) })
	}

	hooks := observability.Animation()
	hooks.OnRunStart(ctx, view, tok.Generation)
	a.Logger.Debug("animation started", "view", view, "generation", tok.Generation, "run", self.id)
	start := time.Now()

	s, err := layout.NewSimulation(m, opts.Layout)
	if stderrors.Is(err, layout.ErrStatic) {
		res, err := layout.Compute(runCtx, m, opts.Layout)
		if err != nil {
			return a.stopped(ctx, view, tok, 0, err)
		}
		err = send(sim.Frame{Positions: res.Positions, Final: true, Converged: true})
		if err != nil {
			return a.stopped(ctx, view, tok, 0, err)
		}
		hooks.OnRunComplete(ctx, view, tok.Generation, 1, true)
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "prepare simulation")
	}

	every := max(a.Every, 1)
	frames := 0
	for f := range s.Frames(runCtx) {
		if !f.Final && f.Tick%every != 0 {
			continue
		}
		if err := send(f); err != nil {
			return a.stopped(ctx, view, tok, frames, err)
		}
		frames++
	}
	if err := runCtx.Err(); err != nil {
		return a.stopped(ctx, view, tok, frames, err)
	}

	hooks.OnRunComplete(ctx, view, tok.Generation, frames, s.Converged())
	a.Logger.Debug("animation finished",
		"view", view,
		"frames", frames,
		"ticks", s.Tick(),
		"converged", s.Converged(),
		"duration", time.Since(start))
	return nil
}

// stopped classifies why a run ended early. A run whose own context ended
// while the caller's did not was canceled by a newer run and is stale.
func (a *Animator) stopped(ctx context.Context, view string, tok generation.Token, frames int, err error) error {
	superseded := stderrors.Is(err, generation.ErrStale) ||
		(ctx.Err() == nil && (stderrors.Is(err, context.Canceled) || stderrors.Is(err, sim.ErrCanceled)))
	if superseded {
		observability.Animation().OnRunSuperseded(ctx, view, tok.Generation, frames)
		a.Logger.Debug("animation superseded", "view", view, "generation", tok.Generation, "frames", frames)
		return errors.Wrap(errors.ErrCodeStale, generation.ErrStale, "run %s superseded", tok)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Cancel stops the live run of view, if any.
func (a *Animator) Cancel(view string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.runs[view]
	if ok {
		r.cancel()
		delete(a.runs, view)
	}
	return ok
}

// Active reports whether view has a live run.
func (a *Animator) Active(view string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.runs[view]
	return ok
}

// begin registers a run holding generation gen for view. It reports false,
// leaving the live run untouched, when that run holds a later generation.
func (a *Animator) begin(ctx context.Context, view string, gen uint64) (context.Context, *run, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runs == nil {
		a.runs = make(map[string]*run)
	}
	prev, ok := a.runs[view]
	if ok && prev.generation > gen {
		return nil, nil, false
	}
	if ok {
		prev.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	self := &run{id: uuid.NewString(), generation: gen, cancel: cancel}
	a.runs[view] = self
	return runCtx, self, true
}

func (a *Animator) end(view string, self *run) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runs[view] == self {
		delete(a.runs, view)
	}
	self.cancel()
}
