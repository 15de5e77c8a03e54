package sim

import (
	"context"
	"iter"

	"github.com/matzehuels/ontoviz/pkg/graph"
)

// Frame is the state after one step. Positions is a fresh map owned by the
// receiver.
type Frame struct {
	Tick      int               `json:"tick"`
	Alpha     float64           `json:"alpha"`
	Positions graph.PositionMap `json:"positions"`
	// Final is set on the frame produced by the step that halted the simulation.
	Final     bool `json:"final"`
	Converged bool `json:"converged"`
}

func (s *Simulation) frame() Frame {
	return Frame{
		Tick:      s.tick,
		Alpha:     s.alpha,
		Positions: s.Positions(),
		Final:     s.halted,
		Converged: s.converged,
	}
}

// Frames returns an iterator yielding one frame per step until the
// simulation halts, ctx is done, or the consumer stops.
func (s *Simulation) Frames(ctx context.Context) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for ctx.Err() == nil && s.Step() {
			if !yield(s.frame()) {
				return
			}
		}
	}
}

// Iterator returns a pull-style iterator over the simulation's frames.
func (s *Simulation) Iterator(ctx context.Context) *Iterator {
	return &Iterator{ctx: ctx, sim: s}
}

// Iterator steps a simulation on demand. It is intended for event loops
// that draw one frame per message.
type Iterator struct {
	ctx context.Context
	sim *Simulation
}

// Next steps once and returns the resulting frame. The second result is
// false when no step was taken.
func (it *Iterator) Next() (Frame, bool) {
	if it.ctx.Err() != nil || !it.sim.Step() {
		return Frame{}, false
	}
	return it.sim.frame(), true
}

// Restart re-heats the underlying simulation. See [Simulation.Restart].
func (it *Iterator) Restart(alpha float64) { it.sim.Restart(alpha) }

// Err reports why iteration stopped: the context error, [ErrCanceled], or
// nil for a natural halt.
func (it *Iterator) Err() error {
	if err := it.ctx.Err(); err != nil {
		return err
	}
	if it.sim.canceled.Load() {
		return ErrCanceled
	}
	return nil
}

// Simulation returns the simulation being iterated.
func (it *Iterator) Simulation() *Simulation { return it.sim }
