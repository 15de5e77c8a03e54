package layout

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/model"
	"github.com/matzehuels/ontoviz/pkg/sim"
)

// ErrStatic is returned by [NewSimulation] for strategies that compute
// positions in closed form.
var ErrStatic = errors.New("layout algorithm is not iterative")

// Result is the outcome of [Compute].
type Result struct {
	// Positions holds exactly one finite point per model node.
	Positions graph.PositionMap `json:"positions"`
	HasCycles bool              `json:"has_cycles"`
	// Algorithm is the strategy actually used after defaulting.
	Algorithm Algorithm `json:"algorithm"`
	// Iterations is the number of simulation steps (0 for Hierarchical).
	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`
}

// Compute lays out m with the strategy selected in opts. Options are
// defaulted on a copy. The only possible error is the context's: a layout
// interrupted by cancellation still returns the positions reached so far.
func Compute(ctx context.Context, m *model.Model, opts Options) (Result, error) {
	opts.SetDefaults()
	start := time.Now()

	res := Result{
		Algorithm: opts.Algorithm,
		HasCycles: m.HasCycles(),
		Positions: make(graph.PositionMap, m.Len()),
	}

	switch {
	case m.Len() == 0:
		res.Converged = true
		return res, ctx.Err()
	case m.Len() == 1:
		res.Positions[m.ID(0)] = graph.Point{}
		res.Converged = true
		return res, ctx.Err()
	case opts.Algorithm == Hierarchical:
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Positions = hierarchical(ctx, m, &opts)
		res.Converged = true
		opts.Logger.Debug("layout computed",
			"algorithm", res.Algorithm, "nodes", m.Len(), "duration", time.Since(start))
		return res, ctx.Err()
	}

	s := newSimulation(m, &opts)
	pos, err := s.Run(ctx)
	res.Positions = pos
	res.Iterations = s.Tick()
	res.Converged = s.Converged()

	opts.Logger.Debug("layout computed",
		"algorithm", res.Algorithm,
		"nodes", m.Len(),
		"iterations", res.Iterations,
		"converged", res.Converged,
		"duration", time.Since(start))
	return res, err
}

// NewSimulation prepares the simulation an iterative strategy would run, for
// callers that animate intermediate frames. It returns [ErrStatic] when the
// (defaulted) algorithm is Hierarchical. Each call returns an independent
// simulation.
func NewSimulation(m *model.Model, opts Options) (*sim.Simulation, error) {
	opts.SetDefaults()
	if !opts.Algorithm.IsIterative() {
		return nil, ErrStatic
	}
	return newSimulation(m, &opts), nil
}

func newSimulation(m *model.Model, opts *Options) *sim.Simulation {
	simOpts := []sim.Option{
		sim.WithRadius(opts.NodeRadius),
		sim.WithAlphaMin(opts.AlphaMin),
		sim.WithAlphaDecay(opts.AlphaDecay),
		sim.WithVelocityDecay(opts.VelocityDecay),
		sim.WithMaxIterations(opts.MaxIterations),
		sim.WithPerturbation(opts.InitialRadius),
		sim.WithLogger(opts.Logger),
	}

	if m.Len() == 1 {
		s := sim.New(m.IDs(), nil, simOpts...)
		s.Pin(m.ID(0), graph.Point{})
		return s
	}

	switch opts.Algorithm {
	case HybridConstrained:
		return newHybrid(m, opts, simOpts)
	case Radial:
		return newRadial(m, opts, simOpts)
	default:
		return newForce(m, opts, simOpts)
	}
}
