package sim

import (
	"context"
	"errors"
	"io"
	"math"
	"strconv"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/ontoviz/pkg/graph"
)

// ErrCanceled is returned by [Simulation.Run] after [Simulation.Cancel].
var ErrCanceled = errors.New("simulation canceled")

// Defaults for [New].
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	DefaultMaxIterations = 500
	DefaultRadius        = 28
	DefaultPerturbation  = 30

	initialRadius   = 10
	maxSettlePasses = 256
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in 300 steps.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

type config struct {
	alphaMin      float64
	alphaDecay    float64
	velocityDecay float64
	maxIterations int
	radius        float64
	perturbation  float64
	logger        *log.Logger
}

// Option configures a [Simulation].
type Option func(*config)

// WithAlphaMin sets the alpha below which the simulation halts.
func WithAlphaMin(v float64) Option { return func(c *config) { c.alphaMin = v } }

// WithAlphaDecay sets the per-step cooling rate.
func WithAlphaDecay(v float64) Option { return func(c *config) { c.alphaDecay = v } }

// WithVelocityDecay sets the friction applied to velocities every step.
func WithVelocityDecay(v float64) Option { return func(c *config) { c.velocityDecay = v } }

// WithMaxIterations caps the number of steps per start or restart.
func WithMaxIterations(n int) Option { return func(c *config) { c.maxIterations = n } }

// WithRadius sets the collision radius of every body.
func WithRadius(r float64) Option { return func(c *config) { c.radius = r } }

// WithPerturbation sets the displacement, at alpha 1, applied by Restart.
func WithPerturbation(v float64) Option { return func(c *config) { c.perturbation = v } }

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Simulation is a force simulation over a fixed set of bodies.
type Simulation struct {
	cfg         config
	st          *State
	forces      []Force
	constraints []Constraint

	dv   []r2.Vec
	prev []r2.Vec

	alpha        float64
	tick         int
	sinceRestart int
	restarts     int
	halted       bool
	converged    bool
	canceled     atomic.Bool
}

// New creates a simulation over ids. Bodies start at init[id]; ids missing
// from init are placed on a phyllotaxis spiral around the origin. Neither
// slice nor map is retained.
func New(ids []string, init graph.PositionMap, opts ...Option) *Simulation {
	cfg := config{
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
		maxIterations: DefaultMaxIterations,
		radius:        DefaultRadius,
		perturbation:  DefaultPerturbation,
		logger:        log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := newState(ids)
	for i, id := range st.ids {
		b := &st.Bodies[i]
		if p, ok := init[id]; ok && p.IsFinite() {
			b.Pos = r2.Vec{X: p.X, Y: p.Y}
		} else {
			b.Pos = phyllotaxis(i)
		}
		b.Radius = cfg.radius
	}

	return &Simulation{
		cfg:   cfg,
		st:    st,
		dv:    make([]r2.Vec, len(ids)),
		prev:  make([]r2.Vec, len(ids)),
		alpha: 1,
	}
}

func phyllotaxis(i int) r2.Vec {
	r := initialRadius * math.Sqrt(0.5+float64(i))
	a := float64(i) * math.Pi * (3 - math.Sqrt(5))
	return r2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
}

// AddForce registers a force. Forces added while running apply from the
// next step.
func (s *Simulation) AddForce(f Force) *Simulation {
	s.forces = append(s.forces, f)
	return s
}

// AddConstraint registers a constraint, applied after the ones already added.
func (s *Simulation) AddConstraint(c Constraint) *Simulation {
	s.constraints = append(s.constraints, c)
	return s
}

// State returns the body arena. Callers may pin bodies or adjust radii
// before the first step.
func (s *Simulation) State() *State { return s.st }

// Pin fixes a body at p. Pinned bodies ignore forces and collisions.
func (s *Simulation) Pin(id string, p graph.Point) {
	if i, ok := s.st.Index(id); ok {
		b := &s.st.Bodies[i]
		b.Pos = r2.Vec{X: p.X, Y: p.Y}
		b.Vel = r2.Vec{}
		b.Pinned = true
	}
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Tick returns the number of steps taken since creation.
func (s *Simulation) Tick() int { return s.tick }

// Converged reports whether the simulation halted because alpha dropped
// below the minimum.
func (s *Simulation) Converged() bool { return s.converged }

// Halted reports whether no further steps will run until a restart.
func (s *Simulation) Halted() bool { return s.halted || s.canceled.Load() }

// Positions returns a fresh copy of the current positions.
func (s *Simulation) Positions() graph.PositionMap { return s.st.Positions() }

// Cancel stops the simulation at the next step boundary. It is safe to call
// from any goroutine.
func (s *Simulation) Cancel() { s.canceled.Store(true) }

// Step advances the simulation by one tick. It returns false, without
// changing anything, once the simulation has halted or been canceled.
func (s *Simulation) Step() bool {
	if s.Halted() {
		return false
	}

	s.alpha -= s.alpha * s.cfg.alphaDecay

	bodies := s.st.Bodies
	for i := range s.dv {
		s.dv[i] = r2.Vec{}
		s.prev[i] = bodies[i].Pos
	}
	for _, f := range s.forces {
		f.Apply(s.st, s.alpha, s.dv)
	}

	keep := 1 - s.cfg.velocityDecay
	for i := range bodies {
		b := &bodies[i]
		if b.Pinned {
			b.Vel = r2.Vec{}
			continue
		}
		b.Vel = r2.Scale(keep, r2.Add(b.Vel, s.dv[i]))
		b.Pos = r2.Add(b.Pos, b.Vel)
	}
	s.applyConstraints()
	s.revertNonFinite()

	s.tick++
	s.sinceRestart++

	switch {
	case s.alpha < s.cfg.alphaMin:
		s.converged = true
		s.halt()
	case s.sinceRestart >= s.cfg.maxIterations:
		s.halt()
	}
	return true
}

func (s *Simulation) applyConstraints() {
	for _, c := range s.constraints {
		c.Constrain(s.st)
	}
}

func (s *Simulation) revertNonFinite() {
	for i := range s.st.Bodies {
		b := &s.st.Bodies[i]
		if !finite(b.Pos) || !finite(b.Vel) {
			b.Pos = s.prev[i]
			b.Vel = r2.Vec{}
		}
	}
}

// halt stops stepping and runs the settle pass.
func (s *Simulation) halt() {
	s.halted = true
	passes, ok := s.settle()
	if !ok {
		s.cfg.logger.Warn("settle pass limit reached, constraints still violated",
			"tick", s.tick, "passes", passes)
	}
	s.cfg.logger.Debug("simulation halted",
		"tick", s.tick, "alpha", s.alpha, "converged", s.converged, "settle", passes)
}

// settle repeats the constraints until every [Checker] is satisfied. It
// returns the number of passes run and whether the checkers were satisfied
// within maxSettlePasses.
func (s *Simulation) settle() (int, bool) {
	for pass := 0; pass < maxSettlePasses; pass++ {
		if s.satisfied() {
			return pass, true
		}
		positionsOf(s.st.Bodies, s.prev)
		s.applyConstraints()
		s.revertNonFinite()
	}
	return maxSettlePasses, s.satisfied()
}

func positionsOf(bodies []Body, buf []r2.Vec) []r2.Vec {
	for i, b := range bodies {
		buf[i] = b.Pos
	}
	return buf
}

func (s *Simulation) satisfied() bool {
	for _, c := range s.constraints {
		if ch, ok := c.(Checker); ok && !ch.Satisfied(s.st) {
			return false
		}
	}
	return true
}

// Restart re-heats the simulation to alpha (1 when alpha <= 0) and nudges
// every free body by a deterministic offset of at most alpha times the
// configured perturbation. The offset depends on the body id and the number
// of previous restarts, so repeated restarts explore different
// configurations while identical call sequences reproduce identical frames.
// Restart clears cancellation.
func (s *Simulation) Restart(alpha float64) {
	if alpha <= 0 {
		alpha = 1
	}
	s.restarts++
	salt := "#" + strconv.Itoa(s.restarts)
	for i := range s.st.Bodies {
		b := &s.st.Bodies[i]
		b.Vel = r2.Vec{}
		if b.Pinned {
			continue
		}
		h := graph.Hash32(s.st.ids[i] + salt)
		theta := graph.Unit(h) * 2 * math.Pi
		mag := alpha * s.cfg.perturbation * (0.5 + 0.5*graph.Unit(graph.Mix32(h)))
		b.Pos = r2.Add(b.Pos, r2.Vec{X: mag * math.Cos(theta), Y: mag * math.Sin(theta)})
	}

	s.alpha = alpha
	s.sinceRestart = 0
	s.halted = false
	s.converged = false
	s.canceled.Store(false)
	s.cfg.logger.Debug("simulation restarted", "alpha", alpha, "restart", s.restarts)
}

// Run steps the simulation until it halts and returns the final positions.
// If ctx is done first, the positions reached so far are returned together
// with ctx.Err(); after [Simulation.Cancel] the error is [ErrCanceled].
func (s *Simulation) Run(ctx context.Context) (graph.PositionMap, error) {
	for {
		if err := ctx.Err(); err != nil {
			return s.Positions(), err
		}
		if !s.Step() {
			break
		}
	}
	if s.canceled.Load() {
		return s.Positions(), ErrCanceled
	}
	return s.Positions(), nil
}
