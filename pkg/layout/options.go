package layout

import (
	"fmt"
	"io"
	"maps"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoviz/pkg/dag/transform"
	"github.com/matzehuels/ontoviz/pkg/graph"
)

// Algorithm names a layout strategy.
type Algorithm string

const (
	Hierarchical      Algorithm = "hierarchical"
	ForceDirected     Algorithm = "force"
	HybridConstrained Algorithm = "hybrid"
	Radial            Algorithm = "radial"
)

// Algorithms lists every strategy in a stable order.
var Algorithms = []Algorithm{Hierarchical, ForceDirected, HybridConstrained, Radial}

// ParseAlgorithm maps a name (case-insensitive, with a few aliases) to an
// Algorithm. The second result is false for unknown names.
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hierarchical", "hierarchy", "layered", "tree":
		return Hierarchical, true
	case "force", "forcedirected", "force-directed", "force_directed":
		return ForceDirected, true
	case "hybrid", "hybridconstrained", "hybrid-constrained", "hybrid_constrained":
		return HybridConstrained, true
	case "radial":
		return Radial, true
	}
	return "", false
}

// IsIterative reports whether the strategy runs a force simulation.
func (a Algorithm) IsIterative() bool { return a != Hierarchical }

// Direction is the rank axis orientation for Hierarchical and Hybrid.
type Direction string

const (
	TopBottom Direction = "TB"
	LeftRight Direction = "LR"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultNodeWidth       = 140.0
	DefaultNodeHeight      = 40.0
	DefaultRankSep         = 80.0
	DefaultNodeSep         = 30.0
	DefaultOrphanGap       = 60.0
	DefaultNodeRadius      = 28.0
	DefaultCollisionMargin = 8.0
	DefaultChargeStrength  = -300.0
	DefaultMaxIterations   = 500
	DefaultAlphaMin        = 0.001
	DefaultVelocityDecay   = 0.4
	DefaultAxisStrength    = 0.8
	DefaultCrossStrength   = 0.05
	DefaultRadialStrength  = 0.8
	DefaultRingSpacing     = 140.0
	DefaultInitialRadius   = 30.0
	DefaultLinkDistance    = 110.0
	DefaultCenterStrength  = 0.05
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in 300 steps.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// DefaultLinkDistances returns the per-edge-type spring rest lengths.
func DefaultLinkDistances() map[graph.EdgeType]float64 {
	return map[graph.EdgeType]float64{
		graph.EdgeParent:           90,
		graph.EdgeProperty:         130,
		graph.EdgeSubobject:        110,
		graph.EdgeTemplate:         120,
		graph.EdgeModuleDependency: 170,
		graph.EdgeMember:           100,
	}
}

// =============================================================================
// Options
// =============================================================================

// Options configures [Compute] and [NewSimulation]. Zero values are replaced
// by defaults in [Options.SetDefaults].
type Options struct {
	Algorithm Algorithm `json:"algorithm,omitempty" toml:"algorithm"`
	Direction Direction `json:"direction,omitempty" toml:"direction"`

	// Box geometry and spacing (Hierarchical, orphan grid).
	NodeWidth  float64 `json:"node_width,omitempty" toml:"node_width"`
	NodeHeight float64 `json:"node_height,omitempty" toml:"node_height"`
	RankSep    float64 `json:"rank_sep,omitempty" toml:"rank_sep"`
	NodeSep    float64 `json:"node_sep,omitempty" toml:"node_sep"`
	OrphanGap  float64 `json:"orphan_gap,omitempty" toml:"orphan_gap"`
	// OrderWork bounds crossing reduction in node and edge visits.
	OrderWork int `json:"order_work,omitempty" toml:"order_work"`

	// Simulation parameters (ForceDirected, Hybrid, Radial).
	NodeRadius      float64                    `json:"node_radius,omitempty" toml:"node_radius"`
	CollisionMargin float64                    `json:"collision_margin,omitempty" toml:"collision_margin"`
	ChargeStrength  float64                    `json:"charge_strength,omitempty" toml:"charge_strength"`
	LinkDistances   map[graph.EdgeType]float64 `json:"link_distances,omitempty" toml:"link_distances"`
	MaxIterations   int                        `json:"max_iterations,omitempty" toml:"max_iterations"`
	AlphaMin        float64                    `json:"alpha_min,omitempty" toml:"alpha_min"`
	AlphaDecay      float64                    `json:"alpha_decay,omitempty" toml:"alpha_decay"`
	VelocityDecay   float64                    `json:"velocity_decay,omitempty" toml:"velocity_decay"`
	AxisStrength    float64                    `json:"axis_strength,omitempty" toml:"axis_strength"`
	CrossStrength   float64                    `json:"cross_strength,omitempty" toml:"cross_strength"`
	RadialStrength  float64                    `json:"radial_strength,omitempty" toml:"radial_strength"`
	RingSpacing     float64                    `json:"ring_spacing,omitempty" toml:"ring_spacing"`
	InitialRadius   float64                    `json:"initial_radius,omitempty" toml:"initial_radius"`

	Logger *log.Logger `json:"-" toml:"-"`
}

// SetDefaults fills zero values. An unknown or empty algorithm becomes
// Hierarchical; a non-empty unknown name is logged as a warning. Link
// distances given by the caller are merged over the defaults without
// modifying the caller's map.
func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if algo, ok := ParseAlgorithm(string(o.Algorithm)); ok {
		o.Algorithm = algo
	} else {
		if o.Algorithm != "" {
			o.Logger.Warn("unknown layout algorithm, using hierarchical", "algorithm", o.Algorithm)
		}
		o.Algorithm = Hierarchical
	}
	switch Direction(strings.ToUpper(string(o.Direction))) {
	case LeftRight:
		o.Direction = LeftRight
	default:
		o.Direction = TopBottom
	}

	setDefault(&o.NodeWidth, DefaultNodeWidth)
	setDefault(&o.NodeHeight, DefaultNodeHeight)
	setDefault(&o.RankSep, DefaultRankSep)
	setDefault(&o.NodeSep, DefaultNodeSep)
	setDefault(&o.OrphanGap, DefaultOrphanGap)
	setDefault(&o.NodeRadius, DefaultNodeRadius)
	setDefault(&o.CollisionMargin, DefaultCollisionMargin)
	setDefault(&o.ChargeStrength, DefaultChargeStrength)
	setDefault(&o.AlphaMin, DefaultAlphaMin)
	setDefault(&o.AlphaDecay, DefaultAlphaDecay)
	setDefault(&o.VelocityDecay, DefaultVelocityDecay)
	setDefault(&o.AxisStrength, DefaultAxisStrength)
	setDefault(&o.CrossStrength, DefaultCrossStrength)
	setDefault(&o.RadialStrength, DefaultRadialStrength)
	setDefault(&o.RingSpacing, DefaultRingSpacing)
	setDefault(&o.InitialRadius, DefaultInitialRadius)
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.OrderWork == 0 {
		o.OrderWork = transform.DefaultMaxWork
	}

	dist := DefaultLinkDistances()
	maps.Copy(dist, o.LinkDistances)
	o.LinkDistances = dist
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate rejects options no strategy can honor. Call it after SetDefaults.
func (o *Options) Validate() error {
	for name, v := range map[string]float64{
		"node_width":       o.NodeWidth,
		"node_height":      o.NodeHeight,
		"rank_sep":         o.RankSep,
		"node_sep":         o.NodeSep,
		"orphan_gap":       o.OrphanGap,
		"node_radius":      o.NodeRadius,
		"collision_margin": o.CollisionMargin,
		"ring_spacing":     o.RingSpacing,
		"initial_radius":   o.InitialRadius,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid %s: %v (must be a non-negative number)", name, v)
		}
	}
	for t, d := range o.LinkDistances {
		if d < 0 || math.IsNaN(d) {
			return fmt.Errorf("invalid link distance for %q: %v", t, d)
		}
	}
	if o.OrderWork < 0 {
		return fmt.Errorf("invalid order_work: %d", o.OrderWork)
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("invalid max_iterations: %d", o.MaxIterations)
	}
	if o.VelocityDecay < 0 || o.VelocityDecay >= 1 {
		return fmt.Errorf("invalid velocity_decay: %v (must be in [0, 1))", o.VelocityDecay)
	}
	if o.AlphaDecay < 0 || o.AlphaDecay >= 1 {
		return fmt.Errorf("invalid alpha_decay: %v (must be in [0, 1))", o.AlphaDecay)
	}
	return nil
}

// LinkDistance returns the rest length for an edge type.
func (o *Options) LinkDistance(t graph.EdgeType) float64 {
	if d, ok := o.LinkDistances[t]; ok {
		return d
	}
	return DefaultLinkDistance
}

// cell returns the orphan grid cell size. Cells fit a box plus NodeSep and a
// collision circle plus margin.
func (o *Options) cell() (w, h float64) {
	minCell := 2*o.NodeRadius + o.CollisionMargin
	return max(o.NodeWidth+o.NodeSep, minCell), max(o.NodeHeight+o.NodeSep, minCell)
}
