package render

import (
	"encoding/json"
	"math"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/hull"
)

// Payload is the complete, serializable result of one layout run.
type Payload struct {
	Algorithm  string            `json:"algorithm"`
	Direction  string            `json:"direction,omitempty"`
	HasCycles  bool              `json:"has_cycles"`
	Iterations int               `json:"iterations,omitempty"`
	Converged  bool              `json:"converged"`
	NodeWidth  float64           `json:"node_width"`
	NodeHeight float64           `json:"node_height"`
	Positions  graph.PositionMap `json:"positions"`
	Hulls      []hull.Shape      `json:"hulls"`
	Nodes      []graph.Node      `json:"nodes"`
	Edges      []graph.Edge      `json:"edges"`
}

// Marshal encodes the payload as indented JSON.
func (p *Payload) Marshal() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// UnmarshalPayload decodes a payload produced by Marshal.
func UnmarshalPayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Positions == nil {
		p.Positions = graph.PositionMap{}
	}
	return &p, nil
}

// Extent returns the rectangle covering every node box and hull outline,
// or false when there is nothing to draw.
func (p *Payload) Extent() (graph.Rect, bool) {
	r := graph.Rect{
		Min: graph.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: graph.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	hw, hh := p.NodeWidth/2, p.NodeHeight/2
	grow := func(minX, minY, maxX, maxY float64) {
		r.Min.X, r.Min.Y = min(r.Min.X, minX), min(r.Min.Y, minY)
		r.Max.X, r.Max.Y = max(r.Max.X, maxX), max(r.Max.Y, maxY)
	}
	for _, pt := range p.Positions {
		grow(pt.X-hw, pt.Y-hh, pt.X+hw, pt.Y+hh)
	}
	for _, s := range p.Hulls {
		grow(s.Bounds.Min.X, s.LabelAnchor.Y-hull.LabelOffset, s.Bounds.Max.X, s.Bounds.Max.Y)
	}
	if math.IsInf(r.Min.X, 1) {
		return graph.Rect{}, false
	}
	return r, true
}

// Node returns the node with id, or false.
func (p *Payload) Node(id string) (graph.Node, bool) {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return graph.Node{}, false
}
