package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/hull"
	"github.com/matzehuels/ontoviz/pkg/layout"
	"github.com/matzehuels/ontoviz/pkg/model"
	"github.com/matzehuels/ontoviz/pkg/sim"
)

// Viewer styles
var (
	viewerEdgeStyle     = lipgloss.NewStyle().Foreground(colorDim)
	viewerNodeStyle     = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	viewerStatusStyle   = lipgloss.NewStyle().Foreground(colorGray)
	viewerConvergeStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	defaultFrameInterval = 33 * time.Millisecond
	restartAlpha         = 1.0
	minViewerWidth       = 20
	minViewerHeight      = 6
)

// =============================================================================
// WatchModel - Animated layout viewer
// =============================================================================

type tickMsg time.Time

// WatchModel is the bubbletea model that animates an iterative layout in the
// terminal. Each tick advances the simulation one step; 'r' re-heats it.
type WatchModel struct {
	Model     *model.Model
	Algorithm layout.Algorithm

	// Frames is nil for static layouts.
	Frames *sim.Iterator

	Positions graph.PositionMap
	Tick      int
	Alpha     float64
	Converged bool
	Done      bool
	Paused    bool
	Restarts  int

	Width    int
	Height   int
	Interval time.Duration

	nodeColor map[string]lipgloss.Color
}

// NewWatchModel creates a viewer for an iterator, or for fixed positions
// when it is nil.
func NewWatchModel(m *model.Model, algo layout.Algorithm, it *sim.Iterator, static graph.PositionMap) WatchModel {
	w := WatchModel{
		Model:     m,
		Algorithm: algo,
		Frames:    it,
		Positions: static,
		Done:      it == nil,
		Converged: it == nil,
		Width:     80,
		Height:    24,
		Interval:  defaultFrameInterval,
		nodeColor: make(map[string]lipgloss.Color),
	}
	if it != nil {
		w.Positions = it.Simulation().Positions()
		w.Alpha = it.Simulation().Alpha()
	}
	for _, n := range m.Nodes() {
		if len(n.GroupIDs) > 0 {
			w.nodeColor[n.ID] = lipgloss.Color(hull.Color(n.GroupIDs[0]))
		}
	}
	return w
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m WatchModel) Init() tea.Cmd {
	if m.Done {
		return nil
	}
	return m.tick()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if m.Frames == nil {
				return m, nil
			}
			m.Frames.Restart(restartAlpha)
			m.Restarts++
			m.Converged = false
			wasDone := m.Done
			m.Done = false
			if wasDone || m.Paused {
				m.Paused = false
				return m, m.tick()
			}
		case " ", "p":
			if m.Frames == nil || m.Done {
				return m, nil
			}
			m.Paused = !m.Paused
			if !m.Paused {
				return m, m.tick()
			}
		}
	case tea.WindowSizeMsg:
		m.Width = max(msg.Width, minViewerWidth)
		m.Height = max(msg.Height, minViewerHeight)
	case tickMsg:
		if m.Done || m.Paused || m.Frames == nil {
			return m, nil
		}
		f, ok := m.Frames.Next()
		if !ok {
			m.Done = true
			return m, nil
		}
		m.apply(f)
		if f.Final {
			m.Done = true
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *WatchModel) apply(f sim.Frame) {
	m.Positions = f.Positions
	m.Tick = f.Tick
	m.Alpha = f.Alpha
	m.Converged = f.Converged
}

func (m WatchModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s layout", m.Algorithm)))
	b.WriteString("  ")
	b.WriteString(viewerStatusStyle.Render(fmt.Sprintf("%d nodes", m.Model.Len())))
	b.WriteString("\n")
	b.WriteString(m.canvas())
	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

func (m WatchModel) status() string {
	parts := []string{
		fmt.Sprintf("tick %d", m.Tick),
		fmt.Sprintf("alpha %.3f", m.Alpha),
	}
	if m.Restarts > 0 {
		parts = append(parts, fmt.Sprintf("restarts %d", m.Restarts))
	}
	line := viewerStatusStyle.Render(strings.Join(parts, " · "))
	switch {
	case m.Converged:
		line += "  " + viewerConvergeStyle.Render("converged")
	case m.Done:
		line += "  " + StyleWarning.Render("stopped")
	case m.Paused:
		line += "  " + StyleWarning.Render("paused")
	}
	help := "q quit"
	if m.Frames != nil {
		help = "r restart  space pause  q quit"
	}
	return line + "\n" + StyleDim.Render(help)
}

// =============================================================================
// Canvas
// =============================================================================

type cell struct {
	ch    rune
	style lipgloss.Style
	set   bool
}

// canvas projects the positions onto a character grid, edges first so that
// nodes stay visible.
func (m WatchModel) canvas() string {
	w, h := m.Width, max(m.Height-4, 1)
	grid := make([][]cell, h)
	for i := range grid {
		grid[i] = make([]cell, w)
	}

	project, ok := m.projection(w, h)
	if ok {
		for _, e := range m.Model.Edges() {
			a, okA := m.Positions[e.Source]
			b, okB := m.Positions[e.Target]
			if !okA || !okB {
				continue
			}
			x0, y0 := project(a)
			x1, y1 := project(b)
			plotLine(grid, x0, y0, x1, y1)
		}
		for _, n := range m.Model.Nodes() {
			p, ok := m.Positions[n.ID]
			if !ok {
				continue
			}
			x, y := project(p)
			style := viewerNodeStyle
			if c, ok := m.nodeColor[n.ID]; ok {
				style = style.Foreground(c)
			}
			label := []rune(n.DisplayLabel())
			if len(label) == 0 {
				continue
			}
			grid[y][x] = cell{ch: label[0], style: style, set: true}
		}
	}

	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if !c.set {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.ch)))
		}
	}
	return b.String()
}

// projection maps layout coordinates into a w×h grid, preserving the aspect
// ratio of terminal cells (about twice as tall as wide).
func (m WatchModel) projection(w, h int) (func(graph.Point) (int, int), bool) {
	box, ok := m.Positions.Bounds()
	if !ok {
		return nil, false
	}
	bw := math.Max(box.Width(), 1)
	bh := math.Max(box.Height(), 1)
	scale := math.Min(float64(w-1)/bw, 2*float64(h-1)/bh)
	offX := (float64(w-1) - bw*scale) / 2
	offY := (float64(h-1) - bh*scale/2) / 2

	return func(p graph.Point) (int, int) {
		x := int(math.Round(offX + (p.X-box.Min.X)*scale))
		y := int(math.Round(offY + (p.Y-box.Min.Y)*scale/2))
		return clampInt(x, 0, w-1), clampInt(y, 0, h-1)
	}, true
}

// plotLine draws a dotted line between two cells, leaving set cells alone.
func plotLine(grid [][]cell, x0, y0, x1, y1 int) {
	steps := max(abs(x1-x0), abs(y1-y0))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		if !grid[y][x].set {
			grid[y][x] = cell{ch: '·', style: viewerEdgeStyle, set: true}
		}
	}
}

func clampInt(v, lo, hi int) int { return min(max(v, lo), hi) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
