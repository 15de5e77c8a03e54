package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/ontoviz/pkg/layout"
	"github.com/matzehuels/ontoviz/pkg/pipeline"
	"github.com/matzehuels/ontoviz/pkg/render"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorHull   = lipgloss.Color("75")
	colorMuted  = lipgloss.Color("240")

	// Viewer palette (used by tui.go).
	colorDim   = lipgloss.Color("240")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorGreen = lipgloss.Color("35")
)

var (
	// StyleTitle renders headings such as the viewer's title bar.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)
	// StyleWarning renders warnings and halted states.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleOK     = lipgloss.NewStyle().Foreground(colorOK)
	styleFail   = lipgloss.NewStyle().Foreground(colorFail)
	styleAccent = lipgloss.NewStyle().Foreground(colorAccent)
	styleHull   = lipgloss.NewStyle().Foreground(colorHull)
)

const sep = " · "

// =============================================================================
// Report
// =============================================================================

// report writes the human-readable summary of a command.
type report struct {
	w io.Writer
}

func newReport(w io.Writer) *report {
	if w == nil {
		w = os.Stdout
	}
	return &report{w: w}
}

func (r *report) mark(style lipgloss.Style, symbol, format string, args ...any) {
	fmt.Fprintln(r.w, style.Render(symbol)+" "+fmt.Sprintf(format, args...))
}

func (r *report) done(format string, args ...any) { r.mark(styleOK, "✓", format, args...) }

func (r *report) note(format string, args ...any) { r.mark(StyleDim, "›", format, args...) }

func (r *report) warn(format string, args ...any) {
	fmt.Fprintln(r.w, StyleWarning.Render("! "+fmt.Sprintf(format, args...)))
}

// wrote lists an output file.
func (r *report) wrote(path string) {
	fmt.Fprintln(r.w, "  "+StyleDim.Render("→")+" "+path)
}

// layout summarizes a pipeline result: the strategy and how it ended, the
// graph counts, one entry per hull and a cycle warning.
func (r *report) layout(res *pipeline.Result) {
	p, st := res.Payload, res.Stats

	head := styleAccent.Render(p.Algorithm)
	if algo, ok := layout.ParseAlgorithm(p.Algorithm); ok && algo.IsIterative() {
		if p.Converged {
			head += StyleDim.Render(fmt.Sprintf(" settled after %d ticks", p.Iterations))
		} else {
			head += StyleWarning.Render(fmt.Sprintf(" stopped at %d ticks", p.Iterations))
		}
	}
	origin := "computed"
	if res.CacheInfo.LayoutHit {
		origin = styleOK.Render("cached")
	}
	fmt.Fprintln(r.w, "  "+head+StyleDim.Render(sep)+StyleDim.Render(origin))

	counts := []string{fmt.Sprintf("%d nodes", st.NodeCount), fmt.Sprintf("%d edges", st.EdgeCount)}
	if st.Dropped > 0 {
		counts = append(counts, StyleWarning.Render(fmt.Sprintf("%d dropped", st.Dropped)))
	}
	fmt.Fprintln(r.w, "  "+StyleDim.Render(strings.Join(counts, sep)))

	if groups := hullSummary(p); len(groups) > 0 {
		fmt.Fprintln(r.w, "  "+StyleDim.Render("hulls ")+strings.Join(groups, StyleDim.Render(sep)))
	}
	if p.HasCycles {
		r.warn("hierarchy contains cycles; ranks follow the acyclic part")
	}
}

// next suggests a follow-up command.
func (r *report) next(what, cmd string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, StyleDim.Render(what+":")+" "+styleAccent.Render(cmd))
}

// hullSummary returns "group (members)" for every hull, in hull order.
func hullSummary(p *render.Payload) []string {
	members := make(map[string]int)
	for _, n := range p.Nodes {
		for _, g := range n.GroupIDs {
			members[g]++
		}
	}
	out := make([]string, 0, len(p.Hulls))
	for _, h := range p.Hulls {
		out = append(out, styleHull.Render(h.GroupID)+StyleDim.Render(fmt.Sprintf(" (%d)", members[h.GroupID])))
	}
	return out
}
