package hull

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/ontoviz/pkg/graph"
)

// Palette is the stroke color set for group hulls.
var Palette = [12]string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
	"#9c755f", "#bab0ac", "#1f77b4", "#8c564b",
}

// fillBlend is how far the fill color is blended toward white.
const fillBlend = 0.75

var white = colorful.Color{R: 1, G: 1, B: 1}

// Color returns the palette color for a group id.
func Color(groupID string) string {
	return Palette[graph.Hash32(groupID)%uint32(len(Palette))]
}

// Fill returns a light tint of color, blended toward white in Lab space.
// Unparseable colors are returned unchanged.
func Fill(color string) string {
	c, err := colorful.Hex(color)
	if err != nil {
		return color
	}
	return c.BlendLab(white, fillBlend).Clamped().Hex()
}
