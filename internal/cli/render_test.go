package cli

import (
	"testing"

	"github.com/matzehuels/ontoviz/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , dot ,", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths("out/onto", []string{pipeline.FormatSVG, pipeline.FormatDOT})
	if got["svg"] != "out/onto.svg" || got["dot"] != "out/onto.dot" {
		t.Errorf("outputPaths = %v", got)
	}

	got = outputPaths("diagram.svg", []string{pipeline.FormatSVG})
	if got["svg"] != "diagram.svg" {
		t.Errorf("single format with matching extension: %v", got)
	}

	got = outputPaths("diagram.svg", []string{pipeline.FormatSVG, pipeline.FormatPNG})
	if got["png"] != "diagram.svg.png" {
		t.Errorf("multiple formats: %v", got)
	}
}
