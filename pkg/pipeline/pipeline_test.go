package pipeline

import (
	"math"
	"testing"

	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/layout"
)

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "dot", "png", "pdf", "json"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	err := ValidateFormat("gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(gif) code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestValidateAndSetDefaults_AlgorithmFallback(t *testing.T) {
	for name, want := range map[string]layout.Algorithm{
		"":                  layout.Hierarchical,
		"force":             layout.ForceDirected,
		"Radial":            layout.Radial,
		"spring-electrical": layout.Hierarchical,
	} {
		o := Options{Layout: layout.Options{Algorithm: layout.Algorithm(name)}}
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Errorf("%q: unexpected error: %v", name, err)
		}
		if o.Layout.Algorithm != want {
			t.Errorf("%q: Algorithm = %q, want %q", name, o.Layout.Algorithm, want)
		}
	}
}

func TestValidateEngine(t *testing.T) {
	if err := ValidateEngine(EngineNative); err != nil {
		t.Error(err)
	}
	if err := ValidateEngine(EngineGraphviz); err != nil {
		t.Error(err)
	}
	if err := ValidateEngine("cairo"); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()

	if o.Logger == nil || o.Layout.Logger == nil {
		t.Error("loggers not set")
	}
	if o.Layout.Algorithm != layout.Hierarchical {
		t.Errorf("Algorithm = %q, want %q", o.Layout.Algorithm, layout.Hierarchical)
	}
	if o.Padding != DefaultPadding {
		t.Errorf("Padding = %v, want %v", o.Padding, DefaultPadding)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", o.Formats)
	}
	if o.Engine != EngineNative {
		t.Errorf("Engine = %q", o.Engine)
	}
	if o.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale = %v", o.PNGScale)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"zero value", Options{}, ""},
		{"all formats", Options{Formats: []string{"svg", "dot", "png", "pdf", "json"}}, ""},
		{"unknown algorithm", Options{Layout: layout.Options{Algorithm: "spring"}}, ""},
		{"unknown format", Options{Formats: []string{"svg", "bmp"}}, errors.ErrCodeInvalidFormat},
		{"unknown engine", Options{Engine: "cairo"}, errors.ErrCodeInvalidInput},
		{"negative padding", Options{Padding: -1}, errors.ErrCodeInvalidInput},
		{"nan padding", Options{Padding: math.NaN()}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	o := Options{Layout: layout.Options{Algorithm: "Force"}}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := o.String()
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.String() != first {
		t.Errorf("second call changed options: %q != %q", o.String(), first)
	}
	if o.Layout.Algorithm != layout.ForceDirected {
		t.Errorf("Algorithm = %q, want %q", o.Layout.Algorithm, layout.ForceDirected)
	}
}

func TestNodeSize(t *testing.T) {
	o := Options{}
	o.SetDefaults()
	w, h := o.NodeSize()
	if w != o.Layout.NodeWidth || h != o.Layout.NodeHeight {
		t.Errorf("hierarchical NodeSize = %v×%v, want %v×%v", w, h, o.Layout.NodeWidth, o.Layout.NodeHeight)
	}

	o = Options{Layout: layout.Options{Algorithm: layout.Radial}}
	o.SetDefaults()
	w, h = o.NodeSize()
	if w != h || w != 2*o.Layout.NodeRadius {
		t.Errorf("iterative NodeSize = %v×%v, want square of %v", w, h, 2*o.Layout.NodeRadius)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Engine: EngineGraphviz, Detailed: true}
	o.SetDefaults()

	if got := o.ArtifactKeyOpts(FormatSVG); got.Engine != "graphviz+detailed" {
		t.Errorf("svg engine = %q", got.Engine)
	}
	if got := o.ArtifactKeyOpts(FormatJSON); got.Engine != "" {
		t.Errorf("json engine = %q, want empty", got.Engine)
	}
	if got := o.ArtifactKeyOpts(FormatDOT); got.Engine != "detailed" {
		t.Errorf("dot engine = %q", got.Engine)
	}

	o = Options{Detailed: true}
	o.SetDefaults()
	if got := o.ArtifactKeyOpts(FormatSVG); got.Engine != EngineNative {
		t.Errorf("native engine = %q, detail flag should not change the key", got.Engine)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	a := Options{}
	a.SetDefaults()
	b := Options{Layout: layout.Options{NodeSep: 99}}
	b.SetDefaults()

	ka, kb := a.LayoutKeyOpts(), b.LayoutKeyOpts()
	if ka.OptionsHash == "" {
		t.Fatal("empty options hash")
	}
	if ka.OptionsHash == kb.OptionsHash {
		t.Error("different layout options produced the same hash")
	}
}
