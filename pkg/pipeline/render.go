package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/observability"
	"github.com/matzehuels/ontoviz/pkg/render"
	"github.com/matzehuels/ontoviz/pkg/render/nodelink"
	"github.com/matzehuels/ontoviz/pkg/render/svg"
)

// Render generates output artifacts for p in the requested formats.
func Render(ctx context.Context, p *render.Payload, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, p, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, p *render.Payload, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	// SVG is the source for PNG and PDF; draw it at most once.
	var svgData []byte
	svgOnce := func() ([]byte, error) {
		if svgData != nil {
			return svgData, nil
		}
		var err error
		if opts.Engine == EngineGraphviz {
			svgData, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(p, nodelink.Options{Detailed: opts.Detailed, Hulls: true}))
		} else {
			svgData = svg.Render(p)
		}
		return svgData, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgOnce()
		case FormatDOT:
			data = []byte(nodelink.ToDOT(p, nodelink.Options{Detailed: opts.Detailed, Hulls: true}))
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.PNGScale)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatJSON:
			data, err = p.Marshal()
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
