package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoviz/pkg/cache"
	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/hull"
	"github.com/matzehuels/ontoviz/pkg/layout"
	"github.com/matzehuels/ontoviz/pkg/model"
	"github.com/matzehuels/ontoviz/pkg/observability"
	"github.com/matzehuels/ontoviz/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, caching is disabled.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.Disabled()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete pipeline with caching.
func (r *Runner) Execute(ctx context.Context, snap graph.Snapshot, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ValidateSnapshot(snap); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stages 1-3: model, layout, hulls
	layoutStart := time.Now()
	payload, stats, hit, err := r.layoutWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Payload = payload
	result.SnapshotHash = stats.snapshotHash
	result.Stats = stats.Stats
	result.CacheInfo.LayoutHit = hit
	if hit {
		result.Stats.LayoutTime = time.Since(layoutStart)
	}

	r.Logger.Info("computed layout",
		"algorithm", payload.Algorithm,
		"nodes", len(payload.Positions),
		"hulls", len(payload.Hulls),
		"cached", hit,
		"duration", time.Since(layoutStart))

	// Stage 4: render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, payload, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout computes the payload for snap, using the cache when possible.
func (r *Runner) Layout(ctx context.Context, snap graph.Snapshot, opts Options) (*render.Payload, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ValidateSnapshot(snap); err != nil {
		return nil, err
	}
	p, _, _, err := r.layoutWithCacheInfo(ctx, snap, opts)
	return p, err
}

type layoutStats struct {
	Stats
	snapshotHash string
}

func (r *Runner) layoutWithCacheInfo(ctx context.Context, snap graph.Snapshot, opts Options) (*render.Payload, layoutStats, bool, error) {
	var stats layoutStats
	hash, err := cache.HashJSON(snap)
	if err != nil {
		return nil, stats, false, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "hash snapshot")
	}
	stats.snapshotHash = hash
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if p, err := render.UnmarshalPayload(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				stats.NodeCount = len(p.Nodes)
				stats.EdgeCount = len(p.Edges)
				stats.GroupCount = len(p.Hulls)
				stats.Iterations = p.Iterations
				return p, stats, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	p, s, err := ComputePayload(ctx, snap, opts)
	if err != nil {
		return nil, stats, false, err
	}
	stats.Stats = s

	if data, err := p.Marshal(); err == nil {
		if err := r.Cache.Set(ctx, key, data, DefaultCacheTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return p, stats, false, nil
}

// ComputePayload runs the model, layout and hull stages without caching.
// opts must have been defaulted.
func ComputePayload(ctx context.Context, snap graph.Snapshot, opts Options) (*render.Payload, Stats, error) {
	var stats Stats
	hooks := observability.Pipeline()

	m := model.Build(snap.Nodes, snap.Edges, model.WithLogger(opts.Logger))
	stats.NodeCount = m.Len()
	stats.EdgeCount = len(m.Edges())
	stats.Dropped = len(m.Dropped())
	hooks.OnModelBuilt(ctx, stats.NodeCount, stats.EdgeCount, stats.Dropped)

	algo := string(opts.Layout.Algorithm)
	hooks.OnLayoutStart(ctx, algo, m.Len())
	start := time.Now()
	res, err := layout.Compute(ctx, m, opts.Layout)
	stats.LayoutTime = time.Since(start)
	stats.Iterations = res.Iterations
	hooks.OnLayoutComplete(ctx, algo, res.Iterations, stats.LayoutTime, err)
	if err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeCanceled, err, "layout interrupted")
	}

	w, h := opts.NodeSize()
	start = time.Now()
	shapes := hull.Compute(res.Positions, hull.UniformSizes(m.IDs(), w, h), m.Groups(), opts.Padding)
	stats.HullTime = time.Since(start)
	stats.GroupCount = len(shapes)
	hooks.OnHullsComplete(ctx, len(shapes), stats.HullTime)

	opts.Logger.Debug("pipeline stages",
		"nodes", stats.NodeCount,
		"edges", stats.EdgeCount,
		"dropped", stats.Dropped,
		"layout", stats.LayoutTime,
		"hulls", stats.HullTime)

	return &render.Payload{
		Algorithm:  string(res.Algorithm),
		Direction:  string(opts.Layout.Direction),
		HasCycles:  res.HasCycles,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		NodeWidth:  w,
		NodeHeight: h,
		Positions:  res.Positions,
		Hulls:      shapes,
		Nodes:      m.Nodes(),
		Edges:      m.Edges(),
	}, stats, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *render.Payload, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	payloadData, err := p.Marshal()
	if err != nil {
		return nil, false, fmt.Errorf("serialize payload for cache key: %w", err)
	}
	payloadHash := cache.Hash(payloadData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(payloadHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, p, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(payloadHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, DefaultCacheTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
