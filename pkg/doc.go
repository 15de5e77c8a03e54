// Package pkg holds the ontoviz libraries: an ontology graph layout engine
// and the plumbing that feeds it snapshots and turns its geometry into
// artifacts.
//
// # Overview
//
// A snapshot is an ordered list of ontology entities (categories,
// properties, subobjects, templates, modules) and typed relations between
// them. The engine turns a snapshot into one position per entity using one
// of four strategies and draws a smoothed hull around the members of each
// group. It never renders pixels itself.
//
// # Architecture
//
//	snapshot (file, stdin, MongoDB)
//	         ↓
//	    [model] package (dedupe, drop dangling edges, primary-parent forest)
//	         ↓
//	    [layout] package (hierarchical, force, hybrid, radial)
//	         ↓        ↘
//	    [hull] package   [sim] package (iterative strategies, frames, restart)
//	         ↓
//	    [render] package (payload JSON, SVG, DOT, PNG, PDF)
//
// [pipeline] runs these stages with caching and hooks; its Animator streams
// simulation frames for one view at a time, using [generation] tokens so
// that a newer run supersedes an older one.
//
// # Quick Start
//
//	snap, _ := graph.ReadSnapshotFile("ontology.json")
//	m := model.Build(snap.Nodes, snap.Edges)
//	res, _ := layout.Compute(ctx, m, layout.Options{Algorithm: layout.ForceDirected})
//	w, h := 2*layout.DefaultNodeRadius, 2*layout.DefaultNodeRadius
//	hulls := hull.Compute(res.Positions, hull.UniformSizes(res.Positions.IDs(), w, h), m.Groups(), 16)
//
// Or, with caching and artifacts:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
//	result, _ := runner.Execute(ctx, snap, pipeline.Options{Formats: []string{"svg"}})
//
// # Packages
//
// [graph] - snapshot types, codecs (JSON, YAML, TOML) and the deterministic
// hash that seeds initial positions, restart perturbations and group colors.
//
// [model] - immutable, indexed view of a snapshot.
//
// [dag] and [dag/transform] - the layered graph behind the hierarchical
// strategy: cycle breaking, longest-path ranks, crossing reduction.
//
// [sim] - force simulation with a body arena, forces, constraints,
// cancellable frame iteration and deterministic restart.
//
// [layout], [hull] - the engine.
//
// [generation], [pipeline], [cache], [observability] - orchestration.
//
// [source] and [source/mongo] - snapshot loaders.
//
// [render], [render/svg], [render/nodelink] - output formats.
//
// [errors], [buildinfo] - shared utilities.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/graph
// [model]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/model
// [dag]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/dag/transform
// [sim]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/sim
// [layout]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/layout
// [hull]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/hull
// [generation]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/generation
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/observability
// [source]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/source
// [source/mongo]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/source/mongo
// [render]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/ontoviz/pkg/buildinfo
package pkg
