package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/layout"
	"github.com/matzehuels/ontoviz/pkg/source"
	"github.com/matzehuels/ontoviz/pkg/source/mongo"
)

// stdinInput selects a JSON snapshot on standard input.
const stdinInput = "-"

// query builds the source query from the selection flags.
func (f *layoutFlags) query() source.Query {
	q := source.Query{GroupIDs: f.groups, Limit: f.limit}
	for _, t := range f.types {
		q.EntityTypes = append(q.EntityTypes, graph.EntityType(t))
	}
	return q
}

// loadSnapshot resolves input to a snapshot. Input is a snapshot file, "-"
// for JSON on stdin, or a MongoDB URI. Without input the configured MongoDB
// source is used.
func (c *CLI) loadSnapshot(ctx context.Context, input string, q source.Query) (graph.Snapshot, error) {
	if input == "" {
		input = c.Config.Source.MongoURI
	}
	switch {
	case input == "":
		return graph.Snapshot{}, errors.New(errors.ErrCodeInvalidInput, "no snapshot given and no [source] mongo_uri configured")
	case input == stdinInput:
		if err := q.Validate(); err != nil {
			return graph.Snapshot{}, err
		}
		s, err := graph.ReadSnapshot(os.Stdin, graph.FormatJSON)
		if err != nil {
			return graph.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "read snapshot from stdin")
		}
		return q.Apply(s), nil
	case strings.HasPrefix(input, "mongodb://"), strings.HasPrefix(input, "mongodb+srv://"):
		return c.loadMongo(ctx, input, q)
	default:
		return source.File{Path: input}.Load(ctx, q)
	}
}

func (c *CLI) loadMongo(ctx context.Context, uri string, q source.Query) (graph.Snapshot, error) {
	cfg := c.Config.Source
	src, err := mongo.Open(ctx, uri, cfg.database())
	if err != nil {
		return graph.Snapshot{}, err
	}
	defer src.Close(context.WithoutCancel(ctx))
	src.NodesCollection = cfg.NodesCollection
	src.EdgesCollection = cfg.EdgesCollection
	src.Logger = c.Logger
	return src.Load(ctx, q)
}

// inputName returns a display and file-naming base for input.
func inputName(input string) string {
	switch {
	case input == "" || input == stdinInput:
		return "snapshot"
	case strings.Contains(input, "://"):
		return "snapshot"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

func layoutAlgorithm(s string) layout.Algorithm { return layout.Algorithm(strings.TrimSpace(s)) }

func layoutDirection(s string) layout.Direction {
	return layout.Direction(strings.ToUpper(strings.TrimSpace(s)))
}

func completeAlgorithms(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(layout.Algorithms))
	for i, a := range layout.Algorithms {
		names[i] = string(a)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
