// Package mongo loads ontology snapshots from MongoDB.
//
// Nodes and edges live in two collections whose documents use the field
// names of [graph.Node] and [graph.Edge]. Nodes are returned in insertion
// order (ascending _id), which keeps layouts stable across loads.
package mongo

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/ontoviz/pkg/cache"
	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/source"
)

// Default collection names.
const (
	DefaultNodesCollection = "nodes"
	DefaultEdgesCollection = "edges"
)

// Source reads snapshots from a MongoDB database.
type Source struct {
	Client          *mongo.Client
	Database        string
	NodesCollection string
	EdgesCollection string
	Logger          *log.Logger
}

// Open connects to uri and returns a Source for database. The connection
// is verified with a ping, retried on transient network errors.
func Open(ctx context.Context, uri, database string) (*Source, error) {
	if err := errors.ValidateURL(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "connect to mongodb")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}
	return &Source{Client: client, Database: database}, nil
}

// Load returns the nodes matching q and the edges between them.
func (s *Source) Load(ctx context.Context, q source.Query) (graph.Snapshot, error) {
	if err := q.Validate(); err != nil {
		return graph.Snapshot{}, err
	}
	db := s.Client.Database(s.Database)

	var snap graph.Snapshot
	cur, err := db.Collection(s.nodes()).Find(ctx, nodeFilter(q), nodeOptions(q))
	if err != nil {
		return graph.Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "query %s", s.nodes())
	}
	if err := cur.All(ctx, &snap.Nodes); err != nil {
		return graph.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode nodes")
	}

	ids := make([]string, len(snap.Nodes))
	for i, n := range snap.Nodes {
		ids[i] = n.ID
	}
	cur, err = db.Collection(s.edges()).Find(ctx, edgeFilter(ids), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return graph.Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "query %s", s.edges())
	}
	if err := cur.All(ctx, &snap.Edges); err != nil {
		return graph.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode edges")
	}

	s.logger().Debug("loaded snapshot", "database", s.Database, "nodes", len(snap.Nodes), "edges", len(snap.Edges))
	return snap, nil
}

// Close disconnects the client.
func (s *Source) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func (s *Source) nodes() string {
	if s.NodesCollection == "" {
		return DefaultNodesCollection
	}
	return s.NodesCollection
}

func (s *Source) edges() string {
	if s.EdgesCollection == "" {
		return DefaultEdgesCollection
	}
	return s.EdgesCollection
}

func (s *Source) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

// nodeFilter translates q's node filters. The zero query matches everything.
func nodeFilter(q source.Query) bson.D {
	f := bson.D{}
	if len(q.GroupIDs) > 0 {
		f = append(f, bson.E{Key: "group_ids", Value: bson.D{{Key: "$in", Value: q.GroupIDs}}})
	}
	if len(q.EntityTypes) > 0 {
		types := make([]string, len(q.EntityTypes))
		for i, t := range q.EntityTypes {
			types[i] = string(t)
		}
		f = append(f, bson.E{Key: "entity_type", Value: bson.D{{Key: "$in", Value: types}}})
	}
	return f
}

func nodeOptions(q source.Query) *options.FindOptions {
	o := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if q.Limit > 0 {
		o.SetLimit(int64(q.Limit))
	}
	return o
}

// edgeFilter selects edges with both endpoints in ids.
func edgeFilter(ids []string) bson.D {
	if ids == nil {
		ids = []string{}
	}
	return bson.D{
		{Key: "source", Value: bson.D{{Key: "$in", Value: ids}}},
		{Key: "target", Value: bson.D{{Key: "$in", Value: ids}}},
	}
}

var _ source.Loader = (*Source)(nil)
