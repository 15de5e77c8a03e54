package pipeline

import (
	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/graph"
)

// MaxNodes bounds the size of a snapshot accepted by the pipeline.
const MaxNodes = 20000

// ValidateSnapshot rejects snapshots the pipeline cannot safely process:
// too many nodes or unusable node ids. Dangling edges and duplicate ids are
// not errors; the model drops them with a warning.
func ValidateSnapshot(s graph.Snapshot) error {
	if len(s.Nodes) > MaxNodes {
		return errors.New(errors.ErrCodeInvalidSnapshot, "snapshot too large: %d nodes (max %d)", len(s.Nodes), MaxNodes)
	}
	for _, n := range s.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
	}
	return nil
}
