package git

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chore/internal/core/ports"
)

// NodeID is the unique identifier for the git Graft node.
const NodeID graft.ID = "adapter.git"

func init() {
	graft.Register(graft.Node[ports.Git]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.Git, error) {
			return New(), nil
		},
	})
}
