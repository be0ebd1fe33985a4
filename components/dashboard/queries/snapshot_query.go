package queries

import (
	"context"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// SnapshotInput identifies a full-dashboard request for a viewer.
type SnapshotInput struct {
	Viewer dashboard.ViewerContext
}

type snapshotService interface {
	Snapshot(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Snapshot, error)
}

// SnapshotQuery resolves the viewer's dashboard view.
type SnapshotQuery struct {
	service snapshotService
}

// NewSnapshotQuery builds the query.
func NewSnapshotQuery(service snapshotService) *SnapshotQuery {
	return &SnapshotQuery{service: service}
}

var _ gocommand.Querier[SnapshotInput, dashboard.Snapshot] = (*SnapshotQuery)(nil)

// Query resolves the dashboard snapshot for the viewer.
func (q *SnapshotQuery) Query(ctx context.Context, input SnapshotInput) (dashboard.Snapshot, error) {
	return q.service.Snapshot(ctx, input.Viewer)
}
