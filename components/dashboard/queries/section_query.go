package queries

import (
	"context"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// SectionViewInput identifies a single-section request for a viewer.
type SectionViewInput struct {
	Viewer  dashboard.ViewerContext
	Section dashboard.Section
}

type sectionService interface {
	SectionView(ctx context.Context, viewer dashboard.ViewerContext, section dashboard.Section) (dashboard.SectionPayload, error)
}

// SectionViewQuery fetches one section's payload.
type SectionViewQuery struct {
	service sectionService
}

// NewSectionViewQuery builds the query.
func NewSectionViewQuery(service sectionService) *SectionViewQuery {
	return &SectionViewQuery{service: service}
}

var _ gocommand.Querier[SectionViewInput, dashboard.SectionPayload] = (*SectionViewQuery)(nil)

// Query resolves an individual section for the viewer.
func (q *SectionViewQuery) Query(ctx context.Context, input SectionViewInput) (dashboard.SectionPayload, error) {
	return q.service.SectionView(ctx, input.Viewer, input.Section)
}
