package domain

import (
	"context"

	"github.com/google/uuid"

	"rowboat/internal/adapters/scholarone"
)

// HarvesterPort runs harvests
type HarvesterPort interface {
	Execute(ctx context.Context, spec RunSpec) (RunReport, error)
}

// HistoryPort reads recorded runs
type HistoryPort interface {
	Get(ctx context.Context, id uuid.UUID) (Run, error)
	List(ctx context.Context, in ListInput) ([]Run, error)
	Fetches(ctx context.Context, runID uuid.UUID) ([]Fetch, error)
}

// FetcherPort is the upstream fetch seam
type FetcherPort interface {
	Fetch(ctx context.Context, ep scholarone.Endpoint, site string, q scholarone.Query) (any, error)
}
