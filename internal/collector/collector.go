package collector

import (
	"context"

	"github.com/nate2211/github-analytics/internal/domain"
)

// Collector fetches analytics for a set of repositories. Upstream API
// failures are captured per-slug and per-feature inside the report; the
// returned error is reserved for logic failures, so partial success is the
// normal outcome.
type Collector interface {
	Fetch(ctx context.Context, req domain.FetchRequest) (*domain.Report, error)
}
