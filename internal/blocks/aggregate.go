package blocks

import (
	"context"

	"github.com/nate2211/github-analytics/internal/aggregator"
	"github.com/nate2211/github-analytics/internal/pipeline"
)

// Aggregate recomputes and attaches report totals. It tolerates a missing
// report so it can run standalone.
type Aggregate struct{}

func (Aggregate) Name() string { return "github_aggregate" }

func (Aggregate) Execute(ctx context.Context, payload *pipeline.Payload) (*pipeline.Payload, pipeline.Meta, error) {
	payload.Report = aggregator.Aggregate(payload.Report)
	return payload, pipeline.Meta{"ok": true}, nil
}
