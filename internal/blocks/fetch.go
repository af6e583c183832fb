package blocks

import (
	"context"

	"github.com/nate2211/github-analytics/internal/collector"
	"github.com/nate2211/github-analytics/internal/config"
	"github.com/nate2211/github-analytics/internal/domain"
	"github.com/nate2211/github-analytics/internal/pipeline"
)

// Fetch runs the collector over the payload's request. Token precedence is
// explicit override, then the request's token, then GITHUB_TOKEN from the
// environment.
type Fetch struct {
	Collector     collector.Collector
	TokenOverride string
}

func (Fetch) Name() string { return "github_fetch" }

func (b Fetch) Execute(ctx context.Context, payload *pipeline.Payload) (*pipeline.Payload, pipeline.Meta, error) {
	req := domain.FetchRequest{}
	if payload.Request != nil {
		req = *payload.Request
	}

	if !req.Token.IsSet() {
		req.Token = domain.NewSecret(config.EnvToken())
	}
	if b.TokenOverride != "" {
		req.Token = domain.NewSecret(b.TokenOverride)
	}

	report, err := b.Collector.Fetch(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	payload.Report = report

	return payload, pipeline.Meta{
		"token_provided": req.Token.IsSet(),
		"count":          len(report.Repos),
	}, nil
}
