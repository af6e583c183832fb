package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nate2211/github-analytics/internal/config"
	"github.com/nate2211/github-analytics/internal/domain"
)

// Payload is the state threaded through a pipeline run. Blocks read the
// fields they need and return a payload with their outputs filled in;
// nothing is passed through ambient state.
type Payload struct {
	Request *domain.FetchRequest
	Config  *config.Document
	Report  *domain.Report
}

// Meta is a block's free-form execution summary, recorded per step.
type Meta map[string]any

// Block is one pipeline step. The set of blocks is closed: each is a
// concrete type constructed by the caller, so an unwireable pipeline is a
// compile error rather than a lookup failure at run time.
type Block interface {
	Name() string
	Execute(ctx context.Context, payload *Payload) (*Payload, Meta, error)
}

// StepMeta pairs a block name with the meta it produced.
type StepMeta struct {
	Block string `json:"block"`
	Meta  Meta   `json:"meta"`
}

// RunMeta is the trail of one pipeline run.
type RunMeta struct {
	RunID string     `json:"run_id"`
	Steps []StepMeta `json:"steps"`
}

// Pipeline runs blocks sequentially, stopping at the first failure.
type Pipeline struct {
	blocks []Block
}

// New assembles a pipeline from blocks in execution order.
func New(blocks ...Block) *Pipeline {
	return &Pipeline{blocks: blocks}
}

// Run executes the blocks in order. On failure the partial meta trail is
// returned alongside the error so callers can see how far the run got.
func (p *Pipeline) Run(ctx context.Context, payload *Payload) (*Payload, *RunMeta, error) {
	if payload == nil {
		payload = &Payload{}
	}
	run := &RunMeta{
		RunID: uuid.New().String(),
		Steps: []StepMeta{},
	}

	for _, b := range p.blocks {
		next, meta, err := b.Execute(ctx, payload)
		if err != nil {
			return payload, run, fmt.Errorf("block %s: %w", b.Name(), err)
		}
		payload = next
		run.Steps = append(run.Steps, StepMeta{Block: b.Name(), Meta: meta})
	}
	return payload, run, nil
}
