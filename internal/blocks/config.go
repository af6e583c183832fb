package blocks

import (
	"context"

	"github.com/nate2211/github-analytics/internal/config"
	"github.com/nate2211/github-analytics/internal/pipeline"
)

// ConfigLoad reads the config document at Path into the payload. An empty
// Path resolves to the default location.
type ConfigLoad struct {
	Path string
}

func (ConfigLoad) Name() string { return "config_load" }

func (b ConfigLoad) Execute(ctx context.Context, payload *pipeline.Payload) (*pipeline.Payload, pipeline.Meta, error) {
	path := b.Path
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	payload.Config = config.Load(path)
	return payload, pipeline.Meta{"config_path": path}, nil
}

// ConfigSave persists the payload's config document to Path.
type ConfigSave struct {
	Path string
}

func (ConfigSave) Name() string { return "config_save" }

func (b ConfigSave) Execute(ctx context.Context, payload *pipeline.Payload) (*pipeline.Payload, pipeline.Meta, error) {
	path := b.Path
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	doc := payload.Config
	if doc == nil {
		doc = &config.Document{}
	}
	if err := doc.Save(path); err != nil {
		return nil, nil, err
	}
	payload.Config = doc
	return payload, pipeline.Meta{"saved_to": path}, nil
}
