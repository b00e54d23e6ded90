package main

import (
	"fmt"

	"girder/internal/config"
	"girder/internal/logging"
	"girder/pkg/pipeline"
	"girder/pkg/sizing"
)

// buildPipeline assembles a pipeline from the loaded config. The optional
// sizing model artifact takes precedence over the closed-form formulas.
func buildPipeline(c config.Config, obs pipeline.Observer) (*pipeline.Pipeline, error) {
	var provider sizing.Provider
	if c.Sizing.ModelPath != "" {
		mp, err := sizing.LoadModel(c.Sizing.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("load sizing model: %w", err)
		}
		provider = mp
	}

	return pipeline.New(pipeline.Options{
		Clash:         c.ClashConfig(),
		Synth:         c.SynthOptions(),
		Provider:      provider,
		MaxIterations: c.Engine.MaxIterations,
		Observer:      obs,
		Log:           logging.New("pipeline"),
	}), nil
}
