// Package generator orchestrates the full simulation pipeline:
// configuration -> structural latents -> Likert indicators -> demographics.
package generator

import (
	"fmt"
	"log/slog"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
	"github.com/latentlab/semgen/internal/measurement"
	"github.com/latentlab/semgen/internal/rng"
	"github.com/latentlab/semgen/internal/structural"
)

// Result is a finished generation run. Full holds demographics (when
// enabled) followed by all indicator columns; Items holds the indicator
// columns only.
type Result struct {
	Full  *dataset.Frame
	Items *dataset.Frame
}

// Generator runs the pipeline for validated model configurations.
type Generator struct {
	logger *slog.Logger
}

// New creates a generator. A nil logger discards output.
func New(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{logger: logger}
}

// Generate runs structural simulation, indicator generation, and demographic
// sampling. The latent matrix lives only inside this call; it is never part
// of the result.
//
// The structural and measurement stages each derive their own generator from
// the run seed, so the measurement draws do not depend on how many draws the
// structural stage consumed.
func (g *Generator) Generate(model *config.ModelConfig) (*Result, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}

	g.logger.Debug("simulating structural latents",
		"constructs", len(model.Constructs),
		"paths", len(model.Structural.Paths),
		"respondents", model.Sample.Respondents)

	latents, err := structural.New(g.logger).Simulate(model)
	if err != nil {
		return nil, err
	}

	itemRng := rng.New(model.Sample.Seed)
	items := dataset.New(model.Sample.Respondents)
	for i := range model.Constructs {
		c := &model.Constructs[i]
		latent, ok := latents.Numeric(c.Name)
		if !ok {
			return nil, fmt.Errorf("generator: structural stage produced no latent column for %q", c.Name)
		}
		cols, err := measurement.GenerateItems(c, latent, model.Sample, itemRng, g.logger)
		if err != nil {
			return nil, err
		}
		items, err = items.Bind(cols)
		if err != nil {
			return nil, err
		}
	}

	demo, err := generateDemographics(model)
	if err != nil {
		return nil, err
	}

	full := items
	if demo.NumCols() > 0 {
		full, err = demo.Bind(items)
		if err != nil {
			return nil, err
		}
	}

	g.logger.Debug("generation complete",
		"rows", full.NumRows(), "columns", full.NumCols())
	return &Result{Full: full, Items: items}, nil
}
