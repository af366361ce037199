// Package structural implements the latent-variable simulation engine. It
// orders the construct graph topologically, samples exogenous constructs from
// their configured distributions, and builds endogenous constructs as
// standardized linear combinations of their parents plus independent noise
// scaled to an exact or heuristic R² target.
package structural

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/exp/rand"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dag"
	"github.com/latentlab/semgen/internal/dataset"
	"github.com/latentlab/semgen/internal/rng"
)

// ErrCycle indicates the structural paths form a cycle.
var ErrCycle = dag.ErrCycle

// ErrUnknownConstruct indicates a path references a construct that is not
// declared in the model.
var ErrUnknownConstruct = errors.New("structural: path references undeclared construct")

// R² targets are clipped to this ceiling; the heuristic is bounded away from
// 0 and 1.
const (
	maxR2          = 0.95
	heuristicR2Min = 0.10
	heuristicR2Max = 0.70
)

// Engine simulates latent scores for a validated model configuration.
type Engine struct {
	logger *slog.Logger
}

// New creates an engine. A nil logger discards output.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger}
}

// Simulate produces one latent column per declared construct, in declaration
// order. It fails before producing any output when the path set contains a
// cycle or references an undeclared construct.
func (e *Engine) Simulate(model *config.ModelConfig) (*dataset.Frame, error) {
	n := model.Sample.Respondents
	rn := rng.New(model.Sample.Seed)

	// No structural relations: every construct is independent.
	if len(model.Structural.Paths) == 0 {
		out := dataset.New(n)
		for i := range model.Constructs {
			c := &model.Constructs[i]
			if err := out.AddNumeric(c.Name, sampleExogenous(c, n, rn)); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	order, err := e.topoOrder(model)
	if err != nil {
		return nil, err
	}

	scores := make(map[string][]float64, len(model.Constructs))
	parentsOf := pathParents(model)

	for _, name := range order {
		c, _ := model.Construct(name)
		parents := parentsOf[name]
		if len(parents) == 0 {
			scores[name] = sampleExogenous(c, n, rn)
			continue
		}
		scores[name] = e.simulateEndogenous(model, c, parents, scores, rn)
	}

	out := dataset.New(n)
	for i := range model.Constructs {
		c := &model.Constructs[i]
		col, ok := scores[c.Name]
		if !ok {
			// Defensive: a declared construct missing from the topological
			// result is generated as if exogenous.
			e.logger.Debug("construct absent from topological order, sampling as exogenous", "construct", c.Name)
			col = sampleExogenous(c, n, rn)
		}
		if err := out.AddNumeric(c.Name, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// topoOrder builds the construct graph and returns the Kahn ordering.
// Declared constructs never referenced by a path are included as isolated
// nodes so they are generated too.
func (e *Engine) topoOrder(model *config.ModelConfig) ([]string, error) {
	g := dag.NewGraph()
	for i := range model.Constructs {
		g.AddNode(model.Constructs[i].Name)
	}
	for i := range model.Structural.Paths {
		p := &model.Structural.Paths[i]
		if _, ok := model.Construct(p.Source); !ok {
			return nil, fmt.Errorf("%w: %q in path %s -> %s", ErrUnknownConstruct, p.Source, p.Source, p.Target)
		}
		if _, ok := model.Construct(p.Target); !ok {
			return nil, fmt.Errorf("%w: %q in path %s -> %s", ErrUnknownConstruct, p.Target, p.Source, p.Target)
		}
		if err := g.AddEdge(p.Source, p.Target); err != nil {
			return nil, err
		}
	}
	order, err := g.TopoSort()
	if err != nil {
		return nil, fmt.Errorf("structural model: %w", err)
	}
	return order, nil
}

// pathParents maps each path target to its sources with betas, in path
// declaration order.
func pathParents(model *config.ModelConfig) map[string][]config.PathConfig {
	out := make(map[string][]config.PathConfig)
	for _, p := range model.Structural.Paths {
		out[p.Target] = append(out[p.Target], p)
	}
	return out
}

// simulateEndogenous combines the standardized parent columns weighted by
// their betas, mixes in independent standard-normal noise to hit the R²
// target, and rescales to the construct's declared mean and sd.
func (e *Engine) simulateEndogenous(
	model *config.ModelConfig,
	c *config.ConstructConfig,
	incoming []config.PathConfig,
	scores map[string][]float64,
	rn *rand.Rand,
) []float64 {
	n := model.Sample.Respondents

	lin := make([]float64, n)
	sumSq := 0.0
	for _, p := range incoming {
		z := append([]float64(nil), scores[p.Source]...)
		standardize(z)
		for i := range lin {
			lin[i] += p.Beta * z[i]
		}
		sumSq += p.Beta * p.Beta
	}
	standardize(lin)

	r2 := e.resolveR2(c.Name, model.Structural.R2Targets, sumSq)

	w, werr := math.Sqrt(r2), math.Sqrt(1-r2)
	y := make([]float64, n)
	for i := range y {
		y[i] = w*lin[i] + werr*rn.NormFloat64()
	}
	standardize(y)
	rescale(y, c.LatentMean, c.LatentSD)
	return y
}

// resolveR2 returns the explicit target when one is set and positive,
// otherwise the heuristic sum(beta²)/(1+sum(beta²)) clipped to
// [heuristicR2Min, heuristicR2Max].
func (e *Engine) resolveR2(name string, targets map[string]float64, sumSq float64) float64 {
	if t, ok := targets[name]; ok && t > 0 {
		return clip(t, 0, maxR2)
	}
	h := clip(sumSq/(1+sumSq), heuristicR2Min, heuristicR2Max)
	e.logger.Debug("no r2 target, using heuristic", "construct", name, "r2", h)
	return h
}
