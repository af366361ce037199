// Package config defines the validated configuration objects driving a
// generation run: constructs, structural paths, sample parameters,
// demographics, and response-bias settings. Configuration is treated as
// immutable once Validate has succeeded.
package config

import (
	"fmt"
	"strings"
)

// Distribution names a latent distribution family for exogenous constructs.
type Distribution string

const (
	DistNormal    Distribution = "normal"
	DistSkewed    Distribution = "skewed"
	DistUniform   Distribution = "uniform"
	DistLognormal Distribution = "lognormal"
	DistBeta      Distribution = "beta"
)

// distributions lists the supported families.
var distributions = map[Distribution]bool{
	DistNormal:    true,
	DistSkewed:    true,
	DistUniform:   true,
	DistLognormal: true,
	DistBeta:      true,
}

// ConstructConfig defines one reflective latent construct and its
// item-generation rules.
//
// Reverse-coded items are always the trailing ReverseItems columns of the
// construct's indicator block; their polarity is flipped after discretization.
type ConstructConfig struct {
	Name  string `koanf:"name"`
	Items int    `koanf:"items"`

	LatentMean float64 `koanf:"latent_mean"`
	LatentSD   float64 `koanf:"latent_sd"`

	Distribution Distribution `koanf:"distribution"`
	Skew         float64      `koanf:"skew"`
	Kurtosis     float64      `koanf:"kurtosis"`

	LoadingMean float64 `koanf:"loading_mean"`
	LoadingMin  float64 `koanf:"loading_min"`
	LoadingMax  float64 `koanf:"loading_max"`

	ReverseItems int `koanf:"reverse_items"`
}

// Validate checks a single construct definition.
func (c *ConstructConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("construct name cannot be empty")
	}
	if c.Items < 1 {
		return fmt.Errorf("construct %q must have at least one item", c.Name)
	}
	if !distributions[c.Distribution] {
		return fmt.Errorf("construct %q: unsupported distribution %q", c.Name, c.Distribution)
	}
	if !(0 < c.LoadingMin && c.LoadingMin <= c.LoadingMean && c.LoadingMean <= c.LoadingMax && c.LoadingMax < 1) {
		return fmt.Errorf("construct %q: loading bounds must satisfy 0 < min <= mean <= max < 1 (got min=%g mean=%g max=%g)",
			c.Name, c.LoadingMin, c.LoadingMean, c.LoadingMax)
	}
	if c.ReverseItems < 0 || c.ReverseItems > c.Items {
		return fmt.Errorf("construct %q: reverse_items must be between 0 and %d", c.Name, c.Items)
	}
	return nil
}

// ItemColumns returns the indicator column names for the construct,
// {name}_{01..n}.
func (c *ConstructConfig) ItemColumns() []string {
	cols := make([]string, c.Items)
	for i := range cols {
		cols[i] = fmt.Sprintf("%s_%02d", c.Name, i+1)
	}
	return cols
}

// PathConfig is one structural path: target = beta * source + error.
type PathConfig struct {
	Source string  `koanf:"source"`
	Target string  `koanf:"target"`
	Beta   float64 `koanf:"beta"`
}

// Validate rejects empty endpoints and self-loops.
func (p *PathConfig) Validate() error {
	if strings.TrimSpace(p.Source) == "" || strings.TrimSpace(p.Target) == "" {
		return fmt.Errorf("structural path cannot have an empty source or target")
	}
	if p.Source == p.Target {
		return fmt.Errorf("invalid path %s -> %s: a construct cannot predict itself", p.Source, p.Target)
	}
	return nil
}

// StructuralConfig holds the structural model: the path list and optional R²
// targets keyed by endogenous construct name. A target of 0 means "use the
// heuristic".
type StructuralConfig struct {
	Paths     []PathConfig       `koanf:"paths"`
	R2Targets map[string]float64 `koanf:"r2_targets"`
}

// Validate rejects duplicate (source, target) pairs, invalid paths, and
// out-of-range R² targets.
func (s *StructuralConfig) Validate() error {
	seen := make(map[[2]string]bool, len(s.Paths))
	targets := make(map[string]bool, len(s.Paths))
	for i := range s.Paths {
		p := &s.Paths[i]
		if err := p.Validate(); err != nil {
			return err
		}
		key := [2]string{p.Source, p.Target}
		if seen[key] {
			return fmt.Errorf("duplicate structural path %s -> %s", p.Source, p.Target)
		}
		seen[key] = true
		targets[p.Target] = true
	}
	for name, r2 := range s.R2Targets {
		if r2 < 0 || r2 >= 1 {
			return fmt.Errorf("r2 target for %q must be in [0, 1), got %g", name, r2)
		}
		if !targets[name] {
			return fmt.Errorf("r2 target set for %q, which is not the target of any path", name)
		}
	}
	return nil
}

// SampleConfig controls sampling properties of the dataset.
type SampleConfig struct {
	Respondents int   `koanf:"respondents"`
	LikertMin   int   `koanf:"likert_min"`
	LikertMax   int   `koanf:"likert_max"`
	Seed        int64 `koanf:"seed"`
}

// Categories returns the number of Likert response categories.
func (s SampleConfig) Categories() int { return s.LikertMax - s.LikertMin + 1 }

// Validate checks sample bounds.
func (s SampleConfig) Validate() error {
	if s.Respondents <= 0 {
		return fmt.Errorf("sample size must be positive, got %d", s.Respondents)
	}
	if s.LikertMax <= s.LikertMin {
		return fmt.Errorf("likert_max (%d) must be greater than likert_min (%d)", s.LikertMax, s.LikertMin)
	}
	return nil
}

// DemographicConfig toggles the categorical demographic columns.
type DemographicConfig struct {
	Enabled bool `koanf:"enabled"`
}

// BiasConfig holds response-behavior distortion parameters. Rates are cell or
// row proportions in [0, 1]; levels are pull strengths in [0, 1];
// acquiescence may be negative to shift responses downward.
type BiasConfig struct {
	CarelessRate       float64 `koanf:"careless_rate"`
	StraightliningRate float64 `koanf:"straightlining_rate"`
	RandomResponseRate float64 `koanf:"random_response_rate"`
	MidpointLevel      float64 `koanf:"midpoint_level"`
	ExtremeLevel       float64 `koanf:"extreme_level"`
	AcquiescenceLevel  float64 `koanf:"acquiescence_level"`
	MissingRate        float64 `koanf:"missing_rate"`
}

// Validate checks bias parameter ranges.
func (b *BiasConfig) Validate() error {
	rates := map[string]float64{
		"careless_rate":        b.CarelessRate,
		"straightlining_rate":  b.StraightliningRate,
		"random_response_rate": b.RandomResponseRate,
		"midpoint_level":       b.MidpointLevel,
		"extreme_level":        b.ExtremeLevel,
		"missing_rate":         b.MissingRate,
	}
	for name, v := range rates {
		if v < 0 || v > 1 {
			return fmt.Errorf("bias parameter %q must be in [0, 1], got %g", name, v)
		}
	}
	if b.AcquiescenceLevel < -5 || b.AcquiescenceLevel > 5 {
		return fmt.Errorf("bias parameter \"acquiescence_level\" has unrealistic magnitude: %g", b.AcquiescenceLevel)
	}
	return nil
}

// Enabled reports whether any bias transform would change data.
func (b *BiasConfig) Enabled() bool {
	return b.CarelessRate > 0 || b.StraightliningRate > 0 || b.RandomResponseRate > 0 ||
		b.MidpointLevel > 0 || b.ExtremeLevel > 0 || b.AcquiescenceLevel != 0 || b.MissingRate > 0
}

// ModelConfig is the top-level configuration for one generation run.
// Constructs keep their declaration order; ConstructByName provides keyed
// lookup after Validate.
type ModelConfig struct {
	Project    string `koanf:"project"`
	Researcher string `koanf:"researcher"`

	Constructs []ConstructConfig `koanf:"constructs"`

	Sample       SampleConfig      `koanf:"sample"`
	Demographics DemographicConfig `koanf:"demographics"`
	Bias         BiasConfig        `koanf:"bias"`
	Structural   StructuralConfig  `koanf:"structural"`

	byName map[string]*ConstructConfig
}

// Validate checks the whole configuration and builds the name index. It must
// be called before the config is handed to any engine.
func (m *ModelConfig) Validate() error {
	if len(m.Constructs) == 0 {
		return fmt.Errorf("at least one construct must be defined")
	}
	m.byName = make(map[string]*ConstructConfig, len(m.Constructs))
	for i := range m.Constructs {
		c := &m.Constructs[i]
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := m.byName[c.Name]; dup {
			return fmt.Errorf("duplicate construct name %q", c.Name)
		}
		m.byName[c.Name] = c
	}
	if err := m.Structural.Validate(); err != nil {
		return err
	}
	// Referential integrity: paths only between declared constructs.
	for i := range m.Structural.Paths {
		p := &m.Structural.Paths[i]
		if _, ok := m.byName[p.Source]; !ok {
			return fmt.Errorf("path %s -> %s references undeclared construct %q", p.Source, p.Target, p.Source)
		}
		if _, ok := m.byName[p.Target]; !ok {
			return fmt.Errorf("path %s -> %s references undeclared construct %q", p.Source, p.Target, p.Target)
		}
	}
	if err := m.Sample.Validate(); err != nil {
		return err
	}
	return m.Bias.Validate()
}

// Construct returns a declared construct by name. Only valid after Validate.
func (m *ModelConfig) Construct(name string) (*ConstructConfig, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// ItemColumns returns all indicator column names across constructs, in
// declaration order.
func (m *ModelConfig) ItemColumns() []string {
	var cols []string
	for i := range m.Constructs {
		cols = append(cols, m.Constructs[i].ItemColumns()...)
	}
	return cols
}

// ConstructMap returns the construct -> indicator-columns mapping for the
// declared measurement model, in declaration order.
func (m *ModelConfig) ConstructMap() []ConstructColumns {
	out := make([]ConstructColumns, len(m.Constructs))
	for i := range m.Constructs {
		out[i] = ConstructColumns{
			Construct: m.Constructs[i].Name,
			Columns:   m.Constructs[i].ItemColumns(),
		}
	}
	return out
}

// ConstructColumns pairs a construct name with its ordered indicator columns.
// The diagnostics engine consumes a slice of these so that iteration order is
// stable regardless of how the mapping was produced.
type ConstructColumns struct {
	Construct string
	Columns   []string
}
