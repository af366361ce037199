package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
)

// metadata is the JSON metadata document shape.
type metadata struct {
	Project     string             `json:"project"`
	Researcher  string             `json:"researcher"`
	Respondents int                `json:"n_respondents"`
	LikertMin   int                `json:"likert_min"`
	LikertMax   int                `json:"likert_max"`
	Seed        int64              `json:"seed"`
	Constructs  []constructMeta    `json:"constructs"`
	Paths       []pathMeta         `json:"structural_paths"`
	R2Targets   map[string]float64 `json:"r2_targets"`
	Codebook    []map[string]any   `json:"codebook"`
}

type constructMeta struct {
	Name         string  `json:"name"`
	Items        int     `json:"items"`
	Distribution string  `json:"distribution"`
	LatentMean   float64 `json:"latent_mean"`
	LatentSD     float64 `json:"latent_sd"`
	Skew         float64 `json:"skew"`
	LoadingMean  float64 `json:"target_loading_mean"`
}

type pathMeta struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Beta   float64 `json:"beta"`
}

// WriteMetadataJSON writes the project metadata document: sample parameters,
// construct definitions, structural paths, R² targets, and codebook records.
func WriteMetadataJSON(w io.Writer, model *config.ModelConfig, codebook *dataset.Frame) error {
	if model == nil {
		return fmt.Errorf("export: no model configuration to write")
	}

	meta := metadata{
		Project:     model.Project,
		Researcher:  model.Researcher,
		Respondents: model.Sample.Respondents,
		LikertMin:   model.Sample.LikertMin,
		LikertMax:   model.Sample.LikertMax,
		Seed:        model.Sample.Seed,
		R2Targets:   model.Structural.R2Targets,
	}
	if meta.R2Targets == nil {
		meta.R2Targets = map[string]float64{}
	}
	for i := range model.Constructs {
		c := &model.Constructs[i]
		meta.Constructs = append(meta.Constructs, constructMeta{
			Name:         c.Name,
			Items:        c.Items,
			Distribution: string(c.Distribution),
			LatentMean:   c.LatentMean,
			LatentSD:     c.LatentSD,
			Skew:         c.Skew,
			LoadingMean:  c.LoadingMean,
		})
	}
	for _, p := range model.Structural.Paths {
		meta.Paths = append(meta.Paths, pathMeta{Source: p.Source, Target: p.Target, Beta: p.Beta})
	}
	if codebook != nil {
		meta.Codebook = frameRecords(codebook)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("export: encode metadata: %w", err)
	}
	return nil
}

// frameRecords renders a frame as row-oriented records; missing numeric cells
// become null.
func frameRecords(f *dataset.Frame) []map[string]any {
	cols := f.Columns()
	out := make([]map[string]any, f.NumRows())
	for r := range out {
		rec := make(map[string]any, len(cols))
		for _, col := range cols {
			if col.Kind == dataset.Categorical {
				rec[col.Name] = col.Labels[r]
				continue
			}
			v := col.Floats[r]
			if v != v { // NaN
				rec[col.Name] = nil
			} else {
				rec[col.Name] = v
			}
		}
		out[r] = rec
	}
	return out
}
