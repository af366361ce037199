package export

import (
	"fmt"
	"math"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
	"github.com/latentlab/semgen/internal/generator"
)

// Codebook builds the variable-level metadata table: one row per Likert item,
// one per demographic column (when enabled), and one appendix row per
// structural path.
func Codebook(model *config.ModelConfig) *dataset.Frame {
	type row struct {
		variable, construct, label, dist, typ   string
		latentMean, latentSD, skew, loadingMean float64
		scaleMin, scaleMax                      float64
	}
	blank := math.NaN()

	var rows []row
	for i := range model.Constructs {
		c := &model.Constructs[i]
		for item := 1; item <= c.Items; item++ {
			rows = append(rows, row{
				variable:    fmt.Sprintf("%s_%02d", c.Name, item),
				construct:   c.Name,
				label:       fmt.Sprintf("Item %d", item),
				dist:        string(c.Distribution),
				typ:         "Likert item",
				latentMean:  c.LatentMean,
				latentSD:    c.LatentSD,
				skew:        c.Skew,
				loadingMean: c.LoadingMean,
				scaleMin:    float64(model.Sample.LikertMin),
				scaleMax:    float64(model.Sample.LikertMax),
			})
		}
	}

	if model.Demographics.Enabled {
		for _, name := range generator.DemographicColumns {
			rows = append(rows, row{
				variable: name, construct: "demographic", label: name,
				dist: "categorical", typ: "category",
				latentMean: blank, latentSD: blank, skew: blank,
				loadingMean: blank, scaleMin: blank, scaleMax: blank,
			})
		}
	}

	for _, p := range model.Structural.Paths {
		rows = append(rows, row{
			variable:  fmt.Sprintf("%s -> %s", p.Source, p.Target),
			construct: "structural_path",
			label:     fmt.Sprintf("beta = %.3f", p.Beta),
			typ:       "structural_relation",
			latentMean: blank, latentSD: blank, skew: blank,
			loadingMean: blank, scaleMin: blank, scaleMax: blank,
		})
	}

	n := len(rows)
	variable := make([]string, n)
	construct := make([]string, n)
	label := make([]string, n)
	dist := make([]string, n)
	typ := make([]string, n)
	latentMean := make([]float64, n)
	latentSD := make([]float64, n)
	skew := make([]float64, n)
	loadingMean := make([]float64, n)
	scaleMin := make([]float64, n)
	scaleMax := make([]float64, n)
	for i, r := range rows {
		variable[i] = r.variable
		construct[i] = r.construct
		label[i] = r.label
		dist[i] = r.dist
		typ[i] = r.typ
		latentMean[i] = r.latentMean
		latentSD[i] = r.latentSD
		skew[i] = r.skew
		loadingMean[i] = r.loadingMean
		scaleMin[i] = r.scaleMin
		scaleMax[i] = r.scaleMax
	}

	cb := dataset.New(n)
	_ = cb.AddCategorical("variable", variable)
	_ = cb.AddCategorical("construct", construct)
	_ = cb.AddCategorical("item_label", label)
	_ = cb.AddCategorical("distribution", dist)
	_ = cb.AddNumeric("latent_mean", latentMean)
	_ = cb.AddNumeric("latent_sd", latentSD)
	_ = cb.AddNumeric("skew", skew)
	_ = cb.AddNumeric("loading_target_mean", loadingMean)
	_ = cb.AddNumeric("scale_min", scaleMin)
	_ = cb.AddNumeric("scale_max", scaleMax)
	_ = cb.AddCategorical("type", typ)
	return cb
}
