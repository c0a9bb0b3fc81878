package predictor

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Model is a fitted regression pipeline: one output per input row.
type Model interface {
	Predict(rows [][]any) ([]float64, error)
}

const pipelineKind = "linear_pipeline"

// Feature types understood by LinearPipeline.
const (
	FeatureNumeric     = "numeric"
	FeatureCategorical = "categorical"
)

// FeatureSpec describes one input column of the pipeline.
type FeatureSpec struct {
	Name       string             `json:"name"`
	Type       string             `json:"type"`
	Coef       float64            `json:"coef,omitempty"`
	Categories map[string]float64 `json:"categories,omitempty"`
}

type artifact struct {
	Kind      string        `json:"kind"`
	Intercept float64       `json:"intercept"`
	Features  []FeatureSpec `json:"features"`
}

// LinearPipeline is a one-hot encoder followed by a linear regressor.
// Categories it was not fitted on encode to all zeros.
type LinearPipeline struct {
	intercept float64
	features  []FeatureSpec
	weights   []float64
	offsets   []int
	slots     []map[string]int
}

// DecodePipeline reads a pipeline artifact.
func DecodePipeline(r io.Reader) (*LinearPipeline, error) {
	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.Wrap(err, "decode artifact")
	}
	if a.Kind != pipelineKind {
		return nil, errors.Errorf("unsupported artifact kind %q", a.Kind)
	}
	if len(a.Features) == 0 {
		return nil, errors.New("artifact has no features")
	}
	return newLinearPipeline(a.Intercept, a.Features)
}

func newLinearPipeline(intercept float64, features []FeatureSpec) (*LinearPipeline, error) {
	p := &LinearPipeline{
		intercept: intercept,
		features:  features,
		offsets:   make([]int, len(features)),
		slots:     make([]map[string]int, len(features)),
	}

	for i, f := range features {
		p.offsets[i] = len(p.weights)
		switch f.Type {
		case FeatureNumeric:
			p.weights = append(p.weights, f.Coef)
		case FeatureCategorical:
			if len(f.Categories) == 0 {
				return nil, errors.Errorf("feature %q has no categories", f.Name)
			}
			keys := make([]string, 0, len(f.Categories))
			for k := range f.Categories {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			p.slots[i] = make(map[string]int, len(keys))
			for j, k := range keys {
				p.slots[i][k] = j
				p.weights = append(p.weights, f.Categories[k])
			}
		default:
			return nil, errors.Errorf("feature %q has unknown type %q", f.Name, f.Type)
		}
	}
	return p, nil
}

// Predict encodes each row and applies the linear model.
func (p *LinearPipeline) Predict(rows [][]any) ([]float64, error) {
	out := make([]float64, len(rows))
	for r, row := range rows {
		x, err := p.encode(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", r)
		}
		out[r] = p.intercept + floats.Dot(x, p.weights)
	}
	return out, nil
}

func (p *LinearPipeline) encode(row []any) ([]float64, error) {
	if len(row) != len(p.features) {
		return nil, fmt.Errorf("expected %d features, got %d", len(p.features), len(row))
	}

	x := make([]float64, len(p.weights))
	for i, f := range p.features {
		switch f.Type {
		case FeatureNumeric:
			v, err := toFloat(row[i])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			x[p.offsets[i]] = v
		case FeatureCategorical:
			if j, ok := p.slots[i][fmt.Sprint(row[i])]; ok {
				x[p.offsets[i]+j] = 1
			}
		}
	}
	return x, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("not numeric: %v", v)
}
