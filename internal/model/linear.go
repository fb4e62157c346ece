package model

import (
	"context"
	"fmt"
	"strconv"

	"trip-recommender/internal/recommend"
)

// LinearModel scores rows in process: intercept + sum(coef * feature) + area effect.
type LinearModel struct {
	name         string
	features     []string
	intercept    float64
	coefficients map[string]float64
	areaEffects  map[int64]float64
}

func NewLinearModel(a *Artifact) *LinearModel {
	effects := make(map[int64]float64, len(a.AreaEffects))
	for k, v := range a.AreaEffects {
		code, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		effects[code] = v
	}

	return &LinearModel{
		name:         displayName(a),
		features:     append([]string(nil), a.Features...),
		intercept:    a.Intercept,
		coefficients: a.Coefficients,
		areaEffects:  effects,
	}
}

func (m *LinearModel) Name() string { return m.name }

func (m *LinearModel) Schema() []string {
	return append([]string(nil), m.features...)
}

func (m *LinearModel) Score(ctx context.Context, table *recommend.FeatureTable) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]float64, len(table.Rows))
	for i, row := range table.Rows {
		score := m.intercept
		for _, f := range m.features {
			v, ok := row.Value(f)
			if !ok {
				return nil, fmt.Errorf("%w: row has no column %q", recommend.ErrSchemaMismatch, f)
			}
			score += m.coefficients[f] * v
		}
		score += m.areaEffects[row.VisitAreaCode]
		out[i] = score
	}
	return out, nil
}
