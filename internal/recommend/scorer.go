// internal/recommend/scorer.go
package recommend

import (
	"context"
	"fmt"
	"sort"

	"trip-recommender/internal/models"
)

// Scorer is the predictive model: one affinity score per feature row.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Schema() []string
	Score(ctx context.Context, table *FeatureTable) ([]float64, error)
}

// PredictedScore is the model-side score of one visit area.
type PredictedScore struct {
	Code  int64
	Name  string
	Score float64
}

// VisitAreaNames maps encoded visit-area codes to display names. A later row for the
// same code replaces an earlier one.
func VisitAreaNames(areas []models.VisitArea) map[int64]string {
	names := make(map[int64]string, len(areas))
	for _, a := range areas {
		names[a.Code] = a.Name
	}
	return names
}

// PredictVisitAreas scores table with scorer and attaches display names. Rows whose code
// has no name are dropped. The result is sorted by score, highest first.
func PredictVisitAreas(ctx context.Context, scorer Scorer, table *FeatureTable, areas []models.VisitArea) ([]PredictedScore, error) {
	if !sameColumns(scorer.Schema(), table.Columns) {
		return nil, fmt.Errorf("%w: model expects %v, candidates have %v", ErrSchemaMismatch, scorer.Schema(), table.Columns)
	}
	if len(table.Rows) == 0 {
		return []PredictedScore{}, nil
	}

	scores, err := scorer.Score(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}
	if len(scores) != len(table.Rows) {
		return nil, fmt.Errorf("%w: model returned %d scores for %d rows", ErrSchemaMismatch, len(scores), len(table.Rows))
	}

	names := VisitAreaNames(areas)
	out := make([]PredictedScore, 0, len(scores))
	for i, row := range table.Rows {
		name := names[row.VisitAreaCode]
		if name == "" {
			continue
		}
		out = append(out, PredictedScore{Code: row.VisitAreaCode, Name: name, Score: scores[i]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
