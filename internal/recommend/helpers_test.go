package recommend

import (
	"context"
	"sync/atomic"

	"trip-recommender/internal/models"
)

// stubScorer scores each row from a per-code table.
type stubScorer struct {
	schema []string
	byCode map[int64]float64
	err    error
	calls  atomic.Int32
}

func newStubScorer(byCode map[int64]float64) *stubScorer {
	return &stubScorer{schema: append([]string(nil), FeatureSchema...), byCode: byCode}
}

func (s *stubScorer) Name() string     { return "stub" }
func (s *stubScorer) Schema() []string { return s.schema }

func (s *stubScorer) Score(ctx context.Context, table *FeatureTable) ([]float64, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(table.Rows))
	for i, r := range table.Rows {
		out[i] = s.byCode[r.VisitAreaCode]
	}
	return out, nil
}

func seedID(rank int) string { return DefaultSeedPlaces[rank-1].ID }

// fixtureDataset has the five default seeds plus Alpha (market) and Beta (museum).
// Alpha is similar to seeds 1 and 3, Beta to seed 2.
func fixtureDataset() *Dataset {
	matrix := models.SimilarityMatrix{
		"A": {seedID(1): 0.5, seedID(3): 1.0},
		"B": {seedID(2): 0.4},
	}
	catalog := []models.Attraction{
		{ID: "A", Name: "Alpha", Category: "market", Fields: map[string]string{"address": "1 Market St"}},
		{ID: "B", Name: "Beta", Category: "museum"},
	}
	for i := 1; i <= 5; i++ {
		id := seedID(i)
		matrix[id] = map[string]float64{id: 1}
		catalog = append(catalog, models.Attraction{ID: id, Name: "Seed" + string(rune('0'+i)), Category: "palace"})
	}

	return &Dataset{
		Similarity: matrix,
		Catalog:    catalog,
		VisitAreas: []models.VisitArea{
			{Code: 1, Name: "Alpha"},
			{Code: 2, Name: "Gamma"},
			{Code: 3, Name: "Seed1"},
			{Code: 4, Name: "Seed2"},
			{Code: 5, Name: ""},
		},
	}
}

func fixtureScores() map[int64]float64 {
	return map[int64]float64{1: 0.4, 2: 0.9, 3: 0.95, 4: 0.99, 5: 0.5}
}

func fptr(v float64) *float64 { return &v }
