// internal/recommend/similarity.go
package recommend

import (
	"fmt"

	"trip-recommender/internal/models"
)

// SimilarityScore is the similarity-side score of one catalog attraction.
type SimilarityScore struct {
	Attraction models.Attraction
	Score      float64
}

// Intersect restricts the matrix rows and the catalog to the IDs present in both.
// The catalog order is kept; a repeated catalog ID keeps its first entry.
// Neither input is modified.
func Intersect(matrix models.SimilarityMatrix, catalog []models.Attraction) (models.SimilarityMatrix, []models.Attraction) {
	common := make(models.SimilarityMatrix, len(catalog))
	kept := make([]models.Attraction, 0, len(catalog))
	for _, a := range catalog {
		row, ok := matrix[a.ID]
		if !ok {
			continue
		}
		if _, dup := common[a.ID]; dup {
			continue
		}
		common[a.ID] = row
		kept = append(kept, a)
	}
	return common, kept
}

// AggregateSimilarity computes, for every candidate, the weighted sum of its similarity
// to each ordered seed. Every seed must be a row of the (intersected) matrix.
func AggregateSimilarity(matrix models.SimilarityMatrix, candidates []models.Attraction, ordered []SeedPlace) ([]SimilarityScore, error) {
	for _, seed := range ordered {
		if _, ok := matrix[seed.ID]; !ok {
			return nil, fmt.Errorf("%w: seed place %s is not in both the similarity matrix and the catalog", ErrInvalidSelection, seed.ID)
		}
	}

	scores := make([]SimilarityScore, len(candidates))
	for i, c := range candidates {
		var total float64
		for _, seed := range ordered {
			total += seed.Weight * matrix.Value(c.ID, seed.ID)
		}
		scores[i] = SimilarityScore{Attraction: c, Score: total}
	}
	return scores, nil
}

// ApplyPreferenceBoost adds bonus to every score whose category is preferred.
// It returns a new slice.
func ApplyPreferenceBoost(scores []SimilarityScore, preferred []string, bonus float64) []SimilarityScore {
	prefs := make(map[string]struct{}, len(preferred))
	for _, p := range preferred {
		prefs[p] = struct{}{}
	}

	out := make([]SimilarityScore, len(scores))
	for i, s := range scores {
		out[i] = s
		if _, ok := prefs[s.Attraction.Category]; ok {
			out[i].Score += bonus
		}
	}
	return out
}
