// internal/recommend/fusion.go
package recommend

import (
	"maps"

	"trip-recommender/internal/models"
)

// MinMaxNormalize scales values into [0,1]. When every value is equal the result is all zeros.
func MinMaxNormalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}

// NormalizeSimilarity returns a copy of scores min-max scaled over the whole set.
func NormalizeSimilarity(scores []SimilarityScore) []SimilarityScore {
	raw := make([]float64, len(scores))
	for i, s := range scores {
		raw[i] = s.Score
	}
	scaled := MinMaxNormalize(raw)

	out := make([]SimilarityScore, len(scores))
	for i, s := range scores {
		out[i] = s
		out[i].Score = scaled[i]
	}
	return out
}

// NormalizePredicted returns a copy of scores min-max scaled over the whole set.
func NormalizePredicted(scores []PredictedScore) []PredictedScore {
	raw := make([]float64, len(scores))
	for i, s := range scores {
		raw[i] = s.Score
	}
	scaled := MinMaxNormalize(raw)

	out := make([]PredictedScore, len(scores))
	for i, s := range scores {
		out[i] = s
		out[i].Score = scaled[i]
	}
	return out
}

// Blend averages the two signals, or returns the one that is present.
func Blend(predicted, similarity *float64) float64 {
	switch {
	case predicted != nil && similarity != nil:
		return *predicted/2 + *similarity/2
	case predicted != nil:
		return *predicted
	case similarity != nil:
		return *similarity
	default:
		return 0
	}
}

// FuseScores full-outer-joins the predicted and similarity tables on display name and
// blends each joined row. Rows appear in predicted order, each followed by its matches,
// then similarity rows no prediction matched, in their original order.
func FuseScores(predicted []PredictedScore, similarity []SimilarityScore) []models.Recommendation {
	byName := make(map[string][]int, len(similarity))
	for i, s := range similarity {
		byName[s.Attraction.Name] = append(byName[s.Attraction.Name], i)
	}
	matched := make([]bool, len(similarity))

	out := make([]models.Recommendation, 0, len(predicted)+len(similarity))
	for _, p := range predicted {
		idx := byName[p.Name]
		if len(idx) == 0 {
			out = append(out, models.Recommendation{
				Name:      p.Name,
				Score:     Blend(&p.Score, nil),
				Predicted: &p.Score,
			})
			continue
		}
		for _, i := range idx {
			matched[i] = true
			out = append(out, joinedRow(&p.Score, similarity[i]))
		}
	}
	for i, s := range similarity {
		if !matched[i] {
			out = append(out, joinedRow(nil, s))
		}
	}
	return out
}

func joinedRow(predicted *float64, s SimilarityScore) models.Recommendation {
	sim := s.Score
	return models.Recommendation{
		ID:         s.Attraction.ID,
		Name:       s.Attraction.Name,
		Category:   s.Attraction.Category,
		Score:      Blend(predicted, &sim),
		Similarity: &sim,
		Predicted:  predicted,
		Fields:     maps.Clone(s.Attraction.Fields),
	}
}
