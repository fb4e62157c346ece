// internal/recommend/rank.go
package recommend

import (
	"sort"

	"trip-recommender/internal/models"
)

// RankAndFilter removes the seed places and sorts the rest by score, highest first.
// Rows without an ID are matched against the seeds' catalog names. Ties keep their
// input order. A positive limit truncates the result.
func RankAndFilter(rows []models.Recommendation, seeds []SeedPlace, catalog []models.Attraction, limit int) []models.Recommendation {
	ids := seedIDs(seeds)
	names := make(map[string]struct{}, len(seeds))
	for _, a := range catalog {
		if _, ok := ids[a.ID]; ok {
			names[a.Name] = struct{}{}
		}
	}

	ranked := make([]models.Recommendation, 0, len(rows))
	for _, r := range rows {
		if _, ok := ids[r.ID]; ok && r.ID != "" {
			continue
		}
		if r.ID == "" {
			if _, ok := names[r.Name]; ok {
				continue
			}
		}
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
