// internal/recommend/seeds.go
package recommend

import "fmt"

// SeedPlace pairs a seed attraction with the weight its similarity column carries.
type SeedPlace struct {
	ID     string  `json:"id" mapstructure:"id"`
	Weight float64 `json:"weight" mapstructure:"weight"`
}

// DefaultSeedPlaces is the fixed list users order, indexed by 1-based rank.
var DefaultSeedPlaces = []SeedPlace{
	{ID: "CNTS_200000000010956", Weight: 2.0},
	{ID: "CONT_000000000500103", Weight: 1.5},
	{ID: "CNTS_000000000022353", Weight: 0.8},
	{ID: "CNTS_000000000022082", Weight: 0.5},
	{ID: "CNTS_000000000022063", Weight: 0.3},
}

// OrderSeeds applies a 1-based permutation to seeds. Rank k at input position i moves
// seed k, together with its own weight, to position i.
func OrderSeeds(seeds []SeedPlace, order []int) ([]SeedPlace, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: no seed places configured", ErrInvalidSelection)
	}
	if len(order) != len(seeds) {
		return nil, fmt.Errorf("%w: expected %d ranks, got %d", ErrInvalidSelection, len(seeds), len(order))
	}

	seen := make([]bool, len(seeds))
	ordered := make([]SeedPlace, 0, len(order))
	for pos, rank := range order {
		if rank < 1 || rank > len(seeds) {
			return nil, fmt.Errorf("%w: rank %d at position %d is outside 1..%d", ErrInvalidSelection, rank, pos+1, len(seeds))
		}
		if seen[rank-1] {
			return nil, fmt.Errorf("%w: rank %d appears more than once", ErrInvalidSelection, rank)
		}
		seen[rank-1] = true
		ordered = append(ordered, seeds[rank-1])
	}
	return ordered, nil
}

func seedIDs(seeds []SeedPlace) map[string]struct{} {
	ids := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		ids[s.ID] = struct{}{}
	}
	return ids
}
