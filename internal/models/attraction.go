// internal/models/attraction.go
package models

// Attraction is one catalog entry eligible for recommendation.
type Attraction struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// SimilarityMatrix maps a row attraction ID to its similarity with each column attraction ID.
// Rows and columns share the same ID space; symmetry is assumed upstream.
type SimilarityMatrix map[string]map[string]float64

// Value returns the similarity between row and col, or 0 when the cell is absent.
func (m SimilarityMatrix) Value(row, col string) float64 {
	if cols, ok := m[row]; ok {
		return cols[col]
	}
	return 0
}
