// internal/models/recommendation.go
package models

// Recommendation is one ranked output row. ID is empty for destinations known only to
// the predictive model; Similarity and Predicted are nil when that signal was absent.
type Recommendation struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Category   string            `json:"category,omitempty"`
	Score      float64           `json:"score"`
	Similarity *float64          `json:"similarity,omitempty"`
	Predicted  *float64          `json:"predicted,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}
