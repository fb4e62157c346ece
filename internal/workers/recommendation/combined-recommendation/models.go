// internal/workers/recommendation/combined-recommendation/models.go
package combinedrecommendation

import "trip-recommender/internal/models"

type Input struct {
	InputOrder          []int                 `json:"inputOrder"`
	PreferredCategories []string              `json:"preferredCategories,omitempty"`
	Users               []models.UserFeatures `json:"users"`
	MaxItems            int                   `json:"maxItems,omitempty"`
}

type Output struct {
	RequestID       string                  `json:"requestId"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Count           int                     `json:"count"`
}
