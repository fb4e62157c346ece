// internal/models/user.go
package models

// UserFeatures holds the demographic and travel-style attributes scored by the model.
type UserFeatures struct {
	Gender       int `json:"gender"`
	AgeGroup     int `json:"ageGroup"`
	TravelStyle1 int `json:"travelStyle1"`
	TravelStyle2 int `json:"travelStyle2"`
	TravelStyle3 int `json:"travelStyle3"`
	TravelStyle4 int `json:"travelStyle4"`
}
