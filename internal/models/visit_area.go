// internal/models/visit_area.go
package models

// VisitArea is a row of the master visit-area table the predictive model was trained on.
// Name is empty when the encoded code has no display-name mapping.
type VisitArea struct {
	Code int64  `json:"code"`
	Name string `json:"name"`
}
