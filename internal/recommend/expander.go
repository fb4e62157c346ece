// internal/recommend/expander.go
package recommend

import "trip-recommender/internal/models"

// Model input columns, in the order the predictive model was trained with.
const (
	ColumnVisitAreaCode = "VISIT_AREA_NM_encoded"
	ColumnGender        = "GENDER"
	ColumnAgeGroup      = "AGE_GRP"
	ColumnTravelStyle1  = "TRAVEL_STYL_1"
	ColumnTravelStyle2  = "TRAVEL_STYL_2"
	ColumnTravelStyle3  = "TRAVEL_STYL_3"
	ColumnTravelStyle4  = "TRAVEL_STYL_4"
)

// FeatureSchema is the column order of every FeatureTable.
var FeatureSchema = []string{
	ColumnVisitAreaCode,
	ColumnGender,
	ColumnAgeGroup,
	ColumnTravelStyle1,
	ColumnTravelStyle2,
	ColumnTravelStyle3,
	ColumnTravelStyle4,
}

// FeatureRow is one (user attributes, visit area) pair to be scored.
type FeatureRow struct {
	VisitAreaCode int64
	models.UserFeatures
}

// Values returns the row in FeatureSchema order.
func (r FeatureRow) Values() []float64 {
	return []float64{
		float64(r.VisitAreaCode),
		float64(r.Gender),
		float64(r.AgeGroup),
		float64(r.TravelStyle1),
		float64(r.TravelStyle2),
		float64(r.TravelStyle3),
		float64(r.TravelStyle4),
	}
}

// Value returns a single column of the row, and false for an unknown column.
func (r FeatureRow) Value(column string) (float64, bool) {
	for i, c := range FeatureSchema {
		if c == column {
			return r.Values()[i], true
		}
	}
	return 0, false
}

// FeatureTable is the model input: a fixed column list and its rows.
type FeatureTable struct {
	Columns []string
	Rows    []FeatureRow
}

// Matrix returns the rows as a dense value matrix.
func (t *FeatureTable) Matrix() [][]float64 {
	out := make([][]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Values()
	}
	return out
}

// RebucketTravelStyle3 collapses the five-point travel style 3 scale into three buckets.
// Values outside 1..5 are returned unchanged.
func RebucketTravelStyle3(v int) int {
	switch v {
	case 1, 2:
		return 1
	case 3:
		return 2
	case 4, 5:
		return 3
	default:
		return v
	}
}

// ExpandCandidates builds the users x visit areas cross product, user-major, with
// duplicate rows removed. Visit-area codes are deduplicated in first-seen order.
func ExpandCandidates(users []models.UserFeatures, areas []models.VisitArea) *FeatureTable {
	codes := make([]int64, 0, len(areas))
	seenCode := make(map[int64]struct{}, len(areas))
	for _, a := range areas {
		if _, ok := seenCode[a.Code]; ok {
			continue
		}
		seenCode[a.Code] = struct{}{}
		codes = append(codes, a.Code)
	}

	table := &FeatureTable{
		Columns: append([]string(nil), FeatureSchema...),
		Rows:    make([]FeatureRow, 0, len(users)*len(codes)),
	}
	seenRow := make(map[FeatureRow]struct{}, len(users)*len(codes))
	for _, u := range users {
		u.TravelStyle3 = RebucketTravelStyle3(u.TravelStyle3)
		for _, code := range codes {
			row := FeatureRow{VisitAreaCode: code, UserFeatures: u}
			if _, dup := seenRow[row]; dup {
				continue
			}
			seenRow[row] = struct{}{}
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}
