// internal/models/query_types.go
package models

// ReferenceTable names a pre-built table the recommender reads.
type ReferenceTable string

const (
	ReferenceTableSimilarity ReferenceTable = "attraction_similarity"
	ReferenceTableCatalog    ReferenceTable = "attractions"
	ReferenceTableVisitAreas ReferenceTable = "master_visit_areas"
)
