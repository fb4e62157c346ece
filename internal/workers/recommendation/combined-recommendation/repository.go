// internal/workers/recommendation/combined-recommendation/repository.go
package combinedrecommendation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-recommender/internal/common/logger"
	"trip-recommender/internal/common/metrics"
	"trip-recommender/internal/models"
	"trip-recommender/internal/recommend"
)

// CacheKey holds the whole reference dataset as one JSON document.
const CacheKey = "reco:reference:v1"

const (
	querySimilarity = `SELECT tourist_id, seed_id, similarity FROM attraction_similarity`
	queryCatalog    = `SELECT tourist_id, name, category, COALESCE(address, ''), COALESCE(description, '') FROM attractions ORDER BY tourist_id`
	queryVisitAreas = `SELECT visit_area_code, visit_area_name FROM master_visit_areas ORDER BY visit_area_code`
)

var ErrReferenceDataLoad = errors.New("REFERENCE_DATA_LOAD_FAILED")

// ReferenceError names the table whose load failed.
type ReferenceError struct {
	Table models.ReferenceTable
	Err   error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: load %s: %v", ErrReferenceDataLoad, e.Table, e.Err)
}

func (e *ReferenceError) Unwrap() []error {
	return []error{ErrReferenceDataLoad, e.Err}
}

// ReferenceSource supplies the dataset a request is scored against.
type ReferenceSource interface {
	Load(ctx context.Context) (*recommend.Dataset, error)
}

// Repository reads the reference tables from Postgres and caches them in Redis.
// A nil redis client disables caching.
type Repository struct {
	db     *sql.DB
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRepository(db *sql.DB, redisClient *redis.Client, ttl time.Duration, log logger.Logger) *Repository {
	return &Repository{
		db:     db,
		redis:  redisClient,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "reference-repository"}),
	}
}

func (r *Repository) Load(ctx context.Context) (*recommend.Dataset, error) {
	if data, ok := r.fromCache(ctx); ok {
		return data, nil
	}

	data, err := r.fromDatabase(ctx)
	if err != nil {
		return nil, err
	}

	r.storeCache(ctx, data)
	return data, nil
}

// Invalidate drops the cached dataset so the next Load reads Postgres.
func (r *Repository) Invalidate(ctx context.Context) error {
	if r.redis == nil {
		return nil
	}
	return r.redis.Del(ctx, CacheKey).Err()
}

func (r *Repository) fromCache(ctx context.Context) (*recommend.Dataset, bool) {
	if r.redis == nil {
		return nil, false
	}

	val, err := r.redis.Get(ctx, CacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.ReferenceCacheLookups.WithLabelValues("miss").Inc()
		} else {
			metrics.ReferenceCacheLookups.WithLabelValues("error").Inc()
			r.logger.Warn("reference cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var data recommend.Dataset
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		metrics.ReferenceCacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("reference cache entry is corrupt", map[string]interface{}{"error": err.Error()})
		return nil, false
	}

	metrics.ReferenceCacheLookups.WithLabelValues("hit").Inc()
	return &data, true
}

func (r *Repository) storeCache(ctx context.Context, data *recommend.Dataset) {
	if r.redis == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		r.logger.Warn("reference dataset could not be encoded", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := r.redis.Set(ctx, CacheKey, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("reference cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (r *Repository) fromDatabase(ctx context.Context) (*recommend.Dataset, error) {
	matrix, err := r.loadSimilarity(ctx)
	if err != nil {
		return nil, &ReferenceError{Table: models.ReferenceTableSimilarity, Err: err}
	}
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, &ReferenceError{Table: models.ReferenceTableCatalog, Err: err}
	}
	areas, err := r.loadVisitAreas(ctx)
	if err != nil {
		return nil, &ReferenceError{Table: models.ReferenceTableVisitAreas, Err: err}
	}

	r.logger.Info("reference data loaded", map[string]interface{}{
		"similarityRows": len(matrix),
		"catalogRows":    len(catalog),
		"visitAreas":     len(areas),
	})

	return &recommend.Dataset{
		Similarity: matrix,
		Catalog:    catalog,
		VisitAreas: areas,
	}, nil
}

func (r *Repository) loadSimilarity(ctx context.Context) (models.SimilarityMatrix, error) {
	rows, err := r.db.QueryContext(ctx, querySimilarity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matrix := make(models.SimilarityMatrix)
	for rows.Next() {
		var (
			id, seed string
			value    float64
		)
		if err := rows.Scan(&id, &seed, &value); err != nil {
			return nil, err
		}
		row, ok := matrix[id]
		if !ok {
			row = make(map[string]float64)
			matrix[id] = row
		}
		row[seed] = value
	}
	return matrix, rows.Err()
}

func (r *Repository) loadCatalog(ctx context.Context) ([]models.Attraction, error) {
	rows, err := r.db.QueryContext(ctx, queryCatalog)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var catalog []models.Attraction
	for rows.Next() {
		var (
			a                    models.Attraction
			address, description string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &address, &description); err != nil {
			return nil, err
		}
		a.Fields = map[string]string{}
		if address != "" {
			a.Fields["address"] = address
		}
		if description != "" {
			a.Fields["description"] = description
		}
		if len(a.Fields) == 0 {
			a.Fields = nil
		}
		catalog = append(catalog, a)
	}
	return catalog, rows.Err()
}

func (r *Repository) loadVisitAreas(ctx context.Context) ([]models.VisitArea, error) {
	rows, err := r.db.QueryContext(ctx, queryVisitAreas)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []models.VisitArea
	for rows.Next() {
		var (
			code int64
			name sql.NullString
		)
		if err := rows.Scan(&code, &name); err != nil {
			return nil, err
		}
		areas = append(areas, models.VisitArea{Code: code, Name: name.String})
	}
	return areas, rows.Err()
}
