// internal/recommend/engine.go
package recommend

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"trip-recommender/internal/common/logger"
	"trip-recommender/internal/common/metrics"
	"trip-recommender/internal/models"
)

const tracerName = "trip-recommender/recommend"

// Dataset holds the pre-built reference tables a request is scored against.
type Dataset struct {
	Similarity models.SimilarityMatrix `json:"similarity"`
	Catalog    []models.Attraction     `json:"catalog"`
	VisitAreas []models.VisitArea      `json:"visitAreas"`
}

type Request struct {
	Order               []int
	PreferredCategories []string
	Users               []models.UserFeatures
	// MaxItems overrides Config.MaxItems when positive.
	MaxItems int
}

type Result struct {
	Recommendations []models.Recommendation
	CandidateCount  int
	PredictedCount  int
}

// Engine fuses content similarity and model predictions into one ranking.
// It holds no per-request state and may be shared between goroutines.
type Engine struct {
	config *Config
	scorer Scorer
	logger logger.Logger
}

func NewEngine(config *Config, scorer Scorer, log logger.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		scorer: scorer,
		logger: log.WithFields(map[string]interface{}{"component": "recommend"}),
	}
}

func (e *Engine) Recommend(ctx context.Context, data *Dataset, req *Request) (*Result, error) {
	if data == nil || req == nil {
		return nil, fmt.Errorf("%w: dataset and request are required", ErrInvalidSelection)
	}

	ordered, err := OrderSeeds(e.config.Seeds, req.Order)
	if err != nil {
		return nil, err
	}

	matrix, catalog := Intersect(data.Similarity, data.Catalog)
	metrics.RecommendationCandidates.WithLabelValues("intersected").Observe(float64(len(catalog)))
	if len(catalog) == 0 {
		metrics.RecommendationEmpty.Inc()
		e.logger.Warn("similarity matrix and catalog share no attractions", map[string]interface{}{
			"matrixRows":  len(data.Similarity),
			"catalogRows": len(data.Catalog),
		})
		return &Result{Recommendations: []models.Recommendation{}}, nil
	}

	similarity, err := AggregateSimilarity(matrix, catalog, ordered)
	if err != nil {
		return nil, err
	}
	similarity = ApplyPreferenceBoost(similarity, req.PreferredCategories, e.config.CategoryBoost)
	similarity = NormalizeSimilarity(similarity)

	table := ExpandCandidates(req.Users, data.VisitAreas)
	metrics.RecommendationCandidates.WithLabelValues("expanded").Observe(float64(len(table.Rows)))

	predicted, err := e.predict(ctx, table, data.VisitAreas)
	if err != nil {
		return nil, err
	}
	if e.config.NormalizePredicted {
		predicted = NormalizePredicted(predicted)
	} else if lo, hi, ok := outOfUnitRange(predicted); ok {
		e.logger.Warn("predicted scores fall outside [0,1]; blend is skewed toward the model", map[string]interface{}{
			"min": lo,
			"max": hi,
		})
	}

	limit := e.config.MaxItems
	if req.MaxItems > 0 {
		limit = req.MaxItems
	}
	ranked := RankAndFilter(FuseScores(predicted, similarity), ordered, catalog, limit)
	metrics.RecommendationCandidates.WithLabelValues("ranked").Observe(float64(len(ranked)))

	e.logger.Info("recommendation completed", map[string]interface{}{
		"candidates": len(catalog),
		"predicted":  len(predicted),
		"returned":   len(ranked),
	})

	return &Result{
		Recommendations: ranked,
		CandidateCount:  len(catalog),
		PredictedCount:  len(predicted),
	}, nil
}

func (e *Engine) predict(ctx context.Context, table *FeatureTable, areas []models.VisitArea) ([]PredictedScore, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "recommend.predict",
		trace.WithAttributes(attribute.Int("rows", len(table.Rows))))
	defer span.End()

	start := time.Now()
	predicted, err := PredictVisitAreas(ctx, e.scorer, table, areas)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.ModelScoreDuration.WithLabelValues(scorerName(e.scorer), status).Observe(time.Since(start).Seconds())

	if err != nil {
		e.logger.Error("model scoring failed", map[string]interface{}{
			"rows":  len(table.Rows),
			"error": err.Error(),
		})
		return nil, err
	}
	return predicted, nil
}

func outOfUnitRange(scores []PredictedScore) (lo, hi float64, out bool) {
	if len(scores) == 0 {
		return 0, 0, false
	}
	lo, hi = scores[0].Score, scores[0].Score
	for _, s := range scores[1:] {
		if s.Score < lo {
			lo = s.Score
		}
		if s.Score > hi {
			hi = s.Score
		}
	}
	return lo, hi, lo < 0 || hi > 1
}

func scorerName(s Scorer) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unnamed"
}
