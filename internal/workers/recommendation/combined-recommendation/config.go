// internal/workers/recommendation/combined-recommendation/config.go
package combinedrecommendation

import (
	"time"

	"trip-recommender/internal/common/config"
	"trip-recommender/internal/recommend"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	Engine   *recommend.Config
}

// LoadConfig derives the worker configuration from the application config. Unset
// recommendation settings fall back to recommend.DefaultConfig.
func LoadConfig(cfg *config.Config) *Config {
	engine := recommend.DefaultConfig()
	out := &Config{
		Timeout:  30 * time.Second,
		CacheTTL: 10 * time.Minute,
		Engine:   engine,
	}
	if cfg == nil {
		return out
	}

	if w, ok := cfg.Workers[TaskType]; ok && w.Timeout > 0 {
		out.Timeout = config.GetDuration(w.Timeout)
	}
	if cfg.Recommendation.CacheTTL > 0 {
		out.CacheTTL = time.Duration(cfg.Recommendation.CacheTTL) * time.Second
	}

	if len(cfg.Recommendation.SeedPlaces) > 0 {
		engine.Seeds = make([]recommend.SeedPlace, len(cfg.Recommendation.SeedPlaces))
		for i, s := range cfg.Recommendation.SeedPlaces {
			engine.Seeds[i] = recommend.SeedPlace{ID: s.ID, Weight: s.Weight}
		}
	}
	if cfg.Recommendation.CategoryBoost != nil {
		engine.CategoryBoost = *cfg.Recommendation.CategoryBoost
	}
	engine.MaxItems = cfg.Recommendation.MaxItems
	engine.NormalizePredicted = cfg.Model.NormalizePredicted

	return out
}
