// internal/recommend/config.go
package recommend

// DefaultCategoryBoost is added to the raw similarity of preferred categories.
const DefaultCategoryBoost = 2.0

type Config struct {
	Seeds              []SeedPlace
	CategoryBoost      float64
	NormalizePredicted bool
	MaxItems           int
}

func DefaultConfig() *Config {
	return &Config{
		Seeds:         append([]SeedPlace(nil), DefaultSeedPlaces...),
		CategoryBoost: DefaultCategoryBoost,
	}
}
