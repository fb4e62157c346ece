// Package model loads the predictive model that scores (user, visit area) rows.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"trip-recommender/internal/common/logger"
	"trip-recommender/internal/recommend"
)

var (
	ErrMissingArtifact  = errors.New("MODEL_ARTIFACT_MISSING")
	ErrModelUnavailable = errors.New("MODEL_INVOCATION_FAILED")
	ErrModelTimeout     = errors.New("MODEL_TIMEOUT")
)

const (
	TypeLinear = "linear"
	TypeRemote = "remote"
)

// Artifact is the on-disk description of a trained model.
type Artifact struct {
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	Type         string             `json:"type"`
	Features     []string           `json:"features"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	// AreaEffects is keyed by the decimal visit-area code.
	AreaEffects map[string]float64 `json:"areaEffects"`
	Endpoint    string             `json:"endpoint"`
}

// Options tune remote models. Linear models ignore them.
type Options struct {
	Timeout time.Duration
	Breaker BreakerSettings
	Logger  logger.Logger
}

type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	OpenTimeout      time.Duration
	FailureThreshold uint32
}

// ReadArtifact parses and validates the artifact at path. Every failure wraps
// ErrMissingArtifact.
func ReadArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingArtifact, err)
	}

	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrMissingArtifact, path, err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingArtifact, path, err)
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if len(a.Features) == 0 {
		return errors.New("features are empty")
	}
	features := make(map[string]struct{}, len(a.Features))
	for _, f := range a.Features {
		if _, dup := features[f]; dup {
			return fmt.Errorf("feature %q is listed twice", f)
		}
		features[f] = struct{}{}
	}

	switch a.Type {
	case TypeLinear:
		for f := range a.Coefficients {
			if _, ok := features[f]; !ok {
				return fmt.Errorf("coefficient for unknown feature %q", f)
			}
		}
		for code := range a.AreaEffects {
			if _, err := strconv.ParseInt(code, 10, 64); err != nil {
				return fmt.Errorf("area effect key %q is not a visit-area code", code)
			}
		}
	case TypeRemote:
		if a.Endpoint == "" {
			return errors.New("remote model has no endpoint")
		}
	default:
		return fmt.Errorf("unknown model type %q", a.Type)
	}
	return nil
}

// Load reads the artifact at path and builds its scorer.
func Load(path string, opts Options) (recommend.Scorer, error) {
	a, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}

	switch a.Type {
	case TypeRemote:
		return NewRemoteModel(a, opts), nil
	default:
		return NewLinearModel(a), nil
	}
}

func displayName(a *Artifact) string {
	if a.Version == "" {
		return a.Name
	}
	return a.Name + "@" + a.Version
}
