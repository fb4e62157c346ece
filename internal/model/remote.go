package model

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"trip-recommender/internal/common/http"
	"trip-recommender/internal/common/logger"
	"trip-recommender/internal/common/metrics"
	"trip-recommender/internal/recommend"
)

type predictRequest struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// RemoteModel forwards rows to a model server behind a circuit breaker.
type RemoteModel struct {
	name     string
	features []string
	url      string
	timeout  time.Duration
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[[]float64]
	logger   logger.Logger
}

func NewRemoteModel(a *Artifact, opts Options) *RemoteModel {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Breaker.FailureThreshold == 0 {
		opts.Breaker.FailureThreshold = 5
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	m := &RemoteModel{
		name:     displayName(a),
		features: append([]string(nil), a.Features...),
		url:      strings.TrimRight(a.Endpoint, "/") + "/predict",
		timeout:  opts.Timeout,
		client:   http.NewClient(opts.Timeout),
		logger:   log.WithFields(map[string]interface{}{"model": displayName(a)}),
	}

	threshold := opts.Breaker.FailureThreshold
	m.breaker = gobreaker.NewCircuitBreaker[[]float64](gobreaker.Settings{
		Name:        m.name,
		MaxRequests: opts.Breaker.MaxRequests,
		Interval:    opts.Breaker.Interval,
		Timeout:     opts.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not a model failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.ModelBreakerState.WithLabelValues(name).Set(float64(to))
			m.logger.Warn("model circuit breaker state changed", map[string]interface{}{
				"from": from.String(),
				"to":   to.String(),
			})
		},
	})
	metrics.ModelBreakerState.WithLabelValues(m.name).Set(float64(gobreaker.StateClosed))

	return m
}

func (m *RemoteModel) Name() string { return m.name }

func (m *RemoteModel) Schema() []string {
	return append([]string(nil), m.features...)
}

// State reports the breaker state, e.g. "closed" or "open".
func (m *RemoteModel) State() string {
	return m.breaker.State().String()
}

func (m *RemoteModel) Score(ctx context.Context, table *recommend.FeatureTable) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	scores, err := m.breaker.Execute(func() ([]float64, error) {
		var resp predictResponse
		req := predictRequest{Columns: table.Columns, Rows: table.Matrix()}
		if err := m.client.PostJSON(ctx, m.url, req, &resp); err != nil {
			return nil, err
		}
		return resp.Predictions, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return scores, nil
}

func classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %w", ErrModelTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit breaker: %w", ErrModelUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
}
