package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-recommender/internal/common/logger"
	"trip-recommender/internal/models"
	"trip-recommender/internal/recommend"
)

func writeArtifact(t *testing.T, a Artifact) string {
	t.Helper()
	raw, err := json.Marshal(a)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func sampleTable() *recommend.FeatureTable {
	users := []models.UserFeatures{{Gender: 1, AgeGroup: 30, TravelStyle1: 2, TravelStyle2: 3, TravelStyle3: 4, TravelStyle4: 1}}
	areas := []models.VisitArea{{Code: 10, Name: "Gyeongbokgung"}, {Code: 20, Name: "Namsan"}}
	return recommend.ExpandCandidates(users, areas)
}

func TestReadArtifact(t *testing.T) {
	tests := []struct {
		name     string
		artifact Artifact
		wantErr  bool
	}{
		{
			name:     "valid linear",
			artifact: Artifact{Name: "visit", Type: TypeLinear, Features: recommend.FeatureSchema, Coefficients: map[string]float64{"GENDER": 0.1}},
		},
		{
			name:     "valid remote",
			artifact: Artifact{Name: "visit", Type: TypeRemote, Features: recommend.FeatureSchema, Endpoint: "http://model:9000"},
		},
		{
			name:     "no features",
			artifact: Artifact{Name: "visit", Type: TypeLinear},
			wantErr:  true,
		},
		{
			name:     "unknown coefficient",
			artifact: Artifact{Name: "visit", Type: TypeLinear, Features: []string{"GENDER"}, Coefficients: map[string]float64{"AGE_GRP": 1}},
			wantErr:  true,
		},
		{
			name:     "bad area effect key",
			artifact: Artifact{Name: "visit", Type: TypeLinear, Features: []string{"GENDER"}, AreaEffects: map[string]float64{"palace": 1}},
			wantErr:  true,
		},
		{
			name:     "remote without endpoint",
			artifact: Artifact{Name: "visit", Type: TypeRemote, Features: []string{"GENDER"}},
			wantErr:  true,
		},
		{
			name:     "unknown type",
			artifact: Artifact{Name: "visit", Type: "forest", Features: []string{"GENDER"}},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadArtifact(writeArtifact(t, tt.artifact))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingArtifact)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestReadArtifactMissingFile(t *testing.T) {
	_, err := ReadArtifact(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrMissingArtifact)
}

func TestReadArtifactInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := ReadArtifact(path)
	assert.ErrorIs(t, err, ErrMissingArtifact)
}

func TestLoadSelectsImplementation(t *testing.T) {
	linear, err := Load(writeArtifact(t, Artifact{Name: "visit", Version: "3", Type: TypeLinear, Features: recommend.FeatureSchema}), Options{})
	require.NoError(t, err)
	assert.IsType(t, &LinearModel{}, linear)
	assert.Equal(t, "visit@3", linear.(*LinearModel).Name())

	remote, err := Load(writeArtifact(t, Artifact{Name: "visit", Type: TypeRemote, Features: recommend.FeatureSchema, Endpoint: "http://model"}), Options{})
	require.NoError(t, err)
	assert.IsType(t, &RemoteModel{}, remote)
}

func TestLinearModelScore(t *testing.T) {
	m := NewLinearModel(&Artifact{
		Name:      "visit",
		Type:      TypeLinear,
		Features:  recommend.FeatureSchema,
		Intercept: 0.5,
		Coefficients: map[string]float64{
			recommend.ColumnGender:       0.1,
			recommend.ColumnAgeGroup:     0.01,
			recommend.ColumnTravelStyle3: -0.2,
		},
		AreaEffects: map[string]float64{"20": 0.25},
	})

	scores, err := m.Score(context.Background(), sampleTable())
	require.NoError(t, err)
	require.Len(t, scores, 2)

	// TravelStyle3 4 is rebucketed to 3.
	base := 0.5 + 0.1*1 + 0.01*30 - 0.2*3
	assert.InDelta(t, base, scores[0], 1e-9)
	assert.InDelta(t, base+0.25, scores[1], 1e-9)
}

func TestLinearModelHonoursCancelledContext(t *testing.T) {
	m := NewLinearModel(&Artifact{Name: "visit", Type: TypeLinear, Features: recommend.FeatureSchema})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Score(ctx, sampleTable())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinearModelSchemaMismatchThroughPredict(t *testing.T) {
	m := NewLinearModel(&Artifact{Name: "visit", Type: TypeLinear, Features: []string{"GENDER", "AGE_GRP"}})

	_, err := recommend.PredictVisitAreas(context.Background(), m, sampleTable(), nil)
	assert.ErrorIs(t, err, recommend.ErrSchemaMismatch)
}

func remoteArtifact(endpoint string) *Artifact {
	return &Artifact{Name: "visit-remote", Type: TypeRemote, Features: recommend.FeatureSchema, Endpoint: endpoint}
}

func TestRemoteModelScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, recommend.FeatureSchema, req.Columns)

		preds := make([]float64, len(req.Rows))
		for i, row := range req.Rows {
			preds[i] = row[0] / 100
		}
		json.NewEncoder(w).Encode(predictResponse{Predictions: preds})
	}))
	defer server.Close()

	m := NewRemoteModel(remoteArtifact(server.URL+"/"), Options{Timeout: time.Second, Logger: logger.NewTestLogger(t)})

	scores, err := m.Score(context.Background(), sampleTable())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, scores)
}

func TestRemoteModelServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := NewRemoteModel(remoteArtifact(server.URL), Options{Timeout: time.Second})

	_, err := m.Score(context.Background(), sampleTable())
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestRemoteModelTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	m := NewRemoteModel(remoteArtifact(server.URL), Options{Timeout: 30 * time.Millisecond})

	_, err := m.Score(context.Background(), sampleTable())
	assert.ErrorIs(t, err, ErrModelTimeout)
}

func TestRemoteModelBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	m := NewRemoteModel(remoteArtifact(server.URL), Options{
		Timeout: time.Second,
		Breaker: BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute},
		Logger:  logger.NewTestLogger(t),
	})

	for i := 0; i < 2; i++ {
		_, err := m.Score(context.Background(), sampleTable())
		require.ErrorIs(t, err, ErrModelUnavailable)
	}
	assert.Equal(t, "open", m.State())

	_, err := m.Score(context.Background(), sampleTable())
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, int32(2), hits.Load())
}
