package combinedrecommendation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-recommender/internal/common/logger"
	"trip-recommender/internal/models"
	"trip-recommender/internal/recommend"
)

func expectReferenceQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta(querySimilarity)).WillReturnRows(
		sqlmock.NewRows([]string{"tourist_id", "seed_id", "similarity"}).
			AddRow("A", "S1", 0.5).
			AddRow("A", "S2", 0.1).
			AddRow("S1", "S1", 1.0),
	)
	mock.ExpectQuery(regexp.QuoteMeta(queryCatalog)).WillReturnRows(
		sqlmock.NewRows([]string{"tourist_id", "name", "category", "address", "description"}).
			AddRow("A", "Alpha", "market", "1 Market St", "").
			AddRow("S1", "Palace", "palace", "", ""),
	)
	mock.ExpectQuery(regexp.QuoteMeta(queryVisitAreas)).WillReturnRows(
		sqlmock.NewRows([]string{"visit_area_code", "visit_area_name"}).
			AddRow(int64(1), "Alpha").
			AddRow(int64(2), nil),
	)
}

func expectedDataset() *recommend.Dataset {
	return &recommend.Dataset{
		Similarity: models.SimilarityMatrix{
			"A":  {"S1": 0.5, "S2": 0.1},
			"S1": {"S1": 1.0},
		},
		Catalog: []models.Attraction{
			{ID: "A", Name: "Alpha", Category: "market", Fields: map[string]string{"address": "1 Market St"}},
			{ID: "S1", Name: "Palace", Category: "palace"},
		},
		VisitAreas: []models.VisitArea{{Code: 1, Name: "Alpha"}, {Code: 2, Name: ""}},
	}
}

func newTestRepository(t *testing.T, db *sql.DB, rdb *redis.Client) *Repository {
	return NewRepository(db, rdb, 5*time.Minute, logger.NewTestLogger(t))
}

func TestRepository_Load_CacheMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()

	raw, err := json.Marshal(expectedDataset())
	require.NoError(t, err)

	redisMock.ExpectGet(CacheKey).RedisNil()
	expectReferenceQueries(mock)
	redisMock.ExpectSet(CacheKey, raw, 5*time.Minute).SetVal("OK")

	data, err := newTestRepository(t, db, redisClient).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expectedDataset(), data)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRepository_Load_CacheHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()

	raw, err := json.Marshal(expectedDataset())
	require.NoError(t, err)
	redisMock.ExpectGet(CacheKey).SetVal(string(raw))

	data, err := newTestRepository(t, db, redisClient).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expectedDataset(), data)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRepository_Load_CorruptCacheFallsBackToDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()

	raw, err := json.Marshal(expectedDataset())
	require.NoError(t, err)

	redisMock.ExpectGet(CacheKey).SetVal("{not json")
	expectReferenceQueries(mock)
	redisMock.ExpectSet(CacheKey, raw, 5*time.Minute).SetVal("OK")

	data, err := newTestRepository(t, db, redisClient).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expectedDataset(), data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Load_RedisDownStillServes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()

	raw, err := json.Marshal(expectedDataset())
	require.NoError(t, err)

	redisMock.ExpectGet(CacheKey).SetErr(errors.New("connection refused"))
	expectReferenceQueries(mock)
	redisMock.ExpectSet(CacheKey, raw, 5*time.Minute).SetErr(errors.New("connection refused"))

	data, err := newTestRepository(t, db, redisClient).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Catalog, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Load_DatabaseError(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		wantTable models.ReferenceTable
	}{
		{
			name: "similarity query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(querySimilarity)).WillReturnError(sql.ErrConnDone)
			},
			wantTable: models.ReferenceTableSimilarity,
		},
		{
			name: "catalog query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(querySimilarity)).WillReturnRows(
					sqlmock.NewRows([]string{"tourist_id", "seed_id", "similarity"}))
				mock.ExpectQuery(regexp.QuoteMeta(queryCatalog)).WillReturnError(sql.ErrConnDone)
			},
			wantTable: models.ReferenceTableCatalog,
		},
		{
			name: "visit area scan fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(querySimilarity)).WillReturnRows(
					sqlmock.NewRows([]string{"tourist_id", "seed_id", "similarity"}))
				mock.ExpectQuery(regexp.QuoteMeta(queryCatalog)).WillReturnRows(
					sqlmock.NewRows([]string{"tourist_id", "name", "category", "address", "description"}))
				mock.ExpectQuery(regexp.QuoteMeta(queryVisitAreas)).WillReturnRows(
					sqlmock.NewRows([]string{"visit_area_code", "visit_area_name"}).AddRow("not-a-number", "x"))
			},
			wantTable: models.ReferenceTableVisitAreas,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setup(mock)

			_, err = newTestRepository(t, db, nil).Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrReferenceDataLoad)

			var refErr *ReferenceError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, tt.wantTable, refErr.Table)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CacheTTLAndInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectReferenceQueries(mock)
	repo := newTestRepository(t, db, rdb)

	_, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists(CacheKey))
	assert.Equal(t, 5*time.Minute, mr.TTL(CacheKey))

	// Served from cache: no further queries are expected.
	_, err = repo.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Invalidate(context.Background()))
	assert.False(t, mr.Exists(CacheKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}
