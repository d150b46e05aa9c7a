package database

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"frequency-workers/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                 { return s.name }
func (s stubChecker) Ping(ctx context.Context) error { return s.err }

func TestCheckAll(t *testing.T) {
	failures := CheckAll(context.Background(),
		stubChecker{name: "redis"},
		stubChecker{name: "postgres", err: errors.New("connection refused")},
		nil,
	)

	require.Len(t, failures, 1)
	assert.EqualError(t, failures["postgres"], "connection refused")
	assert.EqualError(t, FirstError(failures), "postgres: connection refused")
	assert.NoError(t, FirstError(CheckAll(context.Background())))
}

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	c := &PostgresClient{DB: db}
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer c.Close()

	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestElasticsearchClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, c.Ping(context.Background()))
}
