// internal/common/database/database_test.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"fantasy-research/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS ai_insights")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	client := &PostgresClient{DB: db}
	require.NoError(t, client.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_EnsureSchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(sql.ErrConnDone)

	client := &PostgresClient{DB: db}
	err = client.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
}

func TestRedis_OptionalAndPing(t *testing.T) {
	none, err := NewRedis(config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.Nil(t, none.Cmdable())
	assert.NoError(t, none.Close())

	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))
	assert.NotNil(t, client.Cmdable())
}

func TestElasticsearch_OptionalAndPing(t *testing.T) {
	none, err := NewElasticsearch(config.ElasticsearchConfig{})
	require.NoError(t, err)
	assert.Nil(t, none)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	assert.NoError(t, client.Ping(context.Background()))
}
