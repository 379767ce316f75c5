// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: fantasy
    user: app
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearResearchEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PERPLEXITY_API_KEY", "PERPLEXITY_MODEL", "PERPLEXITY_MAX_TOKENS",
		"PERPLEXITY_TEMPERATURE", "AI_RESEARCH_ENABLED", "DB_USER", "DB_PASSWORD",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	clearResearchEnv(t)
	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "ai-insights", cfg.Database.Elasticsearch.Index)
	assert.False(t, cfg.Database.Elasticsearch.Enabled())

	assert.False(t, cfg.Research.Enabled)
	assert.Equal(t, "sonar", cfg.Research.Model)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Research.BaseURL)
	assert.Equal(t, 1000, cfg.Research.MaxTokens)
	require.NotNil(t, cfg.Research.Temperature)
	assert.InDelta(t, 0.2, *cfg.Research.Temperature, 1e-9)
	assert.InDelta(t, 0.9, cfg.Research.TopP, 1e-9)
	assert.Equal(t, "week", cfg.Research.RecencyFilter)
	assert.Len(t, cfg.Research.DomainFilter, 5)

	assert.Equal(t, 600000, cfg.Cache.CurrentWeekTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 8080, cfg.App.HealthPort)
}

func TestLoadFromFile_EnvFallbacks(t *testing.T) {
	clearResearchEnv(t)
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")
	t.Setenv("PERPLEXITY_MODEL", "sonar-pro")
	t.Setenv("AI_RESEARCH_ENABLED", "true")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.True(t, cfg.Research.Enabled)
	assert.Equal(t, "pplx-test", cfg.Research.APIKey)
	assert.Equal(t, "sonar-pro", cfg.Research.Model)
	assert.Equal(t, "secret", cfg.Database.Postgres.Password)
}

func TestLoadFromFile_Temperature(t *testing.T) {
	clearResearchEnv(t)

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML+`
research:
  temperature: 0
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Research.Temperature)
	assert.Zero(t, *cfg.Research.Temperature)

	t.Setenv("PERPLEXITY_TEMPERATURE", "0.5")
	cfg, err = LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	require.NotNil(t, cfg.Research.Temperature)
	assert.InDelta(t, 0.5, *cfg.Research.Temperature, 1e-9)
}

func TestLoadFromFile_ResearchFlagOverridesFile(t *testing.T) {
	clearResearchEnv(t)
	t.Setenv("AI_RESEARCH_ENABLED", "false")

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML+`
research:
  enabled: true
  api_key: pplx-file
`))
	require.NoError(t, err)
	assert.False(t, cfg.Research.Enabled)
	assert.Equal(t, "pplx-file", cfg.Research.APIKey)
}

func TestLoadFromFile_ExpandsEnvReferences(t *testing.T) {
	clearResearchEnv(t)
	t.Setenv("TEST_ES_USER", "elastic")

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML+`
  elasticsearch:
    addresses: ["http://localhost:9200"]
    username: ${TEST_ES_USER}
`))
	require.NoError(t, err)
	assert.True(t, cfg.Database.Elasticsearch.Enabled())
	assert.Equal(t, "elastic", cfg.Database.Elasticsearch.Username)
}

func TestLoadFromFile_Validation(t *testing.T) {
	clearResearchEnv(t)
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "missing postgres host",
			body:    "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    database: d\n    user: u\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "sns without topic",
			body:    minimalYAML + "notifications:\n  aws:\n    region: us-east-1\n  sns:\n    enabled: true\n",
			wantErr: "topic_arn",
		},
		{
			name:    "notifications without region",
			body:    minimalYAML + "notifications:\n  sns:\n    enabled: true\n    topic_arn: arn:aws:sns:us-east-1:1:t\n",
			wantErr: "aws.region",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerConfigLookup(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"research-query": {Enabled: false, MaxJobsActive: 2, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "research-query"))
	assert.True(t, IsWorkerEnabled(cfg, "research-start-sit"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "research-query").MaxJobsActive)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "research-start-sit").MaxJobsActive)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "f", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=f sslmode=disable", p.GetDSN())
}
