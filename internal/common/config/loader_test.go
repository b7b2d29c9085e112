package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
app:
  name: talent-engine
  environment: test
database:
  postgres:
    host: localhost
    port: 5432
    database: talent
    user: talent
engine:
  max_limit: 50
  prefilter: postgres
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "talent-engine", cfg.App.Name)
	assert.Equal(t, 50, cfg.Engine.MaxLimit)

	// Defaults fill what the file leaves out.
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 2, cfg.Engine.MaxDepth)
	assert.Equal(t, 300, cfg.Engine.CacheTTL)
	assert.Equal(t, "postgres", cfg.Engine.Prefilter)
	assert.Equal(t, 0.4, cfg.Engine.Weights.Skills)
	assert.Equal(t, 0.3, cfg.Engine.Weights.Experience)
	assert.Equal(t, 0.15, cfg.Engine.Weights.Company)
	assert.Equal(t, 0.15, cfg.Engine.Weights.Department)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFileMissingPostgres(t *testing.T) {
	path := writeConfig(t, `
app:
  name: talent-engine
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.host")
}

func TestLoadFromFileMaxDepthTooDeep(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: talent
    user: talent
engine:
  max_depth: 5
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_depth")
}

func TestLoadFromFileInvalidPrefilter(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: talent
    user: talent
engine:
  prefilter: mongodb
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefilter")
}

func TestLoadFromFileElasticsearchNeedsAddresses(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: talent
    user: talent
engine:
  prefilter: elasticsearch
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "elasticsearch.addresses")
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "localhost", Port: 5432, User: "talent",
		Password: "secret", Database: "talent", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=talent password=secret dbname=talent sslmode=disable",
		p.GetDSN())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 10*time.Second, GetDuration(10000))
}
