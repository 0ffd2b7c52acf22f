package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("PAW_TEST_HOST", "db.internal")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable wins", "host: ${PAW_TEST_HOST:localhost}", "host: db.internal"},
		{"unset uses default", "host: ${PAW_TEST_MISSING:localhost}", "host: localhost"},
		{"empty default", "password: ${PAW_TEST_MISSING:}", "password: "},
		{"unset without default kept verbatim", "key: ${PAW_TEST_MISSING}", "key: ${PAW_TEST_MISSING}"},
		{"multiple placeholders", "${PAW_TEST_HOST:x}:${PAW_TEST_MISSING:5432}", "db.internal:5432"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.in))
		})
	}
}

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
app:
  name: paw-adopt-api
  env: ${APP_ENV:development}
server:
  http:
    port: ${HTTP_PORT:9090}
database:
  postgres:
    host: ${POSTGRES_HOST:pg.local}
`)
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "paw-adopt-api", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, "pg.local", cfg.Database.Postgres.Host)

	// 未在文件中出现的键回落到默认值
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.NotEmpty(t, cfg.Search.Analyzer.GenderTerms)
	assert.InDelta(t, 12.0, cfg.Search.Analyzer.MonthsPerYear, 1e-9)
}

func TestLoad_EnvOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
app:
  name: paw-adopt-api
server:
  http:
    port: 8080
`)
	writeConfig(t, dir, "config.staging.yaml", `
server:
  http:
    port: 8081
`)
	t.Setenv("APP_ENV", "staging")
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.HTTP.Port)
	assert.Equal(t, "paw-adopt-api", cfg.App.Name, "base keys survive the overlay")
}

func TestLoad_MissingBaseConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load()
	assert.Error(t, err)
}
