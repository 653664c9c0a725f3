package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 10485760, cfg.UploadMaxSize)
	assert.Equal(t, 10000, cfg.ImportMaxRows)
	assert.Equal(t, []string{".xlsx", ".xls"}, cfg.AllowedExtensions)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("IMPORT_MAX_ROWS", "500")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 500, cfg.ImportMaxRows)
	assert.Equal(t, 90*time.Second, cfg.DBConnMaxLifetime)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBUsername: "catalog",
		DBPassword: "secret",
		DBHost:     "db.internal",
		DBPort:     "3306",
		DBDatabase: "catalog",
	}

	assert.Equal(t, "catalog:secret@tcp(db.internal:3306)/catalog?parseTime=true&loc=Local", cfg.GetDSN())
}

func TestIsAllowedExtension(t *testing.T) {
	cfg := &Config{AllowedExtensions: []string{".xlsx", ".xls"}}

	assert.True(t, cfg.IsAllowedExtension(".xlsx"))
	assert.True(t, cfg.IsAllowedExtension(".XLSX"))
	assert.True(t, cfg.IsAllowedExtension(".xls"))
	assert.False(t, cfg.IsAllowedExtension(".csv"))
	assert.False(t, cfg.IsAllowedExtension(""))
}
