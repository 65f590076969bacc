package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DB_HOST": "localhost",
		"DB_USER": "admin",
		"DB_NAME": "portfolio",
	}
}

func TestGetters(t *testing.T) {
	c := map[string]string{"A": "x", "N": "12", "BAD": "nope", "B": "true", "L": " a, ,b "}

	assert.Equal(t, "x", GetString(c, "A", "d"))
	assert.Equal(t, "d", GetString(c, "MISSING", "d"))
	assert.Equal(t, 12, GetInt(c, "N", 1))
	assert.Equal(t, 1, GetInt(c, "BAD", 1))
	assert.True(t, GetBool(c, "B", false))
	assert.False(t, GetBool(c, "BAD", false))
	assert.Equal(t, []string{"a", "b"}, GetList(c, "L"))
	assert.Nil(t, GetList(c, "MISSING"))
	assert.Equal(t, "d", GetString(nil, "A", "d"))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(baseEnv())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.MaxUploadMB)
	assert.Equal(t, StorageDisk, cfg.Storage.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "host=localhost user=admin password= dbname=portfolio port=5432 sslmode=disable", cfg.Database.DSN())
}

func TestLoadRejectsIncompleteDatabase(t *testing.T) {
	env := baseEnv()
	delete(env, "DB_HOST")

	_, err := Load(env)
	assert.EqualError(t, err, "database configuration is incomplete")
}

func TestLoadStorageDrivers(t *testing.T) {
	env := baseEnv()
	env["STORAGE_DRIVER"] = "MinIO"
	_, err := Load(env)
	assert.EqualError(t, err, "minio configuration is incomplete")

	env["MINIO_ENDPOINT"] = "localhost:9000"
	env["MINIO_ACCESS_KEY"] = "key"
	env["MINIO_SECRET_KEY"] = "secret"
	cfg, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, StorageMinio, cfg.Storage.Driver)

	env["STORAGE_DRIVER"] = "ftp"
	_, err = Load(env)
	assert.Error(t, err)
}
