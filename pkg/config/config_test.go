package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "stockledger.db", cfg.Store.SQLitePath)
	assert.True(t, cfg.Store.AutoMigrate)
	assert.Equal(t, "orphan", cfg.Inventory.DeletePolicy)
	assert.Equal(t, 480, cfg.JWT.Expiration)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "stockledger_session", cfg.Session.CookieName)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PRODUCT_DELETE_POLICY", "cascade")
	t.Setenv("STORE_AUTO_MIGRATE", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "cascade", cfg.Inventory.DeletePolicy)
	assert.False(t, cfg.Store.AutoMigrate)
}

func TestLoad_SinSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_PoliticaInvalida(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PRODUCT_DELETE_POLICY", "nuke")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/inv?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLoadStore_NoExigeSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SQLITE_PATH", "/tmp/otro.db")

	cfg, err := config.LoadStore()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/otro.db", cfg.Store.SQLitePath)

	t.Setenv("STORE_DRIVER", "mongo")
	_, err = config.LoadStore()
	assert.Error(t, err)
}
