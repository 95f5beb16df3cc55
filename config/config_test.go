package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NatsURL)
	assert.Equal(t, "8081", cfg.WebPort)
	assert.Equal(t, "tariffs_data.json", cfg.CatalogPath)
	assert.True(t, cfg.RobokassaTestMode)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_IDS", "900,901")
	t.Setenv("PG_CONN", "postgres://localhost/tariffbot")
	t.Setenv("ROBOKASSA_TEST_MODE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, []int64{900, 901}, cfg.OperatorIDs)
	assert.False(t, cfg.RobokassaTestMode)

	assert.NoError(t, cfg.ValidateBot())
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateBot())

	cfg.BotToken = "123:abc"
	assert.Error(t, cfg.ValidateBot())

	cfg.OperatorIDs = []int64{900}
	assert.Error(t, cfg.ValidateBot())

	cfg.PGConn = "postgres://localhost/tariffbot"
	assert.NoError(t, cfg.ValidateBot())
}

func TestValidateWebhook(t *testing.T) {
	cfg := &Config{PGConn: "postgres://localhost/tariffbot"}
	assert.Error(t, cfg.ValidateWebhook())

	cfg.RobokassaLogin = "demo"
	cfg.RobokassaPassword2 = "pwd2"
	assert.NoError(t, cfg.ValidateWebhook())
}

func TestRobokassaConfigured(t *testing.T) {
	cfg := &Config{RobokassaLogin: "demo", RobokassaPassword1: "p1"}
	assert.False(t, cfg.RobokassaConfigured())
	cfg.RobokassaPassword2 = "p2"
	assert.True(t, cfg.RobokassaConfigured())
}
