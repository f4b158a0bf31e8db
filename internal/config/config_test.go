package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
api:
  environment: test
  port: "9090"
  jwt_signing_key: secret
gin:
  mode: test
postgres:
  host: db
  port: "5433"
  user: u
  password: p
  dbname: lottery
log:
  level: debug
lottery:
  close_time: "19:30"
  timezone: Europe/Amsterdam
mail:
  enabled: false
metrics:
  enabled: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "test", conf.Gin.Mode)
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=lottery sslmode=disable", conf.Postgres.DSN())
	assert.Equal(t, 10, conf.Lottery.MaxBallotsPerPurchase)
	assert.Equal(t, "/metrics", conf.Metrics.Path)

	hour, minute, err := conf.Lottery.ClockTime()
	require.NoError(t, err)
	assert.Equal(t, 19, hour)
	assert.Equal(t, 30, minute)

	loc, err := conf.Lottery.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Amsterdam", loc.String())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOTTERY_API_PORT", "7070")
	t.Setenv("LOTTERY_LOTTERY_CLOSE_TIME", "21:15")

	conf, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "7070", conf.API.Port)
	assert.Equal(t, "21:15", conf.Lottery.CloseTime)
}

func TestLoadRejectsBadCloseTime(t *testing.T) {
	t.Setenv("LOTTERY_LOTTERY_CLOSE_TIME", "8pm")

	_, err := Load(writeConfig(t, sampleConfig))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
