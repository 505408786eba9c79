package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func Test_ParseConfig_Defaults(t *testing.T) {
	// act
	cfg, err := parseConfig(nil, envFrom(nil), io.Discard)

	// assert
	require.NoError(t, err)
	assert.Equal(t, Config{
		Tickets:     20,
		Buyers:      30,
		Engine:      engineMutex,
		DBAdapter:   adapterPGX,
		PostgresDSN: defaultPostgresDSN,
		MySQLDSN:    defaultMySQLDSN,
		RedisAddr:   defaultRedisAddr,
		LogLevel:    slog.LevelWarn,
	}, cfg)
}

func Test_ParseConfig_EnvironmentFallbacks(t *testing.T) {
	// arrange
	env := envFrom(map[string]string{
		"TICKETSALE_TICKETS": "5",
		"TICKETSALE_BUYERS":  "7",
		"TICKETSALE_ENGINE":  enginePostgres,
		"DB_ADAPTER":         adapterSQLX,
		"POSTGRES_DSN":       "postgres://other",
		"MYSQL_DSN":          "other@tcp(db:3306)/x",
		"REDIS_ADDR":         "redis:6379",
		"LOG_LEVEL":          "debug",
	})

	// act
	cfg, err := parseConfig(nil, env, io.Discard)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Tickets)
	assert.Equal(t, 7, cfg.Buyers)
	assert.Equal(t, enginePostgres, cfg.Engine)
	assert.Equal(t, adapterSQLX, cfg.DBAdapter)
	assert.Equal(t, "postgres://other", cfg.PostgresDSN)
	assert.Equal(t, "other@tcp(db:3306)/x", cfg.MySQLDSN)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func Test_ParseConfig_FlagsOverrideTheEnvironment(t *testing.T) {
	// arrange
	env := envFrom(map[string]string{"TICKETSALE_TICKETS": "5", "TICKETSALE_ENGINE": engineRedis})
	args := []string{"-tickets", "1", "-buyers", "100", "-engine", engineAtomic, "-summary-file", "out.json", "-observability-enabled"}

	// act
	cfg, err := parseConfig(args, env, io.Discard)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Tickets)
	assert.Equal(t, 100, cfg.Buyers)
	assert.Equal(t, engineAtomic, cfg.Engine)
	assert.Equal(t, "out.json", cfg.SummaryFile)
	assert.True(t, cfg.ObservabilityEnabled)
}

func Test_ParseConfig_ShouldFail_WithInvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "negative tickets", args: []string{"-tickets", "-1"}},
		{name: "negative buyers", args: []string{"-buyers", "-3"}},
		{name: "unknown engine", args: []string{"-engine", "sqlite"}},
		{name: "unknown adapter", args: []string{"-engine", enginePostgres, "-db-adapter", "gorm"}},
		{name: "unknown log level", args: []string{"-log-level", "loud"}},
		{name: "non numeric env", env: map[string]string{"TICKETSALE_BUYERS": "many"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := parseConfig(tc.args, envFrom(tc.env), io.Discard)

			// assert
			assert.ErrorIs(t, err, errInvalidConfig)
		})
	}
}

func Test_ParseConfig_IgnoresTheAdapterForOtherEngines(t *testing.T) {
	// act
	_, err := parseConfig([]string{"-engine", engineMutex, "-db-adapter", "gorm"}, envFrom(nil), io.Discard)

	// assert
	assert.NoError(t, err)
}
