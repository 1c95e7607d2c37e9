package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"DB_DSN": "postgres://localhost/timetable"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "@daily", cfg.AuditSchedule)
	assert.Empty(t, cfg.AdminIDs)
	assert.Empty(t, cfg.TelegramToken)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"ENV":            "production",
		"STORAGE":        "memory",
		"HTTP_ADDR":      ":9090",
		"TELEGRAM_TOKEN": "token",
		"ADMIN_IDS":      " 10, 20 ,,30",
		"API_TOKEN":      "secret",
		"AUDIT_SCHEDULE": "@every 1h",
	}))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, []int64{10, 20, 30}, cfg.AdminIDs)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, "@every 1h", cfg.AuditSchedule)
	assert.True(t, cfg.IsAdmin(20))
	assert.False(t, cfg.IsAdmin(40))
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without dsn", map[string]string{}},
		{"unknown storage", map[string]string{"STORAGE": "redis"}},
		{"bad admin id", map[string]string{"STORAGE": "memory", "ADMIN_IDS": "12,abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			assert.Error(t, err)
		})
	}
}
