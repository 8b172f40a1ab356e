package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goclean/domain/cleaning"
	"goclean/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 4, cfg.Runs.MaxConcurrent)
	assert.Equal(t, 2*time.Minute, cfg.Runs.Timeout)
	assert.Equal(t, cleaning.DefaultOptions(), cfg.Cleaning.Defaults)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:runs.db")
	t.Setenv("DATABASE_DRIVER", "sqlite3")
	t.Setenv("RUN_TIMEOUT", "15s")
	t.Setenv("CLEAN_REMOVE_OUTLIERS", "true")
	t.Setenv("CLEAN_MISSING_STRATEGY", "smart")
	t.Setenv("CLEAN_OUTLIER_METHOD", "zscore")
	t.Setenv("CLEAN_MISSING_SENTINELS", "N/A, -, ?")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 15*time.Second, cfg.Runs.Timeout)

	opts := cfg.Cleaning.Defaults
	assert.True(t, opts.RemoveOutliers)
	assert.Equal(t, cleaning.StrategyMedian, opts.MissingStrategy)
	assert.Equal(t, cleaning.OutlierMethodZScore, opts.OutlierMethod)
	assert.Equal(t, []string{"", "N/A", "-", "?"}, opts.MissingSentinels)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DATABASE_DRIVER", "mysql"},
		{"zero workers", "MAX_CONCURRENT_RUNS", "0"},
		{"unknown strategy", "CLEAN_MISSING_STRATEGY", "interpolate"},
		{"negative factor", "CLEAN_OUTLIER_FACTOR", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid), "code = %s", errors.GetCode(err))
		})
	}
}

func TestDefaultCleaningOptionsFallsBack(t *testing.T) {
	t.Setenv("CLEAN_OUTLIER_ACTION", "explode")
	assert.Equal(t, cleaning.DefaultOptions(), DefaultCleaningOptions())
}
