package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendCookie, cfg.PreferenceBackend)
	assert.Equal(t, 365*24*time.Hour, cfg.VisitorRetention)
	assert.False(t, cfg.StrictTimeline)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PREFERENCE_BACKEND", "sqlite")
	t.Setenv("STRICT_TIMELINE", "true")
	t.Setenv("VISITOR_RETENTION", "720h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.PreferenceBackend)
	assert.True(t, cfg.StrictTimeline)
	assert.Equal(t, 720*time.Hour, cfg.VisitorRetention)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("STRICT_TIMELINE", "maybe")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	base := Config{Port: "8080", PreferenceBackend: BackendCookie, VisitorRetention: time.Hour}
	require.NoError(t, base.Validate())

	bad := base
	bad.PreferenceBackend = "localStorage"
	assert.Error(t, bad.Validate())

	bad = base
	bad.WatchLocales = true
	assert.Error(t, bad.Validate())

	bad = base
	bad.LocalesDir = "/does/not/exist"
	assert.Error(t, bad.Validate())

	ok := base
	ok.LocalesDir = t.TempDir()
	ok.WatchLocales = true
	assert.NoError(t, ok.Validate())
}
