package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("TEMPLATES_DIR", "")
	t.Setenv("ADMIN_PAGE_SIZE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "templates", cfg.TemplatesDir)
	assert.Equal(t, 10, cfg.AdminPageSize)
	assert.Equal(t, []byte("s3cret"), cfg.SessionSecret)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("API_BASE_URL", "http://localhost:9999")
	t.Setenv("PORT", "8080")
	t.Setenv("ADMIN_PAGE_SIZE", "25")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.APIBaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 25, cfg.AdminPageSize)
}

func TestLoadConfig_RejectsBadPageSize(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("ADMIN_PAGE_SIZE", "zero")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("ADMIN_PAGE_SIZE", "0")
	_, err = LoadConfig()
	require.Error(t, err)
}
