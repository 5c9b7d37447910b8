package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":             "9090",
		"BAD_INT":          "nine",
		"STORAGE_USE_SSL":  "true",
		"EMPTY":            "",
		"ACCEPTED_ORIGINS": "https://a.dev, ,https://b.dev",
		"READ_TIMEOUT":     "15",
	}

	assert.Equal(t, 9090, GetInt(cfg, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(cfg, "BAD_INT", 8080))
	assert.Equal(t, 8080, GetInt(nil, "PORT", 8080))
	assert.True(t, GetBool(cfg, "STORAGE_USE_SSL", false))
	assert.False(t, GetBool(cfg, "MISSING", false))
	assert.Equal(t, "fallback", GetString(cfg, "EMPTY", "fallback"))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetList(cfg, "ACCEPTED_ORIGINS"))
	assert.Nil(t, GetList(cfg, "MISSING"))
	assert.Equal(t, 15*time.Second, GetSeconds(cfg, "READ_TIMEOUT", 180))
}

type fakeParameters struct {
	params map[string]string
	err    error
}

func (f fakeParameters) Parameters(ctx context.Context, path string) (map[string]string, error) {
	return f.params, f.err
}

func TestOverlayKeepsEnvironmentValues(t *testing.T) {
	cfg := map[string]string{"GEMINI_API_KEY": "from-env", "JWT_SECRET": ""}
	source := fakeParameters{params: map[string]string{
		"GEMINI_API_KEY": "from-ssm",
		"JWT_SECRET":     "secret-from-ssm",
		"TWILIO_TO":      "+15550100",
	}}

	require.NoError(t, Overlay(context.Background(), cfg, source, "/portfolio/prod"))

	assert.Equal(t, "from-env", cfg["GEMINI_API_KEY"])
	assert.Equal(t, "secret-from-ssm", cfg["JWT_SECRET"])
	assert.Equal(t, "+15550100", cfg["TWILIO_TO"])
}

func TestOverlayError(t *testing.T) {
	err := Overlay(context.Background(), map[string]string{}, fakeParameters{err: errors.New("denied")}, "/p")
	assert.ErrorContains(t, err, "denied")
}

func TestLoadProfileDefault(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.NotEmpty(t, p.Name)
	assert.NotEmpty(t, p.Skills)
}

func TestLoadProfileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ada\nheadline: Engineer\nskills:\n  - category: Languages\n    items: [Go]\n"), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, []string{"Go"}, p.Skills[0].Items)
}

func TestParseProfileRequiresName(t *testing.T) {
	_, err := ParseProfile([]byte("headline: nobody\n"))
	assert.Error(t, err)
}
