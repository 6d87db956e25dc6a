package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/signup/internal/core/rules"
	"github.com/hay-kot/signup/internal/core/signup"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, cfg.Submit.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Submit.Timeout)
	assert.Equal(t, TodayModeFixed, cfg.Dates.TodayMode)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
submit:
  endpoint: http://127.0.0.1:9000/posts
  timeout: 3s
tui:
  theme: gruvbox
dates:
  today_mode: live
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/posts", cfg.Submit.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Submit.Timeout)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, TodayModeLive, cfg.Dates.TodayMode)
	assert.Equal(t, "127.0.0.1:8085", cfg.Serve.Addr, "unset values keep defaults")
	assert.Equal(t, "Create your account", cfg.Form.Title)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "submit: [not, a, map")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
tui:
  theme: neon
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Submit.Endpoint = "http://localhost:8085/posts"
	cfg.TUI.Theme = "gruvbox"

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestLayout(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Equal(t, signup.DefaultLayout(), cfg.Layout())
	})

	t.Run("configured order and labels", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Form.Fields = []FieldConfig{
			{Name: "email", Label: "E-mail address"},
			{Name: "name"},
			{Name: "surname"},
			{Name: "birthday", Placeholder: "1990-01-31"},
			{Name: "password"},
			{Name: "confirm-password"},
		}

		layout := cfg.Layout()
		require.NoError(t, layout.Resolve())
		require.Len(t, layout, 6)

		assert.Equal(t, rules.FieldEmail, layout[0].Field)
		assert.Equal(t, "E-mail address", layout[0].Label)
		assert.Equal(t, "Name", layout[1].Label, "stock label kept when unset")
		assert.Equal(t, "1990-01-31", layout[3].Placeholder)
		assert.True(t, layout[4].Masked, "password stays masked")
	})
}

func TestRules_TodayModes(t *testing.T) {
	now := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)

	cfg := DefaultConfig()
	fixed := cfg.Rules(now)
	assert.Equal(t, now, fixed.Today())

	cfg.Dates.TodayMode = TodayModeLive
	live := cfg.Rules(now)
	assert.WithinDuration(t, time.Now(), live.Today(), time.Minute)
}
