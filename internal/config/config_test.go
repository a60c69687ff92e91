package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into an empty directory so no stray playbot.yaml or
// .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("CHANNELS", "")
	return dir
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t)
	t.Setenv("DISCORD_TOKEN", "secret")
	t.Setenv("CHANNELS", "1234  56*\t789")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Discord.Token)
	assert.Equal(t, []string{"1234", "56*", "789"}, cfg.Channels)
	assert.Equal(t, "!", cfg.Command.Prefix)
	assert.Equal(t, "rust", cfg.Command.Name)
	assert.Equal(t, "https://play.rust-lang.org", cfg.Playground.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Playground.Timeout)
	assert.Equal(t, 900, cfg.Reply.MaxOutput)
	assert.Equal(t, 1, cfg.Reply.FailureSkipLines)
	assert.Equal(t, 3, cfg.Reply.BannerSkipLines)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.RequireToken())

	allow, err := cfg.AllowList()
	require.NoError(t, err)
	assert.True(t, allow.Allows("5600"))
}

func TestLoadFromFile(t *testing.T) {
	dir := chdir(t)
	t.Setenv("MY_TOKEN", "from-file-env")
	t.Setenv("PLAYBOT_SERVER_PORT", "9191")

	path := filepath.Join(dir, "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
discord:
  token: ${MY_TOKEN}
channels:
  - "100"
  - "2*"
playground:
  base_url: http://localhost:9000
  timeout: 5s
reply:
  banner_skip_lines: 2
server:
  enabled: true
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file-env", cfg.Discord.Token)
	assert.Equal(t, []string{"100", "2*"}, cfg.Channels)
	assert.Equal(t, "http://localhost:9000", cfg.Playground.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Playground.Timeout)
	assert.Equal(t, 2, cfg.Reply.BannerSkipLines)
	assert.Equal(t, 900, cfg.Reply.MaxOutput)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CHANNELS=42\n"), 0o644))
	// godotenv never overrides variables that are already present.
	require.NoError(t, os.Unsetenv("CHANNELS"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, cfg.Channels)
	assert.Error(t, cfg.RequireToken())
}

func TestLoadErrors(t *testing.T) {
	t.Run("no channels", func(t *testing.T) {
		chdir(t)
		t.Setenv("CHANNELS", "")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no channels")
	})

	t.Run("bad pattern", func(t *testing.T) {
		chdir(t)
		t.Setenv("CHANNELS", "[oops")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		chdir(t)
		t.Setenv("CHANNELS", "1")
		_, err := Load("/nonexistent/playbot.yaml")
		assert.Error(t, err)
	})
}

func TestRedacted(t *testing.T) {
	cfg := Config{Discord: DiscordConfig{Token: "secret"}, Channels: []string{"1"}}
	r := cfg.Redacted()
	assert.Equal(t, "<redacted>", r.Discord.Token)
	assert.Equal(t, "secret", cfg.Discord.Token)
}
