package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/presbrey/ircclient/irc/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadYAML tests loading a YAML config file
func TestLoadYAML(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
server:
  host: irc.example.net
  port: 6697
  password: sekrit
  tls: true

user:
  nickname: MyNick
  username: myuser
  realname: My Real Name

channels:
  - "#first"
  - "#second"

session:
  idle_timeout_seconds: 300
  delivery_buffer: 256
  debug: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err, "Should load the configuration")

	assert.Equal(t, "irc.example.net", cfg.Server.Host)
	assert.Equal(t, 6697, cfg.Server.Port)
	assert.Equal(t, "sekrit", cfg.Server.Password)
	assert.True(t, cfg.Server.TLS)
	assert.Equal(t, "MyNick", cfg.User.Nickname)
	assert.Equal(t, []string{"#first", "#second"}, cfg.Channels)
	assert.Equal(t, 300, cfg.Session.IdleTimeoutSeconds)
	assert.Equal(t, 256, cfg.Session.DeliveryBuffer)
	assert.True(t, cfg.Session.Debug)
	assert.Equal(t, "irc.example.net:6697", cfg.ServerAddress())
	assert.Equal(t, path, cfg.Source)
}

// TestLoadTOML tests the TOML format path
func TestLoadTOML(t *testing.T) {
	path := writeTempConfig(t, "config.toml", `
channels = ["#go"]

[server]
host = "irc.example.net"
port = 6667

[user]
nickname = "MyNick"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err, "Should load the configuration")
	assert.Equal(t, "irc.example.net", cfg.Server.Host)
	assert.Equal(t, []string{"#go"}, cfg.Channels)
}

// TestLoadJSON tests the JSON format path
func TestLoadJSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{
  "server": {"host": "irc.example.net", "port": 6667},
  "user": {"nickname": "MyNick"},
  "channels": ["#go"]
}`)

	cfg, err := config.Load(path)
	require.NoError(t, err, "Should load the configuration")
	assert.Equal(t, "MyNick", cfg.User.Nickname)
}

// TestEnvOverrides tests environment variable precedence over the file
func TestEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
server:
  host: irc.example.net
user:
  nickname: FileNick
channels: ["#file"]
`)

	t.Setenv("IRC_NICKNAME", "EnvNick")
	t.Setenv("IRC_PORT", "7000")
	t.Setenv("IRC_TLS", "true")
	t.Setenv("IRC_CHANNELS", "#a, #b")

	cfg, err := config.Load(path)
	require.NoError(t, err, "Should load the configuration")
	assert.Equal(t, "EnvNick", cfg.User.Nickname, "Environment wins over the file")
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.Server.TLS)
	assert.Equal(t, []string{"#a", "#b"}, cfg.Channels, "Comma lists are split and trimmed")
}

// TestValidation tests that incomplete configs are rejected
func TestValidation(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
server:
  host: irc.example.net
`)

	_, err := config.Load(path)
	assert.Error(t, err, "A nickname is required")

	path = writeTempConfig(t, "config.yaml", `
user:
  nickname: MyNick
`)

	_, err = config.Load(path)
	assert.Error(t, err, "A server host is required")
}

// TestLoadMissingFile tests the error path for absent sources
func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
