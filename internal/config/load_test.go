package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inflectd/pkg/inflection"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("inflectd", pflag.ContinueOnError)
	DefineFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inflectd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func noPrompt(string) (string, error) {
	return "", errors.New("unexpected prompt")
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := Load(newFlagSet(t, "--config", path), Sources{Prompt: noPrompt})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.MaxWordsPerRequest)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Server.Admin.RulesEnabled)
	assert.Equal(t, "inflectd", cfg.Observability.ServiceName)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, "grpc", cfg.Observability.OTLP.Protocol)
	assert.True(t, cfg.Rules.Empty())
	assert.False(t, cfg.Validate().HasErrors())
}

func TestLoad_FileRulesAndOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
rules:
  replace_defaults: false
  plural:
    - find: "(octop)us$"
      replace: "${1}odes"
  singular:
    - find: "(octop)odes$"
      replace: "${1}us"
  irregular:
    - singular: cactus
      plural: cacti
  uncountable:
    - aircraft
    - deer
naming:
  plural_overrides:
    staff: staff
`)

	cfg, err := Load(newFlagSet(t, "--config", path), Sources{Prompt: noPrompt})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []inflection.RegexRule{{Find: "(octop)us$", Replace: "${1}odes"}}, cfg.Rules.Plural)
	assert.Equal(t, []inflection.RegexRule{{Find: "(octop)odes$", Replace: "${1}us"}}, cfg.Rules.Singular)
	assert.Equal(t, []inflection.IrregularPair{{Singular: "cactus", Plural: "cacti"}}, cfg.Rules.Irregular)
	assert.Equal(t, []string{"aircraft", "deer"}, cfg.Rules.Uncountable)
	assert.Equal(t, map[string]string{"staff": "staff"}, cfg.Naming.PluralOverrides)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  rate_limit_rps: 5
observability:
  logging:
    level: warn
`)
	t.Setenv("INFLECTD_SERVER_PORT", "9191")
	t.Setenv("INFLECTD_OBSERVABILITY_LOGGING_LEVEL", "error")

	fs := newFlagSet(t, "--config", path, "--server.port", "9292")
	cfg, err := Load(fs, Sources{Prompt: noPrompt})
	require.NoError(t, err)

	assert.Equal(t, 9292, cfg.Server.Port, "flag beats env and file")
	assert.Equal(t, "error", cfg.Observability.Logging.Level, "env beats file")
	assert.Equal(t, 5.0, cfg.Server.RateLimitRPS, "file beats default")
}

func TestLoad_UncountableFromEnv(t *testing.T) {
	path := writeConfig(t, "{}\n")
	t.Setenv("INFLECTD_RULES_UNCOUNTABLE", "aircraft, deer")

	cfg, err := Load(newFlagSet(t, "--config", path), Sources{Prompt: noPrompt})
	require.NoError(t, err)
	assert.Equal(t, []string{"aircraft", "deer"}, cfg.Rules.Uncountable)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
server:
  max_query_depth: 5
`)

	_, err := Load(newFlagSet(t, "--config", path), Sources{Prompt: noPrompt})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_query_depth")
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	_, err := Load(newFlagSet(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")), Sources{Prompt: noPrompt})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_AdminTokenFromStdin(t *testing.T) {
	path := writeConfig(t, "{}\n")
	fs := newFlagSet(t, "--config", path, "--server.admin.auth_token_file", "@-")

	cfg, err := Load(fs, Sources{Stdin: strings.NewReader("  s3cret\n"), Prompt: noPrompt})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Server.Admin.AuthToken)
}

func TestLoad_AdminTokenFromFile(t *testing.T) {
	path := writeConfig(t, "{}\n")
	tokenPath := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenPath, []byte("from-file\n"), 0o600))

	cfg, err := Load(newFlagSet(t, "--config", path, "--server.admin.auth_token_file", tokenPath), Sources{Prompt: noPrompt})
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Server.Admin.AuthToken)
}

func TestLoad_EmptyAdminTokenFile(t *testing.T) {
	path := writeConfig(t, "{}\n")
	tokenPath := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenPath, []byte("\n"), 0o600))

	_, err := Load(newFlagSet(t, "--config", path, "--server.admin.auth_token_file", tokenPath), Sources{Prompt: noPrompt})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestLoad_AdminTokenPrompt(t *testing.T) {
	path := writeConfig(t, "{}\n")
	var label string
	prompt := func(l string) (string, error) {
		label = l
		return "typed", nil
	}

	cfg, err := Load(newFlagSet(t, "--config", path, "--server.admin.auth_token_prompt"), Sources{Prompt: prompt})
	require.NoError(t, err)
	assert.Equal(t, "typed", cfg.Server.Admin.AuthToken)
	assert.Contains(t, label, "admin auth token")
}

func TestLoad_ExplicitTokenSkipsPrompt(t *testing.T) {
	path := writeConfig(t, "{}\n")
	fs := newFlagSet(t, "--config", path, "--server.admin.auth_token", "flag-token", "--server.admin.auth_token_prompt")

	cfg, err := Load(fs, Sources{Prompt: noPrompt})
	require.NoError(t, err)
	assert.Equal(t, "flag-token", cfg.Server.Admin.AuthToken)
}

