package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webappsteps/stepsub/pkg/logging"
	"github.com/webappsteps/stepsub/pkg/substitute"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "passthrough", cfg.ExpressionErrors)
	assert.Equal(t, "env", cfg.Env.Dir)
	assert.Equal(t, []string{"default"}, cfg.Env.Profiles)
	assert.True(t, cfg.Env.ProcessEnv)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, substitute.PolicyPassthrough, p)

	lc := cfg.LoggingConfig()
	assert.Equal(t, logging.LevelWarn, lc.Level)
	assert.Equal(t, logging.FormatText, lc.Format)
}

func TestLoadFromFile_ValidYAML(t *testing.T) {
	path := writeConfig(t, "stepsub.yaml", `
expressionErrors: fail
maxRewrites: 100
concurrency: 2
env:
  dir: environments
  profiles: [staging, ci]
  processEnv: false
data:
  files: [data.yaml]
  values:
    user: alice
    retries: 3
    enabled: true
log:
  level: debug
  format: json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "fail", cfg.ExpressionErrors)
	assert.Equal(t, 100, cfg.MaxRewrites)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, EnvSection{Dir: "environments", Profiles: []string{"staging", "ci"}}, cfg.Env)
	assert.Equal(t, []string{"data.yaml"}, cfg.Data.Files)
	assert.Equal(t, map[string]string{"user": "alice", "retries": "3", "enabled": "true"}, cfg.Data.Values)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "stepsub.yml", "log:\n  level: error\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "env", cfg.Env.Dir)
	assert.Equal(t, []string{"default"}, cfg.Env.Profiles)
	assert.True(t, cfg.Env.ProcessEnv)
}

func TestLoadFromFile_ValidJSON(t *testing.T) {
	path := writeConfig(t, "stepsub.json", `{
		"expressionErrors": "fail",
		"data": {"values": {"id": 42}}
	}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fail", cfg.ExpressionErrors)
	assert.Equal(t, "42", cfg.Data.Values["id"])
}

func TestLoadFromFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"invalid JSON", "stepsub.json", `{ invalid json }`, ErrInvalidJSON},
		{"invalid YAML", "stepsub.yaml", "env: [\n", ErrInvalidYAML},
		{"empty file", "stepsub.yaml", "  \n", ErrEmptyFile},
		{"unknown field", "stepsub.yaml", "colour: blue\n", ErrInvalidConfig},
		{"unknown policy", "stepsub.yaml", "expressionErrors: strict\n", ErrInvalidConfig},
		{"negative rewrites", "stepsub.yaml", "maxRewrites: -1\n", ErrInvalidConfig},
		{"nested data value", "stepsub.yaml", "data:\n  values:\n    a: {b: c}\n", ErrInvalidConfig},
		{"bad log format", "stepsub.json", `{"log": {"format": "xml"}}`, ErrInvalidConfig},
		{"empty env dir", "stepsub.yaml", "env:\n  dir: \"\"\n", ErrInvalidConfig},
		{"not a mapping", "stepsub.yaml", "- a\n", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			cfg, err := LoadFromFile(path)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = LoadFromFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestFind(t *testing.T) {
	t.Setenv(EnvConfig, "")
	dir := t.TempDir()

	path, err := Find("", dir)
	require.NoError(t, err)
	assert.Empty(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "stepsub.json"), []byte(`{}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stepsub.yml"), []byte("{}\n"), 0644))
	path, err = Find("", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stepsub.yml"), path)

	explicit := writeConfig(t, "custom.yaml", "{}\n")
	path, err = Find(explicit, dir)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)

	t.Setenv(EnvConfig, explicit)
	path, err = Find("", dir)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)

	_, err = Find(filepath.Join(dir, "nope.yaml"), dir)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "stepsub.yaml", "expressionErrors: passthrough\nenv:\n  profiles: [staging]\n")
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvExpressionErrors, "FAIL")
	t.Setenv(EnvMaxRewrites, "25")
	t.Setenv(EnvConcurrency, "3")
	t.Setenv(EnvProfiles, "ci, local,")
	t.Setenv(EnvProfileDir, "profiles")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogFile, "stepsub.log")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fail", cfg.ExpressionErrors)
	assert.Equal(t, 25, cfg.MaxRewrites)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, []string{"ci", "local"}, cfg.Env.Profiles)
	assert.Equal(t, "profiles", cfg.Env.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "stepsub.log", cfg.Log.File)
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	path := writeConfig(t, "stepsub.yaml", "{}\n")

	t.Setenv(EnvExpressionErrors, "sometimes")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv(EnvExpressionErrors, "")
	t.Setenv(EnvMaxRewrites, "many")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv(EnvMaxRewrites, "")
	for _, v := range []string{"-2", "four"} {
		t.Setenv(EnvConcurrency, v)
		_, err = Load(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorContains(t, err, EnvConcurrency)
	}
}

func TestToYAML_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Data.Values = map[string]string{"a": "1"}

	data, err := ToYAML(cfg)
	require.NoError(t, err)

	parsed, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)

	_, err = ToYAML(nil)
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	assert.Contains(t, string(Schema()), "2020-12")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,, b ,"))
	assert.Equal(t, []string{"staging", "ci"}, SplitList(" staging, ,ci "))
	assert.Nil(t, SplitList(" , "))
	assert.Nil(t, SplitList(""))
}

func TestValidateDocument_DecodedNumbers(t *testing.T) {
	require.NoError(t, validateDocument(map[string]any{
		"maxRewrites": 10,
		"concurrency": uint64(4),
		"data":        map[string]any{"values": map[string]any{"ratio": 0.5, "n": int64(7)}},
	}))

	err := validateDocument(map[string]any{"maxRewrites": 1.5})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "/maxRewrites")
}
