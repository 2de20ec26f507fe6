package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIServer, cfg.APIServer)
	assert.Equal(t, DefaultTypesURL, cfg.TypesURL)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "en", cfg.Language)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("POKEREPORTS_API_SERVER", "http://reports.internal:9000")
	t.Setenv("POKEREPORTS_TIMEOUT", "15s")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://reports.internal:9000", cfg.APIServer)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestSetWritesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	v := viper.New()
	SetDefaults(v)

	require.NoError(t, Set(v, path, KeyLanguage, "es"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lang: es")

	reread := viper.New()
	reread.SetConfigFile(path)
	require.NoError(t, reread.ReadInConfig())
	assert.Equal(t, "es", reread.GetString(KeyLanguage))
}

func TestSetRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	v := viper.New()

	assert.ErrorContains(t, Set(v, path, "token", "x"), "unknown config key")
	assert.Error(t, Set(v, path, KeyTimeout, "soon"))
	assert.Error(t, Set(v, path, KeyOutput, "csv"))
	assert.Error(t, Set(v, path, KeyAPIServer, " "))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join("pokereports", "config.yaml"), filepath.Join(filepath.Base(filepath.Dir(GetConfigPath())), filepath.Base(GetConfigPath())))
}
