package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("MANUALS_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("MANUALS_HOME", "/custom/manuals")

		defaults, err := GetDefaults()
		require.NoError(t, err)

		assert.Equal(t, "/custom/config.toml", defaults["config_path"])
		assert.Equal(t, "/custom/manuals", defaults["base_dir"])
		assert.Equal(t, "/custom/manuals/log", defaults["log_dir"])
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("MANUALS_CONFIG_PATH", "")
		t.Setenv("MANUALS_HOME", "")

		defaults, err := GetDefaults()
		require.NoError(t, err)

		homeDir, _ := os.UserHomeDir()
		wantBase := filepath.Join(homeDir, ".local", "share", "manuals")
		assert.Equal(t, filepath.Join(homeDir, ".config", "manuals.toml"), defaults["config_path"])
		assert.Equal(t, wantBase, defaults["base_dir"])
		assert.Equal(t, filepath.Join(wantBase, "log"), defaults["log_dir"])
	})
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		arg        string
		env        string
		configured string
		want       string
	}{
		{name: "argument wins", arg: "https://arg", env: "https://env", configured: "https://cfg", want: "https://arg"},
		{name: "env before config", env: "https://env", configured: "https://cfg", want: "https://env"},
		{name: "config last", configured: "https://cfg", want: "https://cfg"},
		{name: "all empty", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(BaseURLEnv, tt.env)
			assert.Equal(t, tt.want, resolveBaseURL(tt.arg, tt.configured))
		})
	}
}
