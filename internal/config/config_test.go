package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/agent-bugs/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func Test_Load_ReturnsDefaults_When_NoFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	cfg, err := config.Load(config.LoadInput{Root: root, Env: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, ".bugs", cfg.BugsDir)
	assert.Equal(t, filepath.Join(root, ".bugs"), cfg.BugsDirAbs)
	assert.Equal(t, root, cfg.Root)
	assert.False(t, cfg.FastAdd)
	assert.Empty(t, cfg.Sources.Global)
	assert.Empty(t, cfg.Sources.Project)
}

func Test_Load_LayersGlobalProjectAndOverrides(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	xdg := t.TempDir()

	writeFile(t, filepath.Join(xdg, "b", "config.json"), `{
		// global defaults
		"user": "Global User",
		"fast_add": true,
		"editor": "nano",
	}`)
	writeFile(t, filepath.Join(root, config.FileName), `{"bugs_dir": "issues", "fast_add": false}`)

	cfg, err := config.Load(config.LoadInput{Root: root, Env: map[string]string{"XDG_CONFIG_HOME": xdg}})
	require.NoError(t, err)

	assert.Equal(t, "issues", cfg.BugsDir)
	assert.Equal(t, "Global User", cfg.User)
	assert.False(t, cfg.FastAdd, "project file must be able to switch fast_add off")
	assert.Equal(t, "nano", cfg.Editor)
	assert.Equal(t, filepath.Join(xdg, "b", "config.json"), cfg.Sources.Global)
	assert.Equal(t, filepath.Join(root, config.FileName), cfg.Sources.Project)

	override := "/abs/bugs"

	cfg, err = config.Load(config.LoadInput{
		Root:            root,
		BugsDirOverride: &override,
		Env:             map[string]string{"XDG_CONFIG_HOME": xdg, config.UserEnv: "Env User"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/abs/bugs", cfg.BugsDirAbs)
	assert.Equal(t, "Env User", cfg.User)
	assert.True(t, cfg.Sources.UserEnv)
}

func Test_Load_UsesHomeConfig_When_XDGUnset(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "b", "config.json"), `{"user": "Home"}`)

	cfg, err := config.Load(config.LoadInput{Root: t.TempDir(), Env: map[string]string{"HOME": home}})
	require.NoError(t, err)
	assert.Equal(t, "Home", cfg.User)
}

func Test_Load_ReadsExplicitConfig_RelativeToRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.FileName), `{"bugs_dir": "ignored"}`)
	writeFile(t, filepath.Join(root, "custom.json"), `{"bugs_dir": "custom"}`)

	cfg, err := config.Load(config.LoadInput{Root: root, ConfigPath: "custom.json"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "custom"), cfg.BugsDirAbs)
	assert.Equal(t, filepath.Join(root, "custom.json"), cfg.Sources.Project)
}

func Test_Load_ReturnsError_When_ExplicitConfigMissing(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.LoadInput{Root: t.TempDir(), ConfigPath: "nope.json"})
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func Test_Load_ReturnsError_When_JSONInvalid(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.FileName), `{"bugs_dir": }`)

	_, err := config.Load(config.LoadInput{Root: root})
	require.ErrorIs(t, err, config.ErrConfigInvalid)
}

func Test_Load_ReturnsError_When_BugsDirEmpty(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, config.FileName), `{"bugs_dir": ""}`)

	_, err := config.Load(config.LoadInput{Root: root})
	require.ErrorIs(t, err, config.ErrBugsDirEmpty)
	require.ErrorIs(t, err, config.ErrConfigInvalid)

	empty := ""

	_, err = config.Load(config.LoadInput{Root: t.TempDir(), BugsDirOverride: &empty})
	require.ErrorIs(t, err, config.ErrBugsDirEmpty)
}
