// Package config loads b's layered JSONC configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrBugsDirEmpty       = errors.New("bugs-dir cannot be empty")
)

// FileName is the project config file, looked up in the repository root.
const FileName = ".b.json"

// DefaultBugsDir is where bugs live when nothing else is configured.
const DefaultBugsDir = ".bugs"

// UserEnv overrides the configured user.
const UserEnv = "B_USER"

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	BugsDir string `json:"bugs_dir"`
	User    string `json:"user,omitempty"`
	FastAdd bool   `json:"fast_add,omitempty"`
	Editor  string `json:"editor,omitempty"`

	// Resolved paths (computed, not serialized)
	Root       string `json:"-"` // Absolute directory relative paths are resolved against
	BugsDirAbs string `json:"-"` // Absolute path to the bugs directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks where configuration came from.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
	UserEnv bool   // Whether User came from $B_USER
}

// fileConfig is one config file as written. Pointers tell "absent" apart from
// zero values so later layers can switch fast_add off again.
type fileConfig struct {
	BugsDir *string `json:"bugs_dir"`
	User    *string `json:"user"`
	FastAdd *bool   `json:"fast_add"`
	Editor  *string `json:"editor"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{BugsDir: DefaultBugsDir}
}

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/b/config.json if set, otherwise ~/.config/b/config.json.
// Returns empty string if home directory cannot be determined.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "b", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "b", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	Root            string            // directory holding .b.json; relative paths resolve against it
	ConfigPath      string            // -c/--config flag value
	BugsDirOverride *string           // --bugs-dir flag value; nil means no override
	Env             map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/b/config.json or $XDG_CONFIG_HOME/b/config.json)
// 3. Project config file in the root (.b.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides
// 6. $B_USER.
//
// All paths in the returned Config are resolved to absolute paths.
func Load(input LoadInput) (Config, error) {
	root := input.Root
	if root == "" {
		var err error

		root, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		fileCfg, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = path
			cfg = merge(cfg, fileCfg)
		}
	}

	projectPath, mustExist := filepath.Join(root, FileName), false

	if input.ConfigPath != "" {
		projectPath, mustExist = input.ConfigPath, true
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(root, projectPath)
		}

		if _, err := os.Stat(projectPath); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, input.ConfigPath)
		}
	}

	fileCfg, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg.Sources.Project = projectPath
		cfg = merge(cfg, fileCfg)
	}

	if input.BugsDirOverride != nil {
		cfg.BugsDir = *input.BugsDirOverride
	}

	if user, ok := input.Env[UserEnv]; ok && user != "" {
		cfg.User = user
		cfg.Sources.UserEnv = true
	}

	if cfg.BugsDir == "" {
		return Config{}, ErrBugsDirEmpty
	}

	cfg.Root = root

	if filepath.IsAbs(cfg.BugsDir) {
		cfg.BugsDirAbs = cfg.BugsDir
	} else {
		cfg.BugsDirAbs = filepath.Join(root, cfg.BugsDir)
	}

	return cfg, nil
}

// loadFile loads a config file. If mustExist is false, missing files are
// reported as not loaded.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return fileConfig{}, false, nil
		}

		return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	fileCfg, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if fileCfg.BugsDir != nil && *fileCfg.BugsDir == "" {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrBugsDirEmpty)
	}

	return fileCfg, true, nil
}

func parse(data []byte) (fileConfig, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg fileConfig

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.BugsDir != nil {
		base.BugsDir = *overlay.BugsDir
	}

	if overlay.User != nil {
		base.User = *overlay.User
	}

	if overlay.FastAdd != nil {
		base.FastAdd = *overlay.FastAdd
	}

	if overlay.Editor != nil {
		base.Editor = *overlay.Editor
	}

	return base
}
