package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// ProjectConfigFile is the file name searched for when locating a project's
// configuration, walking up from the working directory.
const ProjectConfigFile = "cppmodel.yaml"

// Loader layers configuration sources: built-in defaults, then the user file
// under ~/.config/cppmodel, then a project cppmodel.yaml found by walking
// toward the filesystem root. Later layers win for the values they set.
type Loader struct {
	logger *slog.Logger

	// Dir is where the upward project search starts; the working directory
	// when empty.
	Dir string
}

// NewLoader creates a configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load resolves the effective configuration. When no layer sets project.root
// it defaults to the directory holding the project file, else the enclosing
// git checkout, else the search start: that is the directory the index glob
// patterns and the watcher are rooted at.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if path := userConfigPath(); path != "" {
		l.mergeFile(cfg, path, "user")
	}

	start := l.startDir()
	projectFile := findUp(start, ProjectConfigFile)
	if projectFile != "" {
		l.mergeFile(cfg, projectFile, "project")
	} else {
		l.logger.Debug("No project config found", slog.String("start", start))
	}

	if cfg.Project.Root == "" {
		cfg.Project.Root = projectRoot(start, projectFile)
		l.logger.Debug("Defaulted project root", slog.String("path", cfg.Project.Root))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile merges one config layer into cfg. A missing file is the normal
// case and stays silent; an unreadable or malformed one is skipped loudly.
func (l *Loader) mergeFile(cfg *Config, path, layer string) {
	other, err := LoadFromFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Skipping unreadable config layer",
				slog.String("layer", layer),
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return
	}
	l.logger.Debug("Loaded config layer",
		slog.String("layer", layer),
		slog.String("path", path))
	cfg.Merge(other)
}

func (l *Loader) startDir() string {
	if l.Dir != "" {
		return l.Dir
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// projectRoot picks the directory the index is rooted at.
func projectRoot(start, projectFile string) string {
	if projectFile != "" {
		return filepath.Dir(projectFile)
	}
	if gitDir := findUp(start, ".git"); gitDir != "" {
		return filepath.Dir(gitDir)
	}
	return start
}

// findUp walks from dir toward the filesystem root and returns the first
// existing path with the given base name, or "".
func findUp(dir, name string) string {
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cppmodel", "config.yaml")
}
