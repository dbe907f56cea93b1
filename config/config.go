// Package config provides configuration loading and management for cppmodel.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete cppmodel configuration
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Index   IndexConfig   `yaml:"index"`
	Service ServiceConfig `yaml:"service"`
}

// ProjectConfig identifies the code base being modelled
type ProjectConfig struct {
	// Name is the project name used in logs and service subjects
	Name string `yaml:"name"`
	// Root is the repository root path (auto-detected from git if empty)
	Root string `yaml:"root"`
}

// IndexConfig configures source discovery and parsing
type IndexConfig struct {
	// Roots are glob patterns for the directories to index
	// (e.g. "./src/**", "./include")
	Roots []string `yaml:"roots"`
	// Extensions are the file extensions treated as C++ sources
	Extensions []string `yaml:"extensions"`
	// IncludeDirs are additional directories for resolving #include paths
	IncludeDirs []string `yaml:"include_dirs"`
	// DebounceDelay is how long the watcher waits for more changes
	// before re-parsing
	DebounceDelay time.Duration `yaml:"debounce_delay"`
	// ExpandTemplates clones template members during instantiation so
	// member types resolve against the template arguments
	ExpandTemplates bool `yaml:"expand_templates"`
}

// ServiceConfig configures the NATS query service
type ServiceConfig struct {
	// NATSURL is the NATS server URL
	NATSURL string `yaml:"nats_url"`
	// SubjectPrefix is the prefix for query subjects
	// (e.g. "cppmodel" → "cppmodel.complete")
	SubjectPrefix string `yaml:"subject_prefix"`
	// MetricsAddr is the listen address for the Prometheus endpoint
	// (empty = metrics disabled)
	MetricsAddr string `yaml:"metrics_addr"`
	// RequestTimeout bounds a single query
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Name: "cppmodel",
			Root: "", // Auto-detect
		},
		Index: IndexConfig{
			Roots:         []string{"./**"},
			Extensions:    []string{".h", ".hh", ".hpp", ".hxx", ".c", ".cc", ".cpp", ".cxx", ".mm"},
			DebounceDelay: 100 * time.Millisecond,
		},
		Service: ServiceConfig{
			NATSURL:        "nats://localhost:4222",
			SubjectPrefix:  "cppmodel",
			MetricsAddr:    ":9095",
			RequestTimeout: 5 * time.Second,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Project.Name == "" {
		return fmt.Errorf("project.name is required")
	}
	if len(c.Index.Roots) == 0 {
		return fmt.Errorf("index.roots must name at least one directory")
	}
	if len(c.Index.Extensions) == 0 {
		return fmt.Errorf("index.extensions must name at least one extension")
	}
	for _, ext := range c.Index.Extensions {
		if ext == "" || ext[0] != '.' {
			return fmt.Errorf("index.extensions entries need a leading dot, got %q", ext)
		}
	}
	if c.Index.DebounceDelay < 0 {
		return fmt.Errorf("index.debounce_delay must not be negative")
	}
	if c.Service.SubjectPrefix == "" {
		return fmt.Errorf("service.subject_prefix is required")
	}
	if c.Service.RequestTimeout <= 0 {
		return fmt.Errorf("service.request_timeout must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Project
	if other.Project.Name != "" {
		c.Project.Name = other.Project.Name
	}
	if other.Project.Root != "" {
		c.Project.Root = other.Project.Root
	}

	// Index
	if len(other.Index.Roots) > 0 {
		c.Index.Roots = other.Index.Roots
	}
	if len(other.Index.Extensions) > 0 {
		c.Index.Extensions = other.Index.Extensions
	}
	if len(other.Index.IncludeDirs) > 0 {
		c.Index.IncludeDirs = other.Index.IncludeDirs
	}
	if other.Index.DebounceDelay != 0 {
		c.Index.DebounceDelay = other.Index.DebounceDelay
	}
	if other.Index.ExpandTemplates {
		c.Index.ExpandTemplates = true
	}

	// Service
	if other.Service.NATSURL != "" {
		c.Service.NATSURL = other.Service.NATSURL
	}
	if other.Service.SubjectPrefix != "" {
		c.Service.SubjectPrefix = other.Service.SubjectPrefix
	}
	if other.Service.MetricsAddr != "" {
		c.Service.MetricsAddr = other.Service.MetricsAddr
	}
	if other.Service.RequestTimeout != 0 {
		c.Service.RequestTimeout = other.Service.RequestTimeout
	}
}
