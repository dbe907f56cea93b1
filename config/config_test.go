package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Project.Name != "cppmodel" {
		t.Errorf("expected default project name cppmodel, got %s", cfg.Project.Name)
	}
	if len(cfg.Index.Roots) == 0 {
		t.Error("expected default index roots")
	}
	if cfg.Index.DebounceDelay != 100*time.Millisecond {
		t.Errorf("expected default debounce 100ms, got %v", cfg.Index.DebounceDelay)
	}
	if cfg.Service.SubjectPrefix != "cppmodel" {
		t.Errorf("expected default subject prefix cppmodel, got %s", cfg.Service.SubjectPrefix)
	}
	if cfg.Index.ExpandTemplates {
		t.Error("template expansion must be off by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing project name",
			modify:  func(c *Config) { c.Project.Name = "" },
			wantErr: true,
		},
		{
			name:    "no index roots",
			modify:  func(c *Config) { c.Index.Roots = nil },
			wantErr: true,
		},
		{
			name:    "no extensions",
			modify:  func(c *Config) { c.Index.Extensions = nil },
			wantErr: true,
		},
		{
			name:    "extension without dot",
			modify:  func(c *Config) { c.Index.Extensions = []string{"cpp"} },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Index.DebounceDelay = -time.Second },
			wantErr: true,
		},
		{
			name:    "missing subject prefix",
			modify:  func(c *Config) { c.Service.SubjectPrefix = "" },
			wantErr: true,
		},
		{
			name:    "zero request timeout",
			modify:  func(c *Config) { c.Service.RequestTimeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	other := &Config{}
	other.Project.Name = "editor"
	other.Index.Roots = []string{"./src/**"}
	other.Index.IncludeDirs = []string{"./include"}
	other.Index.ExpandTemplates = true
	other.Service.NATSURL = "nats://remote:4222"
	other.Service.RequestTimeout = 10 * time.Second

	base.Merge(other)

	if base.Project.Name != "editor" {
		t.Errorf("project name not merged: %s", base.Project.Name)
	}
	if len(base.Index.Roots) != 1 || base.Index.Roots[0] != "./src/**" {
		t.Errorf("roots not merged: %v", base.Index.Roots)
	}
	if len(base.Index.IncludeDirs) != 1 {
		t.Errorf("include dirs not merged: %v", base.Index.IncludeDirs)
	}
	if !base.Index.ExpandTemplates {
		t.Error("expand_templates not merged")
	}
	if base.Service.NATSURL != "nats://remote:4222" {
		t.Errorf("NATS URL not merged: %s", base.Service.NATSURL)
	}
	if base.Service.RequestTimeout != 10*time.Second {
		t.Errorf("request timeout not merged: %v", base.Service.RequestTimeout)
	}
	// Untouched fields keep their defaults
	if len(base.Index.Extensions) == 0 {
		t.Error("extensions lost during merge")
	}
}

func TestConfigMergeNil(t *testing.T) {
	base := DefaultConfig()
	base.Merge(nil) // must not panic
	if err := base.Validate(); err != nil {
		t.Errorf("config invalid after nil merge: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "cppmodel.yaml")

	cfg := DefaultConfig()
	cfg.Project.Name = "roundtrip"
	cfg.Index.Roots = []string{"./lib/**", "./app"}
	cfg.Index.ExpandTemplates = true

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if loaded.Project.Name != "roundtrip" {
		t.Errorf("project name: got %s", loaded.Project.Name)
	}
	if len(loaded.Index.Roots) != 2 {
		t.Errorf("roots: got %v", loaded.Index.Roots)
	}
	if !loaded.Index.ExpandTemplates {
		t.Error("expand_templates lost in round trip")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
