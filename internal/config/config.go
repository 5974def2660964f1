// Package config loads the project-level ace.yaml that tells the pipeline
// where to find importable modules, whether to use the compile cache, and
// which native SDK packages (pkg/ace/natives/...) to register before a
// compilation unit runs.
//
// Grounded on the teacher's internal/ext/config.go (LoadConfig/ParseConfig/
// FindConfig shape, gopkg.in/yaml.v3 unmarshal-then-validate-then-default
// idiom) re-keyed from the teacher's Go-binding-generation config (deps,
// bind specs) to the spec's much smaller module-path/cache/natives config.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Native names one pkg/ace/natives/... package to register at VM boot,
// mirroring the teacher's Dep.Pkg field but pared to what the native SDK
// actually needs: a package name, nothing about Go module resolution.
type Native struct {
	Pkg string `yaml:"pkg"`
}

// Config is the top-level ace.yaml configuration.
type Config struct {
	// ModulePaths lists directories searched, in order, for an imported
	// module that is not found relative to the importing file (spec.md
	// §3.5's module tree; SPEC_FULL.md's import-path resolution).
	ModulePaths []string `yaml:"module_paths,omitempty"`

	// Cache enables the sqlite-backed compile cache in internal/pipeline.
	Cache bool `yaml:"cache"`

	// Natives lists native SDK packages to register before compiling.
	Natives []Native `yaml:"natives,omitempty"`

	// configDir is the directory ace.yaml was found in, used to resolve
	// ModulePaths entries given as relative paths.
	configDir string
}

// Dir returns the directory the config file was loaded from.
func (c *Config) Dir() string { return c.configDir }

// ResolvedModulePaths returns ModulePaths with relative entries joined
// against the config file's directory.
func (c *Config) ResolvedModulePaths() []string {
	out := make([]string, len(c.ModulePaths))
	for i, p := range c.ModulePaths {
		if filepath.IsAbs(p) {
			out[i] = p
		} else {
			out[i] = filepath.Join(c.configDir, p)
		}
	}
	return out
}

// Default returns the zero-config defaults used when no ace.yaml is found:
// caching on, no extra module paths, no natives.
func Default() *Config {
	return &Config{Cache: true}
}

// Load reads and parses an ace.yaml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses ace.yaml content from bytes. path is used only to record
// configDir for relative-path resolution.
func Parse(data []byte, path string) (*Config, error) {
	cfg := &Config{Cache: true}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.configDir = filepath.Dir(path)
	return cfg, nil
}

// Find searches for ace.yaml starting from dir and walking up to parent
// directories, the way the teacher's FindConfig walks for funxy.yaml.
// Returns "" with a nil error if no config file is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "ace.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromDir finds and loads ace.yaml starting from dir, falling back to
// Default() when none is found.
func LoadFromDir(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
