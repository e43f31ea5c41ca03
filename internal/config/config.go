package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CopyRule copies <FileRoot>/<From>/<PLATFORM>.json into <Root>/<To>.
type CopyRule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Config describes the project layout the tool works against.
type Config struct {
	Platforms []string   `yaml:"platforms"`
	VendorDir string     `yaml:"vendor_dir"`
	RootDepth int        `yaml:"root_depth"`
	PatchDir  string     `yaml:"patch_dir"`
	FileDir   string     `yaml:"file_dir"`
	SourceDir string     `yaml:"source_dir"`
	Copies    []CopyRule `yaml:"copies"`
}

// Default returns the layout of the allwinner overlay tree.
func Default() Config {
	return Config{
		Platforms: []string{"T507", "R818"},
		VendorDir: "device/soc/allwinner",
		RootDepth: 4,
		PatchDir:  "patches/harmony",
		FileDir:   "patches/file",
		SourceDir: "patches/code",
		Copies: []CopyRule{
			{From: "productdefine/device", To: "productdefine/common/device"},
			{From: "productdefine/product", To: "productdefine/common/products"},
		},
	}
}

// Load reads a YAML file on top of the defaults. Fields missing from the
// file keep their default value. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields the path resolver depends on.
func (c *Config) Validate() error {
	if len(c.Platforms) == 0 {
		return fmt.Errorf("platforms must not be empty")
	}
	for i, p := range c.Platforms {
		c.Platforms[i] = strings.ToUpper(strings.TrimSpace(p))
	}
	if c.RootDepth < 0 {
		return fmt.Errorf("root_depth must not be negative, got %d", c.RootDepth)
	}
	if c.VendorDir == "" || c.PatchDir == "" {
		return fmt.Errorf("vendor_dir and patch_dir are required")
	}
	return nil
}

// Supports reports whether the upper-cased platform is in the allow-list.
func (c Config) Supports(platform string) bool {
	for _, p := range c.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}
