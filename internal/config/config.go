// Package config loads the repository's .monodeps.yaml: auto-discovery
// hints passed down to individual language analyzers and the global
// dependency patterns the resolver short-circuits on.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the parsed content of .monodeps.yaml.
type Config struct {
	GlobalDependencies []string     `yaml:"global_dependencies"`
	AutoDiscovery      autoDiscover `yaml:"auto_discovery"`
}

type autoDiscover struct {
	Go     goDiscover     `yaml:"go"`
	Dotnet dotnetDiscover `yaml:"dotnet"`
}

type goDiscover struct {
	PackagePrefixes []string `yaml:"package_prefixes"`
}

type dotnetDiscover struct {
	PackageNamespaces []string `yaml:"package_namespaces"`
}

// GoPackagePrefixes returns the configured Go package-prefix hints, or nil
// if none were configured.
func (c Config) GoPackagePrefixes() []string {
	return c.AutoDiscovery.Go.PackagePrefixes
}

// DotnetNamespaces returns the configured .NET namespace-filter hints, or
// nil if none were configured.
func (c Config) DotnetNamespaces() []string {
	return c.AutoDiscovery.Dotnet.PackageNamespaces
}

// Load reads and parses the config file at path. A missing file is not an
// error: it yields the zero Config, matching the CLI's default of using
// ./.monodeps.yaml only "if it exists".
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
