// Package app wires config loading, discovery, and resolution into the
// shared entry point both the default `dependencies` operation and the
// `validate` subcommand call, so the two cobra commands in cmd/monodeps
// don't duplicate the orchestration.
package app

import (
	"github.com/spf13/afero"

	"github.com/monodeps/monodeps/internal/config"
	"github.com/monodeps/monodeps/internal/resolve"
	"github.com/monodeps/monodeps/internal/service"
)

// Flags carries the CLI-level settings that affect discovery.
type Flags struct {
	Target          string
	ConfigPath      string
	EnableMakefile  bool
	EnableJustfile  bool
	EnableBuildfile bool
}

// LoadConfig loads .monodeps.yaml from flags.ConfigPath, defaulting to
// ./.monodeps.yaml in the working directory when the caller left it unset.
func LoadConfig(flags Flags) (config.Config, error) {
	path := flags.ConfigPath
	if path == "" {
		path = ".monodeps.yaml"
	}
	return config.Load(path)
}

// Discover runs service discovery against the real filesystem under
// flags.Target, threading cfg's auto_discovery hints into each analyzer.
func Discover(flags Flags, cfg config.Config) ([]*service.Service, []string, error) {
	return service.Discover(afero.NewOsFs(), flags.Target, service.DiscoverOptions{
		EnableBuildfile:   flags.EnableBuildfile,
		EnableJustfile:    flags.EnableJustfile,
		EnableMakefile:    flags.EnableMakefile,
		GoPackagePrefixes: cfg.GoPackagePrefixes(),
		DotnetNamespaces:  cfg.DotnetNamespaces(),
	})
}

// Resolve runs the impact resolver against the discovered services.
func Resolve(services []*service.Service, changed []string, cfg config.Config, target string) ([]*service.Service, []string, error) {
	return resolve.Resolve(services, changed, resolve.Config{GlobalDependencies: cfg.GlobalDependencies}, target)
}
