package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/monodeps/monodeps/internal/app"
	"github.com/monodeps/monodeps/internal/diagnostics"
	"github.com/monodeps/monodeps/internal/output"
	"github.com/monodeps/monodeps/internal/pathinfo"
	"github.com/monodeps/monodeps/internal/service"
)

func newRootCmd() *cobra.Command {
	var (
		target          string
		configPath      string
		outputFormat    string
		enableMakefile  bool
		enableJustfile  bool
		enableBuildfile bool
		relative        bool
		verbose         bool
		all             bool
	)

	cmd := &cobra.Command{
		Use:   "monodeps",
		Short: "Change-impact analyzer for monorepos",
		Long: `monodeps discovers service boundaries in a monorepo from marker files
and ecosystem source artifacts, then reports which services a set of
changed paths impacts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			diagnostics.SetVerbose(verbose)

			flags := app.Flags{
				Target:          target,
				ConfigPath:      configPath,
				EnableMakefile:  enableMakefile,
				EnableJustfile:  enableJustfile,
				EnableBuildfile: enableBuildfile,
			}

			cfg, err := app.LoadConfig(flags)
			if err != nil {
				return err
			}

			services, warnings, err := app.Discover(flags, cfg)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				diagnostics.Warnf("%s", w)
			}

			var triggered []*service.Service
			if all {
				triggered = services
			} else {
				changed, err := readChangedFiles(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				resolved, resolveWarnings, err := app.Resolve(services, changed, cfg, target)
				if err != nil {
					return err
				}
				for _, w := range resolveWarnings {
					diagnostics.Warnf("%s", w)
				}
				triggered = resolved
			}

			var origin *pathinfo.Info
			if relative {
				o := pathinfo.New(target, ".")
				origin = &o
			}

			switch outputFormat {
			case "json":
				return output.WriteServicesJSON(os.Stdout, triggered, origin)
			case "yaml":
				return output.WriteServicesYAML(os.Stdout, triggered, origin)
			default:
				output.WriteServicesPlain(os.Stdout, triggered, origin, verbose)
				return nil
			}
		},
	}

	cmd.PersistentFlags().StringVar(&target, "target", ".", "target directory to discover services under")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to .monodeps.yaml (default ./.monodeps.yaml if present)")
	cmd.PersistentFlags().StringVar(&outputFormat, "output", "plain", "output format: plain|json|yaml")
	cmd.PersistentFlags().BoolVar(&enableMakefile, "makefile", false, "recognize Makefile as a marker")
	cmd.PersistentFlags().BoolVar(&enableJustfile, "justfile", false, "recognize justfile as a marker")
	cmd.PersistentFlags().BoolVar(&enableBuildfile, "buildfile", false, "recognize Buildfile.yaml as a marker")
	cmd.PersistentFlags().BoolVar(&relative, "relative", false, "emit paths relative to target")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose diagnostics")
	cmd.PersistentFlags().BoolVar(&all, "all", false, "skip change-based filtering and list every service")

	return cmd
}

// readChangedFiles reads newline-delimited changed paths from r. Empty
// input yields an empty result.
func readChangedFiles(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var out []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out, scanner.Err()
}
