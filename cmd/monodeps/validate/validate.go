// Package validate implements the `validate <path>` subcommand: discover
// the single service rooted at path and print its declared and
// auto-discovered dependencies.
package validate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monodeps/monodeps/internal/app"
	"github.com/monodeps/monodeps/internal/output"
	"github.com/monodeps/monodeps/internal/pathinfo"
)

// NewValidateCmd builds the `validate` subcommand. It reuses the root
// command's persistent flags (--target, --config, --makefile, --justfile,
// --buildfile, --relative) via cobra's inherited-flag lookup.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Discover a single service and print its dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetString("target")
			configPath, _ := cmd.Flags().GetString("config")
			enableMakefile, _ := cmd.Flags().GetBool("makefile")
			enableJustfile, _ := cmd.Flags().GetBool("justfile")
			enableBuildfile, _ := cmd.Flags().GetBool("buildfile")
			relative, _ := cmd.Flags().GetBool("relative")

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

			services, _, err := app.Discover(flags, cfg)
			if err != nil {
				return err
			}

			want := pathinfo.New(args[0], target)
			for _, svc := range services {
				if svc.Dir.Equal(want) {
					var origin *pathinfo.Info
					if relative {
						o := pathinfo.New(target, ".")
						origin = &o
					}
					output.WriteValidation(os.Stdout, svc, origin)
					return nil
				}
			}

			return fmt.Errorf("no service rooted at %s", want.Canonical)
		},
	}
}
