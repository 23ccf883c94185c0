// Package cli is the txtransform command tree.
//
// Settings resolve in this order: flags, TXTRANSFORM_* environment variables
// (including ones loaded from .env and .env.local), then defaults.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the command tree with os.Args.
func Execute(ctx context.Context) error {
	loadEnvFiles()
	return NewRootCommand().ExecuteContext(ctx)
}

// cmdEnv is shared by every subcommand of one root.
type cmdEnv struct {
	v      *viper.Viper
	output string
}

// app loads settings and builds the services for cmd. Logs go to the
// command's stderr.
func (e *cmdEnv) app(cmd *cobra.Command, opts appOptions) (*app, error) {
	s, err := loadSettings(e.v)
	if err != nil {
		return nil, err
	}
	return newApp(s, cmd.ErrOrStderr(), opts), nil
}

func NewRootCommand() *cobra.Command {
	env := &cmdEnv{v: newViper()}

	root := &cobra.Command{
		Use:   "txtransform",
		Short: "Run text through named chains of transformers",
		Long: `txtransform keeps a list of presets, each an ordered chain of
transformers (pretty_json, json_unescape, custom_py), and runs text
through them from the command line or over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(env.v, cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config-dir", "", "directory holding config.toml and presets.toml")
	pf.String("data-dir", "", "directory holding custom_py scripts")
	pf.String("interpreter", "", "interpreter for custom_py scripts (default python3)")
	pf.Duration("script-timeout", 0, "kill custom_py scripts after this long, 0 disables (default 30s)")
	pf.String("log-level", "", "trace, debug, info, warn or error (default info)")
	pf.String("log-format", "", "auto, console or json (default auto)")
	pf.StringVarP(&env.output, "output", "o", "", "output format: table, json or yaml")

	root.AddCommand(
		newServeCmd(env),
		newTransformCmd(env),
		newPresetCmd(env),
		newTransformersCmd(env),
		newConfigCmd(env),
		newRunsCmd(env),
	)
	return root
}
