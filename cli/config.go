package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"txtransform/config"
)

func newTransformersCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "transformers",
		Short: "List the transformer names a preset may use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.app(cmd, appOptions{})
			if err != nil {
				return err
			}
			names := a.svc.TransformerNames()
			t := tableData{Headers: []string{"NAME"}}
			for _, n := range names {
				t.Rows = append(t.Rows, []string{n})
			}
			out := cmd.OutOrStdout()
			return render(out, detectFormat(env.output, out), names, t)
		},
	}
}

func newConfigCmd(env *cmdEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the persisted settings in config.toml",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := env.app(cmd, appOptions{})
				if err != nil {
					return err
				}
				cfg := a.svc.Config()
				out := cmd.OutOrStdout()
				return render(out, detectFormat(env.output, out), cfg, tableData{
					Headers: []string{"KEY", "VALUE"},
					Rows: [][]string{
						{"theme", cfg.Theme},
						{"font_size", strconv.Itoa(int(cfg.FontSize))},
					},
				})
			},
		},
		&cobra.Command{
			Use:       "set KEY VALUE",
			Short:     "Change one setting",
			Args:      cobra.ExactArgs(2),
			ValidArgs: []string{"theme", "font_size"},
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := env.app(cmd, appOptions{})
				if err != nil {
					return err
				}
				cfg, err := setConfigKey(a.svc.Config(), args[0], args[1])
				if err != nil {
					return err
				}
				return a.svc.SaveConfig(cfg)
			},
		},
	)
	return cmd
}

func setConfigKey(cfg config.Config, key, value string) (config.Config, error) {
	switch key {
	case "theme":
		cfg.Theme = value
	case "font_size":
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return cfg, fmt.Errorf("font_size: %w", err)
		}
		cfg.FontSize = uint8(n)
	default:
		return cfg, fmt.Errorf("unknown config key %q", key)
	}
	return cfg, nil
}
