package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"txtransform/preset"
)

func newPresetCmd(env *cmdEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "preset",
		Aliases: []string{"presets"},
		Short:   "Manage presets",
	}
	cmd.AddCommand(
		newPresetListCmd(env),
		newPresetAddCmd(env),
		newPresetDeleteCmd(env),
		newPresetReplaceCmd(env),
	)
	return cmd
}

func newPresetListCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List presets in the order they were added",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.app(cmd, appOptions{})
			if err != nil {
				return err
			}
			list := a.svc.ListPresets()
			out := cmd.OutOrStdout()
			return render(out, detectFormat(env.output, out), list, presetTable(list))
		},
	}
}

func presetTable(list []preset.Preset) tableData {
	t := tableData{Headers: []string{"NAME", "TRANSFORMERS", "ARGS"}}
	for _, p := range list {
		t.Rows = append(t.Rows, []string{p.Name, strings.Join(p.Transformers, " > "), formatArgs(p.ExtraArgs)})
	}
	return t
}

func formatArgs(args map[string]string) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + args[k]
	}
	return strings.Join(parts, " ")
}

func newPresetAddCmd(env *cmdEnv) *cobra.Command {
	var args map[string]string
	cmd := &cobra.Command{
		Use:   "add NAME [TRANSFORMER...]",
		Short: "Append a preset",
		Long: `Append a preset running TRANSFORMER... in order. Arguments given
with --arg are passed to every step.

Adding a name that already exists keeps both entries; lookups use the most
recent one.`,
		Example: `  txtransform preset add fmt json_unescape pretty_json
  txtransform preset add clean custom_py --arg py_script=clean.py`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			if strings.TrimSpace(pos[0]) == "" {
				return fmt.Errorf("preset name must not be empty")
			}
			a, err := env.app(cmd, appOptions{})
			if err != nil {
				return err
			}
			a.svc.AddPreset(preset.Preset{Name: pos[0], Transformers: pos[1:], ExtraArgs: args})
			return nil
		},
	}
	cmd.Flags().StringToStringVarP(&args, "arg", "a", nil, "argument passed to every step, as key=value")
	return cmd
}

func newPresetDeleteCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete every preset called NAME",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			a, err := env.app(cmd, appOptions{})
			if err != nil {
				return err
			}
			a.svc.DeletePreset(pos[0])
			return nil
		},
	}
}

func newPresetReplaceCmd(env *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "replace FILE",
		Short: "Replace the whole preset list from a YAML or JSON file",
		Long: `Replace the whole preset list with the one in FILE ("-" for standard
input). FILE holds a list of presets in YAML or JSON:

  - name: fmt
    transformers: [json_unescape, pretty_json]
  - name: clean
    transformers: [custom_py, pretty_json]
    step_args:
      - {py_script: clean.py}
      - {}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			var data []byte
			var err error
			if pos[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(pos[0])
			}
			if err != nil {
				return err
			}

			var list []preset.Preset
			if err := yaml.Unmarshal(data, &list); err != nil {
				return fmt.Errorf("parse presets: %w", err)
			}
			for i, p := range list {
				if strings.TrimSpace(p.Name) == "" {
					return fmt.Errorf("preset %d has no name", i)
				}
			}

			a, err := env.app(cmd, appOptions{})
			if err != nil {
				return err
			}
			updated, err := a.svc.ReplacePresets(list)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved %d presets\n", len(updated))
			return nil
		},
	}
}
