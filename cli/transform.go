package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"txtransform/pipeline"
)

func newTransformCmd(env *cmdEnv) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "transform PRESET [FILE]",
		Short: "Run a preset over FILE or standard input",
		Long: `Run the named preset over FILE, or standard input when FILE is
omitted or "-", and print the result.

An unknown preset returns the input unchanged unless --strict is set.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args[1:])
			if err != nil {
				return err
			}
			a, err := env.app(cmd, appOptions{strict: strict})
			if err != nil {
				return err
			}
			res, err := a.svc.Execute(cmd.Context(), string(input), args[0])
			if err != nil {
				return errors.New(pipeline.Message(err))
			}
			_, err = io.WriteString(cmd.OutOrStdout(), res.Output)
			return err
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the preset does not exist")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}
