package cli

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
)

type formatOptions struct {
	Write bool
}

func newFormatCommand() *cobra.Command {
	opts := formatOptions{}
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Reformat YAML with two-space indentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Write, "write", false, "Rewrite the input file in place")
	return cmd
}

func runFormat(args []string, opts formatOptions) error {
	text, path, err := readInput(args)
	if err != nil {
		return err
	}

	formatted, diag := newAppService().Format(text)
	if diag != "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cannot format invalid yaml: " + diag)
	}

	if opts.Write && path != "" {
		return os.WriteFile(path, []byte(formatted), 0644)
	}
	fmt.Print(formatted)
	return nil
}
