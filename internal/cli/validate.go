package cli

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check YAML for syntax errors and tab characters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

func runValidate(args []string) error {
	text, path, err := readInput(args)
	if err != nil {
		return err
	}

	result := newAppService().Validate(text)
	if result.Valid {
		fmt.Println("valid")
		return nil
	}
	for _, codeErr := range result.Errors {
		fmt.Println(codeErr.String())
	}
	target := path
	if target == "" {
		target = "stdin"
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("yaml validation failed: " + target)
}
