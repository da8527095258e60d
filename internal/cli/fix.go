package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"yasb-schema/internal/app"
)

type fixOptions struct {
	WidgetType string
	Write      bool
}

func newFixCommand() *cobra.Command {
	opts := fixOptions{}
	cmd := &cobra.Command{
		Use:   "fix [file]",
		Short: "Repair YAML indentation using the widget schema",
		Long: "Repair the indentation of pasted widget options. Reads from the " +
			"given file or stdin; the widget type is taken from --widget or " +
			"detected from a full widget paste.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd.Context(), args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.WidgetType, "widget", "", "Widget type hint (e.g. yasb.clock.ClockWidget)")
	cmd.Flags().BoolVar(&opts.Write, "write", false, "Rewrite the input file in place")
	return cmd
}

func runFix(ctx context.Context, args []string, opts fixOptions) error {
	text, path, err := readInput(args)
	if err != nil {
		return err
	}

	service := newAppService()
	result, err := service.FixIndentation(ctx, app.FixRequest{Text: text, WidgetType: opts.WidgetType})
	if err != nil {
		return err
	}

	if result.Residual != "" {
		log.Warn().Msg(result.Residual)
	}

	if opts.Write && path != "" {
		return os.WriteFile(path, []byte(result.Text), 0644)
	}
	fmt.Println(result.Text)
	return nil
}

// readInput returns the text of the file argument, or stdin when no
// argument was given.  The second value is the file path, empty for
// stdin.
func readInput(args []string) (string, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to read stdin").
				WithCause(err)
		}
		return string(data), "", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read input file: " + args[0]).
			WithCause(err)
	}
	return string(data), args[0], nil
}
