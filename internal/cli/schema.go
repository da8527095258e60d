package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"yasb-schema/internal/types"
)

func newSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the widget schema database",
	}
	cmd.AddCommand(newSchemaUpdateCommand())
	cmd.AddCommand(newSchemaListCommand())
	cmd.AddCommand(newSchemaShowCommand())
	return cmd
}

func newSchemaUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Fetch the upstream schema and rebuild the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchemaUpdate(cmd.Context())
		},
	}
}

func runSchemaUpdate(ctx context.Context) error {
	result, err := newAppService().UpdateSchemas(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("updated %d widget schemas from %s\n", result.WidgetCount, result.Source)
	return nil
}

func newSchemaListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List widget types in the schema database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchemaList()
		},
	}
}

func runSchemaList() error {
	widgets, err := newAppService().ListWidgets()
	if err != nil {
		return err
	}
	if len(widgets) == 0 {
		fmt.Println("schema database is empty; run 'yasb-schema schema update' first")
		return nil
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	writer.AppendHeader(table.Row{"Widget Type", "Options"})
	for _, widget := range widgets {
		writer.AppendRow(table.Row{widget.Type, widget.OptionKeys})
	}
	writer.SetStyle(table.StyleLight)
	writer.Render()
	return nil
}

func newSchemaShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <widget-type>",
		Short: "Show the option hierarchy of one widget type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaShow(args[0])
		},
	}
}

func runSchemaShow(widgetType string) error {
	hierarchy, err := newAppService().WidgetHierarchy(widgetType)
	if err != nil {
		return err
	}

	addresses := make([]string, 0, len(hierarchy))
	for address := range hierarchy {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	writer.AppendHeader(table.Row{"Address", "Kind", "Children"})
	for _, address := range addresses {
		node := hierarchy[address]
		writer.AppendRow(table.Row{address, string(node.Kind), len(node.Children)})
	}
	writer.SetStyle(table.StyleLight)
	writer.Render()

	root := hierarchy[types.RootAddress]
	fmt.Printf("%d top-level options\n", len(root.Children))
	return nil
}
