package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abatilo/todo/internal/export"
	"github.com/abatilo/todo/internal/todo"
)

// exportCmd implements 'todo export'.
func exportCmd(a *app) *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write all tasks to a json, yaml, txt or md file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format := export.FormatFromPath(path)
			if cmd.Flags().Changed("format") {
				var err error
				if format, err = export.ParseFormat(formatName); err != nil {
					return err
				}
			}

			tasks := a.loadStore().Query(todo.Query{ShowCompleted: true})
			if err := export.WriteFile(path, tasks, format); err != nil {
				return err
			}
			a.print(a.formatter.FormatMessage(fmt.Sprintf("Exported %d task(s) to %s", len(tasks), path)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "Format: json, yaml, txt or md (default from the file extension)")
	return cmd
}

// importCmd implements 'todo import'.
func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append tasks from a json or yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tasks, err := export.ReadFile(args[0], a.now(), a.logger)
			if err != nil {
				return err
			}
			n := a.loadStore().Import(tasks)
			if err = a.save(); err != nil {
				return err
			}
			a.print(a.formatter.FormatMessage(fmt.Sprintf("Imported %d task(s) from %s", n, args[0])))
			return nil
		},
	}
}
