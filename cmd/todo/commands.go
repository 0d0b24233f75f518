package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/todo"
)

const (
	priorityUsage = "Priority (low, medium, high, critical)"
	categoryUsage = "Category (personal, work, shopping, health, education, finance, other)"
)

// parsePriority accepts any letter case. Unknown values pass through so the
// store can reject them with a validation error.
func parsePriority(s string) task.Priority {
	if p, ok := task.ParsePriority(s); ok {
		return p
	}
	return task.Priority(strings.TrimSpace(s))
}

func parseCategory(s string) task.Category {
	if c, ok := task.ParseCategory(s); ok {
		return c
	}
	return task.Category(strings.TrimSpace(s))
}

// addCmd implements 'todo add'.
func addCmd(a *app) *cobra.Command {
	var priority, category, due, notes string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store := a.loadStore()

			// The store validates and trims the draft
			t, err := store.Add(todo.Draft{
				Text:     strings.Join(args, " "),
				Priority: parsePriority(priority),
				Category: parseCategory(category),
				Due:      due,
				Notes:    notes,
			})
			if err != nil {
				return err
			}

			// Past due dates and duplicates are allowed; only warn
			if t.Due != "" && t.Due < a.today() {
				a.warn("due date %s is in the past", t.Due)
			}
			if hasDuplicate(store, t) {
				a.warn("another task is already named %q", t.Text)
			}

			if err = a.save(); err != nil {
				return err
			}
			a.print(a.formatter.FormatTask(t))
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", "", priorityUsage+" (default medium)")
	cmd.Flags().StringVarP(&category, "category", "c", "", categoryUsage+" (default other)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Free-form notes")
	return cmd
}

func hasDuplicate(store *todo.Store, added *task.Task) bool {
	for _, t := range store.Query(todo.Query{ShowCompleted: true}) {
		if t.ID != added.ID && strings.EqualFold(t.Text, added.Text) {
			return true
		}
	}
	return false
}

// editCmd implements 'todo edit'.
func editCmd(a *app) *cobra.Command {
	var text, priority, category, due, notes string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only flags given on the command line become part of the patch
			var p todo.Patch
			flags := cmd.Flags()
			if flags.Changed("text") {
				p.Text = &text
			}
			if flags.Changed("priority") {
				v := parsePriority(priority)
				p.Priority = &v
			}
			if flags.Changed("category") {
				v := parseCategory(category)
				p.Category = &v
			}
			if flags.Changed("due") {
				p.Due = &due
			}
			if flags.Changed("notes") {
				p.Notes = &notes
			}
			if p.IsEmpty() {
				return todoerrors.ValidationError{
					Field:  "edit",
					Reason: "nothing to change; pass --text, --priority, --category, --due or --notes",
				}
			}

			t, err := a.loadStore().Edit(args[0], p)
			if err != nil {
				return err
			}
			if err = a.save(); err != nil {
				return err
			}
			a.print(a.formatter.FormatTask(t))
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "New task text")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", priorityUsage)
	cmd.Flags().StringVarP(&category, "category", "c", "", categoryUsage)
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Notes (replaces existing notes)")
	return cmd
}

// doneCmd implements 'todo done'.
func doneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Cross a task off",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.loadStore().Complete(args[0])
			return a.finishToggle(t, err)
		},
	}
}

// reopenCmd implements 'todo reopen'.
func reopenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Mark a crossed-off task as open again",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.loadStore().Reopen(args[0])
			return a.finishToggle(t, err)
		},
	}
}

// finishToggle handles the result of Complete or Reopen. Their no-op
// signals are reported as a message and are not failures.
func (a *app) finishToggle(t *task.Task, err error) error {
	if err != nil {
		var alreadyDone todoerrors.AlreadyDoneError
		var notDone todoerrors.NotDoneError
		if errors.As(err, &alreadyDone) || errors.As(err, &notDone) {
			a.print(a.formatter.FormatMessage(capitalize(err.Error())))
			return nil
		}
		return err
	}
	if err = a.save(); err != nil {
		return err
	}
	a.print(a.formatter.FormatTask(t))
	return nil
}

// showCmd implements 'todo show'.
func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := a.loadStore().Get(args[0])
			if err != nil {
				return err
			}
			a.print(a.formatter.FormatTask(t))
			return nil
		},
	}
}

// rmCmd implements 'todo rm'.
func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.loadStore().Delete(args[0]); err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			a.print(a.formatter.FormatMessage("Deleted task " + args[0]))
			return nil
		},
	}
}

// listCmd implements 'todo list'.
func listCmd(a *app) *cobra.Command {
	var search, sortKey string
	var hideCompleted, all bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("sort") {
				sortKey = a.cfg.DefaultSort
			}
			key, err := todo.ParseSortKey(sortKey)
			if err != nil {
				return err
			}

			showCompleted := a.cfg.ShowCompleted
			if hideCompleted {
				showCompleted = false
			}
			if all {
				showCompleted = true
			}

			tasks := a.loadStore().Query(todo.Query{
				Filter:        search,
				ShowCompleted: showCompleted,
				Sort:          key,
			})
			a.print(a.formatter.FormatTaskList(tasks))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only tasks whose text, category or priority contains this")
	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort by priority, date, category, created, crossed or none")
	cmd.Flags().BoolVar(&hideCompleted, "hide-completed", false, "Hide crossed-off tasks")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include crossed-off tasks")
	cmd.MarkFlagsMutuallyExclusive("hide-completed", "all")
	return cmd
}

// statsCmd implements 'todo stats'.
func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count total, completed, pending and overdue tasks",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.print(a.formatter.FormatStats(a.loadStore().Stats()))
			return nil
		},
	}
}

// cleanCmd implements 'todo clean'.
func cleanCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete all crossed-off tasks",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store := a.loadStore()

			// Nothing to do, don't prompt
			completed := store.Stats().Completed
			if completed == 0 {
				a.print(a.formatter.FormatMessage("No completed tasks to delete."))
				return nil
			}
			if !yes {
				ok, err := a.confirm(fmt.Sprintf("Delete %d completed task(s)?", completed))
				if err != nil || !ok {
					a.print(a.formatter.FormatMessage("Aborted."))
					return err
				}
			}

			// Confirmed; delete and save in one step
			n := store.DeleteCompleted()
			if err := a.save(); err != nil {
				return err
			}
			a.print(a.formatter.FormatMessage(fmt.Sprintf("Deleted %d completed task(s).", n)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// clearCmd implements 'todo clear'.
func clearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store := a.loadStore()

			// Nothing to do, don't prompt
			total := store.Len()
			if total == 0 {
				a.print(a.formatter.FormatMessage("No tasks to delete."))
				return nil
			}
			if !yes {
				ok, err := a.confirm(fmt.Sprintf("Delete all %d task(s)? This cannot be undone.", total))
				if err != nil || !ok {
					a.print(a.formatter.FormatMessage("Aborted."))
					return err
				}
			}

			// Confirmed; delete and save in one step
			n := store.ClearAll()
			if err := a.save(); err != nil {
				return err
			}
			a.print(a.formatter.FormatMessage(fmt.Sprintf("Deleted %d task(s).", n)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
// Anything but y or yes, including end of input, is a no.
func (a *app) confirm(prompt string) (bool, error) {
	fmt.Fprintf(a.errOut, "%s [y/N] ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
