package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/todo"
)

type styles struct {
	id       lipgloss.Style
	done     lipgloss.Style
	overdue  lipgloss.Style
	muted    lipgloss.Style
	label    lipgloss.Style
	priority map[task.Priority]lipgloss.Style
}

func newStyles(color bool) styles {
	plain := lipgloss.NewStyle()
	if !color {
		return styles{
			id:       plain,
			done:     plain,
			overdue:  plain,
			muted:    plain,
			label:    plain,
			priority: map[task.Priority]lipgloss.Style{},
		}
	}
	return styles{
		id:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		done:    lipgloss.NewStyle().Faint(true).Strikethrough(true),
		overdue: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		label:   lipgloss.NewStyle().Bold(true),
		priority: map[task.Priority]lipgloss.Style{
			task.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			task.PriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			task.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			task.PriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	today string
	st    styles
}

// NewHumanFormatter creates a new HumanFormatter. Colors are applied only
// when color is true.
func NewHumanFormatter(color bool, today string) *HumanFormatter {
	return &HumanFormatter{today: today, st: newStyles(color)}
}

func (f *HumanFormatter) priority(p task.Priority) string {
	style, ok := f.st.priority[p]
	if !ok {
		return string(p)
	}
	return style.Render(string(p))
}

func (f *HumanFormatter) dueText(t *task.Task) string {
	if t.Due == "" {
		return ""
	}
	if t.IsOverdue(f.today) {
		return f.st.overdue.Render(t.Due + " (overdue)")
	}
	return t.Due
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t *task.Task) string {
	var sb strings.Builder
	row := func(name, value string) {
		fmt.Fprintf(&sb, "  %s %s\n", f.st.label.Render(fmt.Sprintf("%-10s", name+":")), value)
	}

	fmt.Fprintf(&sb, "%s %s\n", f.st.id.Render("["+t.ID+"]"), t.Text)
	status := "pending"
	if t.Crossed {
		status = "done"
	}
	row("Status", status)
	row("Priority", f.priority(t.Priority))
	row("Category", string(t.Category))
	if t.Due != "" {
		row("Due", f.dueText(t))
	}
	row("Created", task.FormatTimestamp(t.Created))
	if t.CompletedDate != nil {
		row("Completed", task.FormatTimestamp(*t.CompletedDate))
	}
	if t.Modified != nil {
		row("Modified", task.FormatTimestamp(*t.Modified))
	}
	if t.Notes != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Notes)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t *task.Task) string {
	box := "[ ]"
	text := t.Text
	if t.Crossed {
		box = "[x]"
		text = f.st.done.Render(text)
	}
	prio := f.priority(t.Priority) + strings.Repeat(" ", max(0, len("Critical")-len(t.Priority)))

	extra := " " + f.st.muted.Render("#"+string(t.Category))
	if due := f.dueText(t); due != "" {
		extra += " due " + due
	}
	return fmt.Sprintf("%s %s %s %s%s\n", box, prio, f.st.id.Render("["+t.ID+"]"), text, extra)
}

// FormatStats formats collection counts as a status line.
func (f *HumanFormatter) FormatStats(s todo.Stats) string {
	overdue := fmt.Sprintf("Overdue: %d", s.Overdue)
	if s.Overdue > 0 {
		overdue = f.st.overdue.Render(overdue)
	}
	return fmt.Sprintf("Total: %d | Completed: %d | Pending: %d | %s\n",
		s.Total, s.Completed, s.Pending, overdue)
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
