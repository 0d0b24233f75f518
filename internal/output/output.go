package output

import (
	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/todo"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t *task.Task) string
	FormatTaskList(tasks []*task.Task) string
	FormatStats(s todo.Stats) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// New returns the JSON formatter when jsonMode is set and the human one
// otherwise. today is the YYYY-MM-DD date used to flag overdue tasks.
func New(jsonMode, color bool, today string) Formatter {
	if jsonMode {
		return NewJSONFormatter()
	}
	return NewHumanFormatter(color, today)
}
