package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/todo/internal/task"
	"github.com/abatilo/todo/internal/todo"
)

const today = "2024-06-15"

func sample() []*task.Task {
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	done := created.Add(time.Hour)
	return []*task.Task{
		{ID: "a1b", Text: "Pay rent", Priority: task.PriorityCritical, Category: task.CategoryFinance, Due: "2024-06-01", Created: created},
		{ID: "c2d", Text: "Read book", Priority: task.PriorityLow, Category: task.CategoryEducation, Created: created},
		{ID: "e3f", Text: "Buy milk", Priority: task.PriorityHigh, Category: task.CategoryShopping, Due: "2024-06-01", Crossed: true, Created: created, CompletedDate: &done, Notes: "2%"},
	}
}

func TestHumanTaskList(t *testing.T) {
	f := NewHumanFormatter(false, today)
	got := f.FormatTaskList(sample())

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[ ] Critical [a1b] Pay rent #Finance due 2024-06-01 (overdue)", lines[0])
	assert.Equal(t, "[ ] Low      [c2d] Read book #Education", lines[1])
	assert.Equal(t, "[x] High     [e3f] Buy milk #Shopping due 2024-06-01", lines[2], "completed tasks are never overdue")

	assert.Equal(t, "No tasks found.\n", f.FormatTaskList(nil))
}

func TestHumanTask(t *testing.T) {
	f := NewHumanFormatter(false, today)
	got := f.FormatTask(sample()[2])

	assert.True(t, strings.HasPrefix(got, "[e3f] Buy milk\n"))
	assert.Contains(t, got, "  Status:    done\n")
	assert.Contains(t, got, "  Priority:  High\n")
	assert.Contains(t, got, "  Category:  Shopping\n")
	assert.Contains(t, got, "  Due:       2024-06-01\n")
	assert.Contains(t, got, "  Created:   2024-06-01 09:00:00\n")
	assert.Contains(t, got, "  Completed: 2024-06-01 10:00:00\n")
	assert.NotContains(t, got, "Modified")
	assert.True(t, strings.HasSuffix(got, "\n2%\n"))
}

func TestHumanStatsAndMessages(t *testing.T) {
	f := NewHumanFormatter(false, today)
	assert.Equal(t, "Total: 3 | Completed: 1 | Pending: 2 | Overdue: 1\n",
		f.FormatStats(todo.Stats{Total: 3, Completed: 1, Pending: 2, Overdue: 1}))
	assert.Equal(t, "Error: boom\n", f.FormatError(errors.New("boom")))
	assert.Equal(t, "hi\n", f.FormatMessage("hi"))
}

func TestJSONFormatter(t *testing.T) {
	f := New(true, false, today)

	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.FormatTaskList(sample())), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "a1b", list[0]["id"])
	assert.Equal(t, "Pay rent", list[0]["text"])
	assert.Equal(t, "Critical", list[0]["priority"])
	assert.Equal(t, "2024-06-01 09:00:00", list[0]["created"])
	assert.Equal(t, true, list[2]["crossed"])
	assert.Equal(t, "2024-06-01 10:00:00", list[2]["completed_date"])
	assert.NotContains(t, list[0], "completed_date")

	var one map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.FormatTask(sample()[1])), &one))
	assert.Equal(t, "Education", one["category"])

	assert.JSONEq(t, `{"total":2,"completed":1,"pending":1,"overdue":0}`,
		f.FormatStats(todo.Stats{Total: 2, Completed: 1, Pending: 1}))
	assert.JSONEq(t, `{"error":"boom"}`, f.FormatError(errors.New("boom")))
	assert.JSONEq(t, `{"message":"hi"}`, f.FormatMessage("hi"))
}

func TestNewPicksHuman(t *testing.T) {
	_, ok := New(false, true, today).(*HumanFormatter)
	assert.True(t, ok)
}
