package todo

import (
	"cmp"
	"slices"
	"strings"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
)

// SortKey selects the single key a query result is ordered by.
type SortKey string

const (
	SortNone     SortKey = ""
	SortPriority SortKey = "priority"
	SortDate     SortKey = "date"
	SortCategory SortKey = "category"
	SortCreated  SortKey = "created"
	SortCrossed  SortKey = "crossed"
)

// noDueSentinel places undated tasks after every real due date.
const noDueSentinel = "9999-99-99"

// ParseSortKey accepts the sort key names plus a few aliases.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "priority":
		return SortPriority, nil
	case "date", "due":
		return SortDate, nil
	case "category":
		return SortCategory, nil
	case "created":
		return SortCreated, nil
	case "crossed", "completed", "status":
		return SortCrossed, nil
	default:
		return SortNone, todoerrors.ValidationError{
			Field:  "sort",
			Value:  s,
			Reason: "valid: priority, date, category, created, crossed",
		}
	}
}

// Query describes a read-only projection of the store.
type Query struct {
	Filter        string
	ShowCompleted bool
	Sort          SortKey
}

// Query returns copies of the matching tasks, stably sorted by q.Sort.
// The store's own order is never changed.
func (s *Store) Query(q Query) []*task.Task {
	needle := strings.ToLower(strings.TrimSpace(q.Filter))

	s.mu.Lock()
	var out []*task.Task
	for _, t := range s.tasks {
		if !q.ShowCompleted && t.Crossed {
			continue
		}
		if needle != "" && !matches(t, needle) {
			continue
		}
		out = append(out, t.Clone())
	}
	s.mu.Unlock()

	if cmpFn := comparator(q.Sort); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

func matches(t *task.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Text), needle) ||
		strings.Contains(strings.ToLower(string(t.Category)), needle) ||
		strings.Contains(strings.ToLower(string(t.Priority)), needle)
}

func comparator(key SortKey) func(a, b *task.Task) int {
	switch key {
	case SortPriority:
		return func(a, b *task.Task) int {
			return cmp.Compare(task.PriorityRank(a.Priority), task.PriorityRank(b.Priority))
		}
	case SortDate:
		return func(a, b *task.Task) int {
			return strings.Compare(dueKey(a), dueKey(b))
		}
	case SortCategory:
		return func(a, b *task.Task) int {
			return strings.Compare(string(a.Category), string(b.Category))
		}
	case SortCreated:
		return func(a, b *task.Task) int {
			return a.Created.Compare(b.Created)
		}
	case SortCrossed:
		return func(a, b *task.Task) int {
			return cmp.Compare(boolRank(a.Crossed), boolRank(b.Crossed))
		}
	default:
		return nil
	}
}

func dueKey(t *task.Task) string {
	if t.Due == "" {
		return noDueSentinel
	}
	return t.Due
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Stats summarizes the collection for a status line.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}

// Stats counts tasks, using the store clock for today's date.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := task.Today(s.now())
	var st Stats
	st.Total = len(s.tasks)
	for _, t := range s.tasks {
		if t.Crossed {
			st.Completed++
		}
		if t.IsOverdue(today) {
			st.Overdue++
		}
	}
	st.Pending = st.Total - st.Completed
	return st
}
