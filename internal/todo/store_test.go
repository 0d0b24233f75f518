package todo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
)

// fixedClock returns a clock frozen at 2024-06-15 12:00:00 local time.
func fixedClock() func() time.Time {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	return func() time.Time { return now }
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(nil, WithClock(fixedClock()))
}

func ptr[T any](v T) *T { return &v }

func TestStore_Add(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Add(Draft{Text: "  Buy milk  ", Category: task.CategoryShopping, Due: "2024-07-01"})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Buy milk", got.Text)
	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.Equal(t, task.CategoryShopping, got.Category)
	assert.Equal(t, "2024-07-01", got.Due)
	assert.False(t, got.Crossed)
	assert.Nil(t, got.CompletedDate)
	assert.Equal(t, fixedClock()(), got.Created)
	assert.True(t, s.Dirty())

	all := s.Query(Query{ShowCompleted: true})
	count := 0
	for _, tk := range all {
		if tk.ID == got.ID {
			count++
		}
	}
	assert.Equal(t, 1, count, "new task should appear exactly once")
}

func TestStore_AddDefaults(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Add(Draft{Text: "call mom"})
	require.NoError(t, err)
	assert.Equal(t, task.DefaultPriority, got.Priority)
	assert.Equal(t, task.DefaultCategory, got.Category)
	assert.Empty(t, got.Due)
}

func TestStore_AddValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{"empty text", Draft{Text: ""}, "text"},
		{"whitespace text", Draft{Text: "   "}, "text"},
		{"impossible date", Draft{Text: "x", Due: "2099-02-30"}, "due"},
		{"wrong date format", Draft{Text: "x", Due: "01/02/2024"}, "due"},
		{"unknown priority", Draft{Text: "x", Priority: "Urgent"}, "priority"},
		{"unknown category", Draft{Text: "x", Category: "Hobby"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)

			got, err := s.Add(tt.draft)
			require.Error(t, err)
			assert.Nil(t, got)

			var verr todoerrors.ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %T", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, 0, s.Len(), "nothing should be appended")
			assert.False(t, s.Dirty())
		})
	}
}

func TestStore_AddAllowsDuplicates(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Add(Draft{Text: "water plants"})
	require.NoError(t, err)
	b, err := s.Add(Draft{Text: "water plants"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Edit(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.Add(Draft{Text: "draft report", Priority: task.PriorityLow, Notes: "first pass"})
	require.NoError(t, err)

	got, err := s.Edit(orig.ID, Patch{
		Priority: ptr(task.PriorityHigh),
		Due:      ptr("2024-06-20"),
	})
	require.NoError(t, err)

	assert.Equal(t, "draft report", got.Text, "unsupplied fields stay")
	assert.Equal(t, "first pass", got.Notes)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, "2024-06-20", got.Due)
	require.NotNil(t, got.Modified)
	assert.Equal(t, fixedClock()(), *got.Modified)
	assert.Equal(t, orig.Created, got.Created, "created is immutable")
}

func TestStore_EditRejectsWholePatch(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.Add(Draft{Text: "file taxes"})
	require.NoError(t, err)

	_, err = s.Edit(orig.ID, Patch{
		Text: ptr("file taxes early"),
		Due:  ptr("2024-13-01"),
	})
	var verr todoerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "due", verr.Field)

	after, err := s.Get(orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "file taxes", after.Text, "text must not be partially applied")
	assert.Nil(t, after.Modified)
}

func TestStore_EditClearsDueAndRejectsBlankText(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.Add(Draft{Text: "dentist", Due: "2024-08-01"})
	require.NoError(t, err)

	got, err := s.Edit(orig.ID, Patch{Due: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, got.Due)

	_, err = s.Edit(orig.ID, Patch{Text: ptr("  ")})
	var verr todoerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "text", verr.Field)
}

func TestStore_EditEmptyPatch(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.Add(Draft{Text: "nothing"})
	require.NoError(t, err)
	require.NoError(t, s.Persist(func([]*task.Task) error { return nil }))

	got, err := s.Edit(orig.ID, Patch{})
	require.NoError(t, err)
	assert.Nil(t, got.Modified)
	assert.False(t, s.Dirty())
}

func TestStore_NotFound(t *testing.T) {
	s := newTestStore(t)

	var nf todoerrors.TaskNotFoundError
	_, err := s.Get("nope")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.ID)

	_, err = s.Edit("nope", Patch{Text: ptr("x")})
	require.ErrorAs(t, err, &nf)
	_, err = s.Complete("nope")
	require.ErrorAs(t, err, &nf)
	_, err = s.Reopen("nope")
	require.ErrorAs(t, err, &nf)
	require.ErrorAs(t, s.Delete("nope"), &nf)
}

func TestStore_CompleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.Add(Draft{Text: "run 5k"})
	require.NoError(t, err)

	first, err := s.Complete(orig.ID)
	require.NoError(t, err)
	assert.True(t, first.Crossed)
	require.NotNil(t, first.CompletedDate)

	second, err := s.Complete(orig.ID)
	var done todoerrors.AlreadyDoneError
	require.ErrorAs(t, err, &done)
	require.NotNil(t, second)
	assert.Equal(t, first, second, "second complete leaves the same state")
}

func TestStore_Reopen(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.Add(Draft{Text: "read book"})
	require.NoError(t, err)

	_, err = s.Reopen(orig.ID)
	var notDone todoerrors.NotDoneError
	require.ErrorAs(t, err, &notDone)

	_, err = s.Complete(orig.ID)
	require.NoError(t, err)

	got, err := s.Reopen(orig.ID)
	require.NoError(t, err)
	assert.False(t, got.Crossed)
	assert.Nil(t, got.CompletedDate, "completed date is removed on reopen")
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Add(Draft{Text: "a"})
	b, _ := s.Add(Draft{Text: "b"})
	c, _ := s.Add(Draft{Text: "c"})

	require.NoError(t, s.Delete(b.ID))

	got := s.Query(Query{ShowCompleted: true})
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, c.ID, got[1].ID)
}

func TestStore_DeleteCompletedAndClearAll(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Add(Draft{Text: "a"})
	b, _ := s.Add(Draft{Text: "b"})
	c, _ := s.Add(Draft{Text: "c"})
	_, _ = s.Complete(a.ID)
	_, _ = s.Complete(c.ID)

	assert.Equal(t, 2, s.DeleteCompleted())
	assert.Equal(t, 0, s.DeleteCompleted())

	left := s.Snapshot()
	require.Len(t, left, 1)
	assert.Equal(t, b.ID, left[0].ID)

	assert.Equal(t, 1, s.ClearAll())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.ClearAll())
}

func TestStore_ReturnedTasksAreCopies(t *testing.T) {
	s := newTestStore(t)
	a, err := s.Add(Draft{Text: "original"})
	require.NoError(t, err)

	a.Text = "mutated"
	for _, tk := range s.Query(Query{ShowCompleted: true}) {
		tk.Text = "mutated too"
	}

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)
}

func TestStore_Import(t *testing.T) {
	s := newTestStore(t)
	existing, err := s.Add(Draft{Text: "already here"})
	require.NoError(t, err)

	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.Local)
	n := s.Import([]*task.Task{
		{ID: existing.ID, Text: "collides", Priority: task.PriorityLow, Category: task.CategoryWork, Created: created},
		{Text: "no id", Priority: task.PriorityHigh, Category: task.CategoryHealth, Created: created},
	})
	assert.Equal(t, 2, n)

	all := s.Snapshot()
	require.Len(t, all, 3)
	ids := map[string]bool{}
	for _, tk := range all {
		assert.NotEmpty(t, tk.ID)
		assert.False(t, ids[tk.ID], "duplicate id %s", tk.ID)
		ids[tk.ID] = true
	}
	assert.Equal(t, "collides", all[1].Text)
	assert.Equal(t, "no id", all[2].Text)
}

func TestStore_Persist(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add(Draft{Text: "persist me"})
	require.NoError(t, err)

	saveErr := errors.New("disk full")
	err = s.Persist(func([]*task.Task) error { return saveErr })
	require.ErrorIs(t, err, saveErr)
	assert.True(t, s.Dirty(), "failed save keeps the store dirty")
	assert.Equal(t, 1, s.Len(), "failed save does not roll back")

	var saved []*task.Task
	attempted, err := s.PersistIfDirty(func(ts []*task.Task) error {
		saved = ts
		return nil
	})
	require.NoError(t, err)
	assert.True(t, attempted)
	require.Len(t, saved, 1)
	assert.False(t, s.Dirty())

	attempted, err = s.PersistIfDirty(func([]*task.Task) error {
		t.Fatal("clean store should not save")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, attempted)
}
