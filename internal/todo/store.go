// Package todo holds the in-memory task collection and the operations the
// command line drives it with.
package todo

import (
	"strings"
	"sync"
	"time"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
)

// Draft is the user-supplied part of a new task.
type Draft struct {
	Text     string
	Priority task.Priority // empty means task.DefaultPriority
	Category task.Category // empty means task.DefaultCategory
	Due      string
	Notes    string
}

// Patch is a partial edit. Nil fields are left unchanged.
type Patch struct {
	Text     *string
	Priority *task.Priority
	Category *task.Category
	Due      *string
	Notes    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Priority == nil && p.Category == nil && p.Due == nil && p.Notes == nil
}

// Store owns the ordered task collection. Its mutex is not reentrant:
// callbacks passed to Persist must not call back into the store.
type Store struct {
	mu    sync.Mutex
	tasks []*task.Task
	dirty bool
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store over already-normalized tasks, keeping their order.
func New(tasks []*task.Task, opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		s.tasks = append(s.tasks, t.Clone())
	}
	return s
}

// stamp returns the current time truncated to the precision of the store file.
func (s *Store) stamp() time.Time {
	return s.now().Truncate(time.Second)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Add validates the draft and appends a new open task.
func (s *Store) Add(d Draft) (*task.Task, error) {
	text := strings.TrimSpace(d.Text)
	due := strings.TrimSpace(d.Due)
	if err := validateText(text); err != nil {
		return nil, err
	}
	if err := validateDue(due); err != nil {
		return nil, err
	}

	priority := d.Priority
	if priority == "" {
		priority = task.DefaultPriority
	}
	if err := validatePriority(priority); err != nil {
		return nil, err
	}
	category := d.Category
	if category == "" {
		category = task.DefaultCategory
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.stamp()
	t := &task.Task{
		ID:       task.GenerateID(text, created, s.existsLocked),
		Text:     text,
		Priority: priority,
		Category: category,
		Due:      due,
		Created:  created,
		Notes:    d.Notes,
	}
	s.tasks = append(s.tasks, t)
	s.dirty = true
	return t.Clone(), nil
}

// Get returns a copy of the task with the given ID.
func (s *Store) Get(id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, _, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// Edit applies a partial update. The whole patch is validated before any
// field changes.
func (s *Store) Edit(id string, p Patch) (*task.Task, error) {
	var text, due string
	if p.Text != nil {
		text = strings.TrimSpace(*p.Text)
		if err := validateText(text); err != nil {
			return nil, err
		}
	}
	if p.Due != nil {
		due = strings.TrimSpace(*p.Due)
		if err := validateDue(due); err != nil {
			return nil, err
		}
	}
	if p.Priority != nil {
		if err := validatePriority(*p.Priority); err != nil {
			return nil, err
		}
	}
	if p.Category != nil {
		if err := validateCategory(*p.Category); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, _, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return t.Clone(), nil
	}

	if p.Text != nil {
		t.Text = text
	}
	if p.Due != nil {
		t.Due = due
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	modified := s.stamp()
	t.Modified = &modified
	s.dirty = true
	return t.Clone(), nil
}

// Complete crosses a task off. A task that is already crossed is returned
// unchanged together with AlreadyDoneError.
func (s *Store) Complete(id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, _, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}
	if t.Crossed {
		return t.Clone(), todoerrors.AlreadyDoneError{ID: id}
	}

	done := s.stamp()
	t.Crossed = true
	t.CompletedDate = &done
	s.dirty = true
	return t.Clone(), nil
}

// Reopen marks a crossed task as open again. An open task is returned
// unchanged together with NotDoneError.
func (s *Store) Reopen(id string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, _, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}
	if !t.Crossed {
		return t.Clone(), todoerrors.NotDoneError{ID: id}
	}

	t.Crossed = false
	t.CompletedDate = nil
	s.dirty = true
	return t.Clone(), nil
}

// Delete removes one task.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, err := s.findLocked(id)
	if err != nil {
		return err
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.dirty = true
	return nil
}

// DeleteCompleted removes every crossed task and returns how many went.
func (s *Store) DeleteCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Crossed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	clear(s.tasks[len(kept):])
	s.tasks = kept
	if removed > 0 {
		s.dirty = true
	}
	return removed
}

// ClearAll removes every task and returns how many went.
func (s *Store) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.tasks)
	s.tasks = nil
	if removed > 0 {
		s.dirty = true
	}
	return removed
}

// Import appends normalized tasks in order. IDs that are empty or already
// taken are replaced with fresh ones. It returns the number appended.
func (s *Store) Import(tasks []*task.Task) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tasks {
		c := t.Clone()
		if c.ID == "" || s.existsLocked(c.ID) {
			c.ID = task.GenerateID(c.Text, c.Created, s.existsLocked)
		}
		s.tasks = append(s.tasks, c)
	}
	if len(tasks) > 0 {
		s.dirty = true
	}
	return len(tasks)
}

// Snapshot returns copies of all tasks in storage order.
func (s *Store) Snapshot() []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Dirty reports whether there are changes not yet persisted.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Persist calls save with a snapshot while holding the store lock, so no
// mutation can run between the snapshot and the write. On success the store
// is marked clean. On failure it stays dirty and nothing is rolled back.
func (s *Store) Persist(save func([]*task.Task) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(save)
}

// PersistIfDirty is Persist but skips the save when nothing changed.
// It reports whether a save was attempted.
func (s *Store) PersistIfDirty(save func([]*task.Task) error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return false, nil
	}
	return true, s.persistLocked(save)
}

func (s *Store) persistLocked(save func([]*task.Task) error) error {
	if err := save(s.snapshotLocked()); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (s *Store) snapshotLocked() []*task.Task {
	out := make([]*task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) findLocked(id string) (*task.Task, int, error) {
	for i, t := range s.tasks {
		if t.ID == id {
			return t, i, nil
		}
	}
	return nil, -1, todoerrors.TaskNotFoundError{ID: id}
}

func (s *Store) existsLocked(id string) bool {
	_, _, err := s.findLocked(id)
	return err == nil
}

func validateText(text string) error {
	if text == "" {
		return todoerrors.ValidationError{Field: "text", Reason: "task cannot be empty"}
	}
	return nil
}

func validateDue(due string) error {
	if due != "" && !task.ValidDue(due) {
		return todoerrors.ValidationError{Field: "due", Value: due, Reason: "must be a real date in YYYY-MM-DD format"}
	}
	return nil
}

func validatePriority(p task.Priority) error {
	if !task.IsValidPriority(p) {
		return todoerrors.ValidationError{Field: "priority", Value: string(p), Reason: "valid: Low, Medium, High, Critical"}
	}
	return nil
}

func validateCategory(c task.Category) error {
	if !task.IsValidCategory(c) {
		return todoerrors.ValidationError{
			Field:  "category",
			Value:  string(c),
			Reason: "valid: Personal, Work, Shopping, Health, Education, Finance, Other",
		}
	}
	return nil
}
