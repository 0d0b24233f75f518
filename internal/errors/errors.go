//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// ValidationError indicates rejected input. The attempted change is not applied.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// TaskNotFoundError indicates the ID doesn't match any task.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// AlreadyDoneError signals that Complete was called on a crossed task.
type AlreadyDoneError struct {
	ID string
}

func (e AlreadyDoneError) Error() string {
	return fmt.Sprintf("task %s is already completed", e.ID)
}

// NotDoneError signals that Reopen was called on an open task.
type NotDoneError struct {
	ID string
}

func (e NotDoneError) Error() string {
	return fmt.Sprintf("task %s is not completed", e.ID)
}

// PersistenceError wraps a failure to read or write the store file.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}

// NotInRepoError indicates --project was used outside a git repository.
type NotInRepoError struct{}

func (e NotInRepoError) Error() string {
	return "not in a git repository (per-project storage requires a project root)"
}
