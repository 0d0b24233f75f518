package main

import (
	"errors"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/output"
)

// Exit codes reported by run.
const (
	exitOK          = 0
	exitFailure     = 1
	exitValidation  = 2
	exitNotFound    = 3
	exitPersistence = 4
)

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	var (
		validation  todoerrors.ValidationError
		notFound    todoerrors.TaskNotFoundError
		persistence todoerrors.PersistenceError
		alreadyDone todoerrors.AlreadyDoneError
		notDone     todoerrors.NotDoneError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &alreadyDone), errors.As(err, &notDone):
		return exitOK
	case errors.As(err, &validation):
		return exitValidation
	case errors.As(err, &notFound):
		return exitNotFound
	case errors.As(err, &persistence):
		return exitPersistence
	default:
		return exitFailure
	}
}

// report prints err and returns its exit code.
func (a *app) report(err error) int {
	f := a.formatter
	if f == nil {
		f = output.New(a.flags.jsonOutput, false, a.today())
	}
	a.print(f.FormatError(err))
	return exitCode(err)
}
