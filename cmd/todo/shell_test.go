package main

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	todoerrors "github.com/abatilo/todo/internal/errors"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain words", "list --sort priority\n", []string{"list", "--sort", "priority"}},
		{"double quotes", `add "Buy milk" -p high`, []string{"add", "Buy milk", "-p", "high"}},
		{"single quotes keep backslash", `add 'a\b'`, []string{"add", `a\b`}},
		{"escaped space", `add Buy\ milk`, []string{"add", "Buy milk"}},
		{"quote inside word", `edit abc --text="it's ok"`, []string{"edit", "abc", "--text=it's ok"}},
		{"empty quotes", `edit abc --due ""`, []string{"edit", "abc", "--due", ""}},
		{"extra spaces", "  done   abc  ", []string{"done", "abc"}},
		{"blank", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitLine(tt.input)
			if err != nil {
				t.Fatalf("splitLine(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitLineUnterminated(t *testing.T) {
	for _, input := range []string{`add "Buy milk`, `add 'x`, `add x\`} {
		if _, err := splitLine(input); !errors.Is(err, errUnterminatedQuote) {
			t.Errorf("splitLine(%q) error = %v, want %v", input, err, errUnterminatedQuote)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"validation", todoerrors.ValidationError{Field: "due", Reason: "bad"}, exitValidation},
		{"not found", todoerrors.TaskNotFoundError{ID: "x"}, exitNotFound},
		{"wrapped persistence", fmt.Errorf("save: %w", todoerrors.PersistenceError{Op: "write", Path: "p", Err: errors.New("disk")}), exitPersistence},
		{"already done", todoerrors.AlreadyDoneError{ID: "x"}, exitOK},
		{"not done", todoerrors.NotDoneError{ID: "x"}, exitOK},
		{"other", errors.New("boom"), exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
