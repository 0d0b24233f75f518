// Package export writes the task collection to portable files and reads it
// back in for import.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/storage"
	"github.com/abatilo/todo/internal/task"
)

// Format names an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

// Formats lists every supported export format.
//
//nolint:gochecknoglobals // Fixed enum table
var Formats = []Format{FormatJSON, FormatYAML, FormatText, FormatMarkdown}

// ParseFormat parses a format name. "yml", "text" and "markdown" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "txt", "text":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", todoerrors.ValidationError{
		Field:  "format",
		Value:  s,
		Reason: "must be one of " + strings.Join(names, ", "),
	}
}

// FormatFromPath picks a format from the file extension, falling back to
// JSON for anything unrecognized.
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return FormatJSON
}

// Write renders tasks to w in the given format.
func Write(w io.Writer, tasks []*task.Task, format Format) error {
	switch format {
	case FormatJSON:
		data, err := storage.Encode(tasks)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(storage.ToRecords(tasks)); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		return writeText(w, tasks)
	case FormatMarkdown:
		return writeMarkdown(w, tasks)
	}
	return todoerrors.ValidationError{Field: "format", Value: string(format), Reason: "unsupported"}
}

// WriteFile writes tasks to path, replacing any existing file.
func WriteFile(path string, tasks []*task.Task, format Format) error {
	var buf bytes.Buffer
	if err := Write(&buf, tasks, format); err != nil {
		return todoerrors.PersistenceError{Op: "encode", Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // export files are meant to be shared
		return todoerrors.PersistenceError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func writeText(w io.Writer, tasks []*task.Task) error {
	for _, t := range tasks {
		icon := "📌"
		if t.Crossed {
			icon = "✅"
		}
		due := t.Due
		if due == "" {
			due = "No date"
		}
		if _, err := fmt.Fprintf(w, "%s %s | Priority: %s | Due: %s\n", icon, t.Text, t.Priority, due); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, tasks []*task.Task) error {
	var sb strings.Builder
	sb.WriteString("# Tasks\n\n")
	if len(tasks) == 0 {
		sb.WriteString("_No tasks._\n")
	}
	for _, t := range tasks {
		box := " "
		if t.Crossed {
			box = "x"
		}
		fmt.Fprintf(&sb, "- [%s] %s (%s, %s", box, t.Text, t.Priority, t.Category)
		if t.Due != "" {
			fmt.Fprintf(&sb, ", due %s", t.Due)
		}
		sb.WriteString(")\n")
		for line := range strings.SplitSeq(strings.TrimSpace(t.Notes), "\n") {
			if line != "" {
				fmt.Fprintf(&sb, "  > %s\n", line)
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Read parses a JSON or YAML task list and normalizes it the same way the
// store file is normalized on load.
func Read(r io.Reader, format Format, now time.Time, logger *zap.Logger) ([]*task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []*task.Task{}, nil
	}

	var records []storage.Record
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &records)
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	default:
		return nil, todoerrors.ValidationError{
			Field:  "format",
			Value:  string(format),
			Reason: "import supports json and yaml only",
		}
	}
	if err != nil {
		return nil, err
	}
	tasks, _ := storage.Normalize(records, now, logger)
	return tasks, nil
}

// ReadFile reads an import file, choosing the format from its extension.
func ReadFile(path string, now time.Time, logger *zap.Logger) ([]*task.Task, error) {
	format := FormatFromPath(path)
	if format != FormatJSON && format != FormatYAML {
		return nil, todoerrors.ValidationError{
			Field:  "format",
			Value:  string(format),
			Reason: "import supports json and yaml only",
		}
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, todoerrors.PersistenceError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	tasks, err := Read(f, format, now, logger)
	if err != nil {
		return nil, todoerrors.PersistenceError{Op: "parse", Path: path, Err: err}
	}
	return tasks, nil
}
