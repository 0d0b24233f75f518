package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abatilo/todo/internal/task"
)

// Record is the on-disk shape of one task. Every field is optional on read
// so that files written by older versions still load.
type Record struct {
	ID            string `json:"id,omitempty"             yaml:"id,omitempty"`
	Text          string `json:"text"                     yaml:"text"`
	Crossed       bool   `json:"crossed"                  yaml:"crossed"`
	Priority      string `json:"priority"                 yaml:"priority"`
	Category      string `json:"category"                 yaml:"category"`
	Due           string `json:"due"                      yaml:"due"`
	Created       string `json:"created"                  yaml:"created"`
	CompletedDate string `json:"completed_date,omitempty" yaml:"completed_date,omitempty"`
	Modified      string `json:"modified,omitempty"       yaml:"modified,omitempty"`
	Notes         string `json:"notes"                    yaml:"notes"`
}

// ToRecord converts a task to its stored form.
func ToRecord(t *task.Task) Record {
	r := Record{
		ID:       t.ID,
		Text:     t.Text,
		Crossed:  t.Crossed,
		Priority: string(t.Priority),
		Category: string(t.Category),
		Due:      t.Due,
		Created:  task.FormatTimestamp(t.Created),
		Notes:    t.Notes,
	}
	if t.CompletedDate != nil {
		r.CompletedDate = task.FormatTimestamp(*t.CompletedDate)
	}
	if t.Modified != nil {
		r.Modified = task.FormatTimestamp(*t.Modified)
	}
	return r
}

// ToRecords converts tasks in order.
func ToRecords(tasks []*task.Task) []Record {
	out := make([]Record, len(tasks))
	for i, t := range tasks {
		out[i] = ToRecord(t)
	}
	return out
}

// Encode renders tasks as an indented JSON array.
func Encode(tasks []*task.Task) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ToRecords(tasks)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a JSON array of records and normalizes it. upgraded
// reports whether normalizing changed anything, in which case the data no
// longer matches what Encode would write for the result.
func Decode(data []byte, now time.Time, logger *zap.Logger) (tasks []*task.Task, upgraded bool, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	var records []Record
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, false, err
	}
	tasks, upgraded = Normalize(records, now, logger)
	return tasks, upgraded, nil
}

// Normalize upgrades raw records to tasks. Missing fields get their
// defaults, unknown enum values fall back to Medium/Other, invalid due dates
// are cleared, blank-text records are dropped and IDs are made unique.
// created is set to now when missing or unreadable. upgraded is true when
// any record was changed or dropped on the way.
func Normalize(records []Record, now time.Time, logger *zap.Logger) (tasks []*task.Task, upgraded bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	now = now.Truncate(time.Second)

	seen := make(map[string]bool, len(records))
	exists := func(id string) bool { return seen[id] }

	tasks = make([]*task.Task, 0, len(records))
	for i, r := range records {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			logger.Warn("dropping task without text", zap.Int("index", i), zap.String("id", r.ID))
			upgraded = true
			continue
		}
		if text != r.Text {
			upgraded = true
		}

		t := &task.Task{
			ID:      r.ID,
			Text:    text,
			Crossed: r.Crossed,
			Notes:   r.Notes,
		}

		if p, ok := task.ParsePriority(r.Priority); ok {
			t.Priority = p
		} else {
			t.Priority = task.DefaultPriority
		}
		if c, ok := task.ParseCategory(r.Category); ok {
			t.Category = c
		} else {
			t.Category = task.DefaultCategory
		}
		if string(t.Priority) != r.Priority || string(t.Category) != r.Category {
			upgraded = true
		}

		due := strings.TrimSpace(r.Due)
		if due != "" && !task.ValidDue(due) {
			logger.Warn("clearing invalid due date", zap.String("text", text), zap.String("due", due))
			due = ""
		}
		if due != r.Due {
			upgraded = true
		}
		t.Due = due

		t.Created = now
		if created, err := task.ParseTimestamp(r.Created); err == nil {
			t.Created = created
		}
		if task.FormatTimestamp(t.Created) != r.Created {
			upgraded = true
		}
		if r.CompletedDate != "" {
			if done, err := task.ParseTimestamp(r.CompletedDate); err == nil {
				t.CompletedDate = &done
			}
		}
		if r.Modified != "" {
			if modified, err := task.ParseTimestamp(r.Modified); err == nil {
				t.Modified = &modified
			}
		}

		// Assigned IDs are random, so they only stay stable once written back.
		if t.ID == "" || seen[t.ID] {
			t.ID = task.GenerateID(t.Text, t.Created, exists)
			upgraded = true
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, upgraded
}
