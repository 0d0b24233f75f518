package task

import (
	"strings"
	"time"
)

// Priority represents the importance level of a task.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Priorities lists every priority in ascending rank.
//
//nolint:gochecknoglobals // Fixed enum table
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// PriorityRank returns the sort rank for a priority (Low = 0, Critical = 3).
// Unknown priorities rank like Medium.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	default:
		return 1
	}
}

// Category groups tasks by life area.
type Category string

const (
	CategoryPersonal  Category = "Personal"
	CategoryWork      Category = "Work"
	CategoryShopping  Category = "Shopping"
	CategoryHealth    Category = "Health"
	CategoryEducation Category = "Education"
	CategoryFinance   Category = "Finance"
	CategoryOther     Category = "Other"
)

// Categories lists every category in display order.
//
//nolint:gochecknoglobals // Fixed enum table
var Categories = []Category{
	CategoryPersonal,
	CategoryWork,
	CategoryShopping,
	CategoryHealth,
	CategoryEducation,
	CategoryFinance,
	CategoryOther,
}

const (
	DefaultPriority = PriorityMedium
	DefaultCategory = CategoryOther
)

// Task represents one to-do item.
type Task struct {
	ID            string
	Text          string
	Priority      Priority
	Category      Category
	Due           string // YYYY-MM-DD, empty when there is no due date
	Crossed       bool
	Created       time.Time
	CompletedDate *time.Time
	Modified      *time.Time
	Notes         string
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedDate != nil {
		d := *t.CompletedDate
		c.CompletedDate = &d
	}
	if t.Modified != nil {
		m := *t.Modified
		c.Modified = &m
	}
	return &c
}

// IsOverdue reports whether an open task's due date is before today.
// today must be in YYYY-MM-DD form.
func (t *Task) IsOverdue(today string) bool {
	return !t.Crossed && t.Due != "" && t.Due < today
}

// IsValidPriority checks if a priority is one of the fixed values.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// IsValidCategory checks if a category is one of the fixed values.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth,
		CategoryEducation, CategoryFinance, CategoryOther:
		return true
	default:
		return false
	}
}

// ParsePriority matches s case-insensitively against the known priorities.
func ParsePriority(s string) (Priority, bool) {
	s = strings.TrimSpace(s)
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}
