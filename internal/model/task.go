package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const MaxTitleLength = 200

// Task is one trackable item. Date fields hold ISO-8601 strings so the
// in-memory form stays identical to the persisted envelope.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   bool     `json:"completed"`
	Priority    string   `json:"priority"` // high, medium, low
	DueDate     string   `json:"dueDate,omitempty"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"` // each normalized to `#name`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	CompletedAt string   `json:"completedAt,omitempty"`
}

// TaskUpdate is a partial field set. Nil means "leave unchanged".
// ID and CreatedAt are deliberately absent: they never change after creation.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
	DueDate     *string
	Categories  []string
	Tags        []string
}

// NewTask fills unspecified fields with defaults. It never fails; callers
// run Validate separately.
func NewTask(fields Task) *Task {
	t := fields
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Categories == nil {
		t.Categories = []string{}
	}
	t.Tags = NormalizeTags(t.Tags)
	now := time.Now().Format(time.RFC3339)
	if t.CreatedAt == "" {
		t.CreatedAt = now
	}
	if t.UpdatedAt == "" {
		t.UpdatedAt = t.CreatedAt
	}
	return &t
}

// NormalizeTags prefixes every tag with `#` unless it already has one.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		normalized = append(normalized, tag)
	}
	return normalized
}

// ToggleComplete flips the completed flag, keeping CompletedAt in sync.
func (t *Task) ToggleComplete() {
	now := time.Now().Format(time.RFC3339)
	t.Completed = !t.Completed
	if t.Completed {
		t.CompletedAt = now
	} else {
		t.CompletedAt = ""
	}
	t.UpdatedAt = now
}

// Update applies a partial field set. ID and CreatedAt are never
// overwritten. It does not validate; the caller does that afterwards.
func (t *Task) Update(fields TaskUpdate) {
	if fields.Title != nil {
		t.Title = *fields.Title
	}
	if fields.Description != nil {
		t.Description = *fields.Description
	}
	if fields.Completed != nil && *fields.Completed != t.Completed {
		t.ToggleComplete()
	}
	if fields.Priority != nil {
		t.Priority = *fields.Priority
	}
	if fields.DueDate != nil {
		t.DueDate = *fields.DueDate
	}
	if fields.Categories != nil {
		t.Categories = append([]string{}, fields.Categories...)
	}
	if fields.Tags != nil {
		t.Tags = NormalizeTags(fields.Tags)
	}
	t.UpdatedAt = time.Now().Format(time.RFC3339)
}

// IsOverdue reports whether the due date has passed on an open task.
func (t *Task) IsOverdue() bool {
	if t.DueDate == "" || t.Completed {
		return false
	}
	due, err := ParseDate(t.DueDate)
	if err != nil {
		return false
	}
	return due.Before(time.Now())
}

// IsDueToday reports whether the due date falls on the current calendar
// day, regardless of time of day or completion status.
func (t *Task) IsDueToday() bool {
	if t.DueDate == "" {
		return false
	}
	due, err := ParseDate(t.DueDate)
	if err != nil {
		return false
	}
	now := time.Now()
	return due.Year() == now.Year() && due.Month() == now.Month() && due.Day() == now.Day()
}

// Validate checks every rule independently and returns all failures.
// An empty slice means the task is valid.
func (t *Task) Validate() []string {
	var errs []string
	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, "title is required")
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		errs = append(errs, fmt.Sprintf("title must be %d characters or fewer", MaxTitleLength))
	}
	switch t.Priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
	default:
		errs = append(errs, "priority must be one of high, medium, low")
	}
	if t.DueDate != "" {
		if _, err := ParseDate(t.DueDate); err != nil {
			errs = append(errs, "due date is not a valid date")
		}
	}
	return errs
}

// Snapshot returns a plain copy of the task. Slice fields are copied, not
// aliased, so the snapshot is safe to hand out.
func (t *Task) Snapshot() Task {
	snapshot := *t
	snapshot.Categories = append([]string{}, t.Categories...)
	snapshot.Tags = append([]string{}, t.Tags...)
	return snapshot
}

// ParseDate accepts full RFC 3339 timestamps and bare yyyy-mm-dd dates.
func ParseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// PriorityRank orders priorities for sorting: high > medium > low.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}
