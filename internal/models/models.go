package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the workflow state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in progress"
	StatusDone       Status = "done"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Next returns the status that follows s in the todo -> in progress -> done cycle
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// Label returns the display label for the status
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "Todo"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// ParseStatus accepts both "in progress" and "in-progress"
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "todo":
		return StatusTodo, nil
	case "in progress", "in-progress", "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q", v)
}

// Priority is a display and sort hint
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Rank orders priorities, higher is more urgent
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	}
	return 0
}

// Label capitalizes the priority name
func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// StatusFilter selects a subset of tasks by status
type StatusFilter string

const (
	FilterAll        StatusFilter = "all"
	FilterTodo       StatusFilter = StatusFilter(StatusTodo)
	FilterInProgress StatusFilter = StatusFilter(StatusInProgress)
	FilterDone       StatusFilter = StatusFilter(StatusDone)
)

// Filters lists the filter tabs in display order
var Filters = []StatusFilter{FilterAll, FilterTodo, FilterInProgress, FilterDone}

// Label returns the tab label for the filter
func (f StatusFilter) Label() string {
	if f == FilterAll {
		return "All"
	}
	return Status(f).Label()
}

// SortOption controls list ordering
type SortOption string

const (
	SortNewest   SortOption = "newest"
	SortOldest   SortOption = "oldest"
	SortPriority SortOption = "priority"
)

// SortOptions lists sort options in cycle order
var SortOptions = []SortOption{SortNewest, SortOldest, SortPriority}

// ParseSortOption validates a sort option name
func ParseSortOption(v string) (SortOption, error) {
	for _, o := range SortOptions {
		if string(o) == strings.ToLower(strings.TrimSpace(v)) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort option %q", v)
}

// Task represents a single to-do item
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Status      Status
	Completed   bool // always Status == StatusDone
	CreatedAt   time.Time
}

// TaskInput is the payload for creating a task
type TaskInput struct {
	Title       string
	Description string
	Priority    Priority
	Status      Status
}

// TaskPatch is a sparse update. A nil field is left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
}

// Empty reports whether the patch sets no fields
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil
}

// Ptr returns a pointer to v, for building patches
func Ptr[T any](v T) *T {
	return &v
}

// ThemeMode is the persisted theme preference
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// ThemeModes lists the selectable modes
var ThemeModes = []ThemeMode{ThemeLight, ThemeDark, ThemeSystem}

// ParseThemeMode validates a stored or user-supplied mode
func ParseThemeMode(v string) (ThemeMode, error) {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(v))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	case ThemeSystem:
		return ThemeSystem, nil
	}
	return "", fmt.Errorf("unknown theme mode %q", v)
}
