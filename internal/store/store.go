// Package store holds the in-memory task collection.
package store

import (
	"io"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tgienger/tick/internal/models"
)

// maxIDAttempts bounds how often Add asks the configured generator for a
// fresh id before falling back to a random one.
const maxIDAttempts = 8

// TaskStore owns the task collection, newest first.
// Callers only ever receive copies of tasks.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  []models.Task
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

// Option configures a TaskStore
type Option func(*TaskStore)

// WithClock overrides the creation timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

// WithIDGenerator overrides task ID generation. A generator that keeps
// returning taken ids is abandoned for random UUIDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *TaskStore) { s.newID = gen }
}

// WithLogger sets the logger used for debug output
func WithLogger(l *log.Logger) Option {
	return func(s *TaskStore) { s.logger = l }
}

// New creates an empty store
func New(opts ...Option) *TaskStore {
	s := &TaskStore{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates a task from in and places it at the front of the collection
func (s *TaskStore) Add(in models.TaskInput) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for attempt := 1; s.indexOf(id) >= 0; attempt++ {
		if attempt < maxIDAttempts {
			id = s.newID()
			continue
		}
		s.logger.Warn("id generator keeps colliding, using a random id", "id", id)
		id = uuid.NewString()
	}

	t := models.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		Completed:   in.Status == models.StatusDone,
		CreatedAt:   s.now(),
	}
	s.tasks = slices.Insert(s.tasks, 0, t)
	s.logger.Debug("task added", "id", t.ID, "status", t.Status)
	return t
}

// Update merges the fields present in patch into the task with the given id.
// Completed is recomputed only when the patch sets Status.
// Returns false, changing nothing, when no such task exists.
func (s *TaskStore) Update(id string, patch models.TaskPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("update: task not found", "id", id)
		return false
	}

	t := &s.tasks[i]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		t.Status = *patch.Status
		t.Completed = t.Status == models.StatusDone
	}
	return true
}

// Delete removes the task with the given id
func (s *TaskStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("delete: task not found", "id", id)
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true
}

// ToggleStatus advances the task through todo -> in progress -> done -> todo
// and returns the updated task.
func (s *TaskStore) ToggleStatus(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("toggle: task not found", "id", id)
		return models.Task{}, false
	}
	t := &s.tasks[i]
	t.Status = t.Status.Next()
	t.Completed = t.Status == models.StatusDone
	return *t, true
}

// Get looks up a task by id
func (s *TaskStore) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// All returns every task in collection order
func (s *TaskStore) All() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// FilterByStatus returns the tasks matching f, preserving collection order
func (s *TaskStore) FilterByStatus(f models.StatusFilter) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f == models.FilterAll {
		return slices.Clone(s.tasks)
	}
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if models.StatusFilter(t.Status) == f {
			out = append(out, t)
		}
	}
	return out
}

// GroupByStatus partitions the collection by status. Every status is present
// in the result, empty buckets as empty slices.
func (s *TaskStore) GroupByStatus() map[models.Status][]models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[models.Status][]models.Task, len(models.Statuses))
	for _, st := range models.Statuses {
		groups[st] = []models.Task{}
	}
	for _, t := range s.tasks {
		groups[t.Status] = append(groups[t.Status], t)
	}
	return groups
}

// Counts returns the number of tasks per status
func (s *TaskStore) Counts() map[models.Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.Status]int, len(models.Statuses))
	for _, t := range s.tasks {
		counts[t.Status]++
	}
	return counts
}

// indexOf must be called with mu held
func (s *TaskStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Sorted returns a copy of tasks, which must be in collection order (newest
// first), reordered by opt. Ties keep their collection order.
func Sorted(tasks []models.Task, opt models.SortOption) []models.Task {
	out := slices.Clone(tasks)
	switch opt {
	case models.SortOldest:
		slices.Reverse(out)
	case models.SortPriority:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority.Rank() > out[j].Priority.Rank() })
	}
	return out
}
