package store

import (
	"context"
	"sync"
	"time"

	"github.com/tgienger/tick/internal/models"
)

// Op identifies a kind of tracked mutation
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
	OpToggle
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpToggle:
		return "toggle"
	}
	return "unknown"
}

// Tracker runs store mutations as if they were remote calls. It exposes busy
// flags per operation kind and per task, and applies calls on the same task
// strictly in the order they were issued.
type Tracker struct {
	store   *TaskStore
	latency time.Duration

	mu      sync.Mutex
	busyOps map[Op]int
	busyIDs map[string]int
	tails   map[string]chan struct{} // last queued call per task id
}

// NewTracker wraps s. latency is the simulated delay before each call lands.
func NewTracker(s *TaskStore, latency time.Duration) *Tracker {
	return &Tracker{
		store:   s,
		latency: latency,
		busyOps: make(map[Op]int),
		busyIDs: make(map[string]int),
		tails:   make(map[string]chan struct{}),
	}
}

// Store returns the wrapped store
func (t *Tracker) Store() *TaskStore {
	return t.store
}

// Busy reports whether any call of the given kind is in flight
func (t *Tracker) Busy(op Op) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busyOps[op] > 0
}

// BusyTask reports whether any call on the given task is in flight
func (t *Tracker) BusyTask(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busyIDs[id] > 0
}

// Create adds a task after the simulated delay
func (t *Tracker) Create(ctx context.Context, in models.TaskInput) (models.Task, error) {
	var created models.Task
	err := t.run(ctx, OpCreate, "", func() {
		created = t.store.Add(in)
	})
	return created, err
}

// Update applies patch to the task with the given id
func (t *Tracker) Update(ctx context.Context, id string, patch models.TaskPatch) (bool, error) {
	var found bool
	err := t.run(ctx, OpUpdate, id, func() {
		found = t.store.Update(id, patch)
	})
	return found, err
}

// Delete removes the task with the given id
func (t *Tracker) Delete(ctx context.Context, id string) (bool, error) {
	var found bool
	err := t.run(ctx, OpDelete, id, func() {
		found = t.store.Delete(id)
	})
	return found, err
}

// Toggle advances the status of the task with the given id
func (t *Tracker) Toggle(ctx context.Context, id string) (models.Task, bool, error) {
	var (
		task  models.Task
		found bool
	)
	err := t.run(ctx, OpToggle, id, func() {
		task, found = t.store.ToggleStatus(id)
	})
	return task, found, err
}

func (t *Tracker) run(ctx context.Context, op Op, id string, fn func()) error {
	prev, done := t.begin(op, id)
	abandoned := true
	defer func() { t.end(op, id, prev, done, abandoned) }()

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	// Past this point prev is closed, so releasing our slot keeps the order.
	abandoned = false

	if t.latency > 0 {
		timer := time.NewTimer(t.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	fn()
	return nil
}

func (t *Tracker) begin(op Op, id string) (prev, done chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.busyOps[op]++
	if id == "" {
		return nil, nil
	}
	t.busyIDs[id]++
	prev = t.tails[id]
	done = make(chan struct{})
	t.tails[id] = done
	return prev, done
}

func (t *Tracker) end(op Op, id string, prev, done chan struct{}, abandoned bool) {
	// An abandoned call stays the tail until the call ahead of it finishes,
	// so anything issued meanwhile still queues behind that call.
	wait := abandoned && prev != nil

	t.mu.Lock()
	t.busyOps[op]--
	if id != "" {
		t.busyIDs[id]--
		if t.busyIDs[id] == 0 {
			delete(t.busyIDs, id)
		}
		if !wait && t.tails[id] == done {
			delete(t.tails, id)
		}
	}
	t.mu.Unlock()

	if done == nil {
		return
	}
	if wait {
		go func() {
			<-prev
			t.release(id, done)
		}()
		return
	}
	close(done)
}

// release closes done and drops it as the tail for id if nothing queued after it
func (t *Tracker) release(id string, done chan struct{}) {
	t.mu.Lock()
	if t.tails[id] == done {
		delete(t.tails, id)
	}
	t.mu.Unlock()
	close(done)
}
