// Package delay schedules functions to run after a fixed delay and lets the
// owner cancel them before they fire. A cancelled task never runs its
// function, so a dismissed caller cannot receive a late write.
package delay

import (
	"context"
	"sync"
	"time"
)

// Task is a handle to a scheduled function.
type Task struct {
	mu       sync.Mutex
	timer    *time.Timer
	done     chan struct{}
	fired    bool
	canceled bool
	stop     func() bool
	onFinish func(*Task)
}

// Schedule runs fn after d unless the task is cancelled first or ctx is done.
func Schedule(ctx context.Context, d time.Duration, fn func()) *Task {
	return schedule(ctx, d, fn, nil)
}

// schedule is Schedule with a hook run once the task has finished, whether it
// fired or was cancelled.
func schedule(ctx context.Context, d time.Duration, fn func(), onFinish func(*Task)) *Task {
	t := &Task{done: make(chan struct{}), onFinish: onFinish}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.canceled {
			t.mu.Unlock()
			return
		}
		t.fired = true
		t.mu.Unlock()
		fn()
		t.finish()
	})
	t.stop = context.AfterFunc(ctx, func() { t.Cancel() })
	return t
}

// canceledTask returns a task that is already finished without firing.
func canceledTask() *Task {
	t := &Task{done: make(chan struct{}), canceled: true}
	close(t.done)
	return t
}

func (t *Task) finish() {
	if t.stop != nil {
		t.stop()
	}
	close(t.done)
	if t.onFinish != nil {
		t.onFinish(t)
	}
}

// Cancel prevents the task from running. It reports false if the function
// has already started or the task was cancelled before.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	if t.fired || t.canceled {
		t.mu.Unlock()
		return false
	}
	t.canceled = true
	t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.finish()
	return true
}

// Done is closed once the function has returned or the task was cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Fired reports whether the function was started.
func (t *Task) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// Group owns a set of tasks, typically everything scheduled on behalf of one
// view. Dispose cancels all of them at once.
type Group struct {
	mu       sync.Mutex
	tasks    map[*Task]struct{}
	disposed bool
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{tasks: make(map[*Task]struct{})}
}

// Schedule is like the package-level Schedule but ties the task to g.
// Scheduling on a disposed group returns an already-cancelled task.
func (g *Group) Schedule(ctx context.Context, d time.Duration, fn func()) *Task {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disposed {
		return canceledTask()
	}
	t := schedule(ctx, d, fn, g.forget)
	g.tasks[t] = struct{}{}
	return t
}

// forget drops a finished task. It waits for g.mu, so a task finishing
// while Schedule still holds the lock is removed after it was added.
func (g *Group) forget(t *Task) {
	g.mu.Lock()
	delete(g.tasks, t)
	g.mu.Unlock()
}

// Pending returns the number of tasks that have neither run nor been cancelled.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for t := range g.tasks {
		select {
		case <-t.Done():
		default:
			n++
		}
	}
	return n
}

// Dispose cancels every pending task and rejects further scheduling.
func (g *Group) Dispose() {
	g.mu.Lock()
	tasks := g.tasks
	g.tasks = make(map[*Task]struct{})
	g.disposed = true
	g.mu.Unlock()
	for t := range tasks {
		t.Cancel()
	}
}
