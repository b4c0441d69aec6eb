// workers/registry.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry holds every in-flight ReconciliationTask. Clients create a task,
// poll or stream its snapshot, and may cancel it; a periodic sweep prunes
// terminal tasks once their retention window passes.
type Registry struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	runner *Runner
}

func NewRegistry() *Registry {
	return &Registry{
		tasks:  make(map[string]*Task),
		runner: NewRunner(),
	}
}

func newRegistryWithRunner(r *Runner) *Registry {
	return &Registry{tasks: make(map[string]*Task), runner: r}
}

// Start registers a task and launches its poll loop. The loop runs on its
// own goroutine; concurrent tasks are fully independent.
func (reg *Registry) Start(parent context.Context, kind string, chainID, targetID uint64, probe Probe) *Task {
	ctx, cancel := context.WithCancel(parent)

	t := &Task{
		ID:       uuid.NewString(),
		Kind:     kind,
		ChainID:  chainID,
		TargetID: targetID,
		state:    StatePending,
		status:   "Indexing...",
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	reg.mu.Lock()
	reg.tasks[t.ID] = t
	reg.mu.Unlock()

	go func() {
		defer cancel()
		_ = reg.runner.Run(ctx, t, probe)
	}()

	return t
}

func (reg *Registry) Get(id string) (*Task, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	t, ok := reg.tasks[id]
	return t, ok
}

// Cancel cancels the task if it exists. Canceling an already-terminal task
// is a no-op.
func (reg *Registry) Cancel(id string) bool {
	t, ok := reg.Get(id)
	if !ok {
		return false
	}
	t.Cancel()
	return true
}

// Sweep removes terminal tasks older than retention and reports how many
// were pruned.
func (reg *Registry) Sweep(retention time.Duration) int {
	cutoff := time.Now().Add(-retention)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	pruned := 0
	for id, t := range reg.tasks {
		t.mu.RLock()
		expired := t.state.Terminal() && t.finishedAt.Before(cutoff)
		t.mu.RUnlock()
		if expired {
			delete(reg.tasks, id)
			pruned++
		}
	}
	return pruned
}

// Len reports how many tasks the registry currently holds.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.tasks)
}
