// workers/reconcile_worker.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"bounty-board-service/utils"
)

// After a transaction lands on chain, the row it produces only shows up once
// the off-chain indexer has materialized the event. Each ReconciliationTask
// probes the projection for that row until it appears, the attempt budget
// runs out, or the task is canceled. Attempts within one task are strictly
// sequential; tasks never touch each other's state.

// Probe asks the projection "has the indexer caught up?". A (false, nil) or
// a utils.ErrNotFound answer means "not yet"; any other error is a hard
// failure that aborts the poll early instead of burning the full budget.
type Probe func(ctx context.Context) (bool, error)

const (
	// Fixed per the product: 1s between probes, 60 attempts, so a mutation
	// is never stuck "Indexing" past a minute.
	PollInterval = 1 * time.Second
	MaxAttempts  = 60
)

// Clock is the runner's one suspension point, injectable so tests drive the
// loop without real timers.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type wallClock struct{}

func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// TaskState is the explicit poll state machine:
// pending → polling → succeeded | timed_out | canceled | failed.
type TaskState string

const (
	StatePending   TaskState = "pending"
	StatePolling   TaskState = "polling"
	StateSucceeded TaskState = "succeeded"
	StateTimedOut  TaskState = "timed_out"
	StateCanceled  TaskState = "canceled"
	StateFailed    TaskState = "failed"
)

func (s TaskState) Terminal() bool {
	switch s {
	case StateSucceeded, StateTimedOut, StateCanceled, StateFailed:
		return true
	}
	return false
}

// Task is one in-flight reconciliation. All mutable fields sit behind mu;
// readers only ever see it through Snapshot.
type Task struct {
	ID       string
	Kind     string // bounty | claim | claim-accepted | bounty-canceled | participation
	ChainID  uint64
	TargetID uint64

	mu         sync.RWMutex
	state      TaskState
	attempt    int
	status     string
	err        error
	finishedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// TaskSnapshot is the wire shape of a task's current state.
type TaskSnapshot struct {
	TaskID   string `json:"taskId"`
	Kind     string `json:"kind"`
	ChainID  uint64 `json:"chainId"`
	TargetID string `json:"targetId"`
	State    string `json:"state"`
	Attempt  int    `json:"attempt"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Code     string `json:"code,omitempty"`
}

func (t *Task) Snapshot() TaskSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := TaskSnapshot{
		TaskID:   t.ID,
		Kind:     t.Kind,
		ChainID:  t.ChainID,
		TargetID: utils.FormatID(t.TargetID),
		State:    string(t.state),
		Attempt:  t.attempt,
		Status:   t.status,
	}
	if t.err != nil {
		snap.Error = t.err.Error()
		snap.Code = utils.ErrorCode(t.err)
	}
	return snap
}

// Cancel stops the task cooperatively: the loop notices at the top of its
// next iteration and performs no further probes.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed when the task reaches a terminal state.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) setPolling(attempt int, status string) {
	t.mu.Lock()
	t.state = StatePolling
	t.attempt = attempt
	t.status = status
	t.mu.Unlock()
}

func (t *Task) finish(state TaskState, err error) {
	t.mu.Lock()
	t.state = state
	t.err = err
	t.finishedAt = time.Now()
	t.mu.Unlock()
}

// Runner executes tasks. Production uses wallClock with the fixed interval
// and budget; tests swap in a virtual clock.
type Runner struct {
	clock       Clock
	interval    time.Duration
	maxAttempts int
}

func NewRunner() *Runner {
	return &Runner{clock: wallClock{}, interval: PollInterval, maxAttempts: MaxAttempts}
}

func newRunnerWithClock(clock Clock, interval time.Duration, maxAttempts int) *Runner {
	return &Runner{clock: clock, interval: interval, maxAttempts: maxAttempts}
}

// Run drives one task to a terminal state. The first probe fires
// immediately after the initial "Indexing..." status; each subsequent probe
// waits one interval and bumps the status line. Success on attempt K means
// exactly K probes and K-1 delays. Cancellation is checked at the top of
// every iteration, so a canceled task triggers no further probes and no
// success or timeout outcome.
func (r *Runner) Run(ctx context.Context, t *Task, probe Probe) error {
	defer close(t.done)

	t.setPolling(1, "Indexing...")

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			t.finish(StateCanceled, nil)
			log.Printf("⏹️ [RECONCILE] task %s canceled after %d attempt(s)", t.ID, attempt-1)
			return nil
		}

		ok, err := probe(ctx)
		if err != nil && !errors.Is(err, utils.ErrNotFound) {
			if ctx.Err() != nil {
				// Probe died because the task was canceled mid-query.
				t.finish(StateCanceled, nil)
				return nil
			}
			t.finish(StateFailed, err)
			log.Printf("❌ [RECONCILE] task %s (%s chainId=%d targetId=%d) aborted: %v", t.ID, t.Kind, t.ChainID, t.TargetID, err)
			return err
		}
		if ok {
			t.finish(StateSucceeded, nil)
			log.Printf("✅ [RECONCILE] task %s (%s chainId=%d targetId=%d) indexed after %d attempt(s)", t.ID, t.Kind, t.ChainID, t.TargetID, attempt)
			return nil
		}

		if attempt == r.maxAttempts {
			timeoutErr := &utils.IndexingTimeoutError{ChainID: t.ChainID, TargetID: t.TargetID}
			t.finish(StateTimedOut, timeoutErr)
			log.Printf("⌛ [RECONCILE] task %s (%s chainId=%d targetId=%d) exhausted %d attempts", t.ID, t.Kind, t.ChainID, t.TargetID, r.maxAttempts)
			return timeoutErr
		}

		select {
		case <-ctx.Done():
			t.finish(StateCanceled, nil)
			log.Printf("⏹️ [RECONCILE] task %s canceled after %d attempt(s)", t.ID, attempt)
			return nil
		case <-r.clock.After(r.interval):
		}

		t.setPolling(attempt+1, fmt.Sprintf("Indexing %ds", attempt))
	}
}
