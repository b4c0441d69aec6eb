package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return newRegistryWithRunner(newRunnerWithClock(&countingClock{}, PollInterval, MaxAttempts))
}

func TestRegistryStartAndGet(t *testing.T) {
	reg := newTestRegistry()

	task := reg.Start(context.Background(), "bounty", 8453, 845300001, func(ctx context.Context) (bool, error) {
		return true, nil
	})

	got, ok := reg.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, task.ID, got.ID)

	<-task.Done()
	snap := task.Snapshot()
	assert.Equal(t, string(StateSucceeded), snap.State)
	assert.Equal(t, "845300001", snap.TargetID)

	_, ok = reg.Get("no-such-task")
	assert.False(t, ok)
}

func TestRegistryCancel(t *testing.T) {
	reg := newTestRegistry()

	release := make(chan struct{})
	task := reg.Start(context.Background(), "claim", 8453, 845300002, func(ctx context.Context) (bool, error) {
		<-release
		return false, nil
	})

	require.True(t, reg.Cancel(task.ID))
	close(release)

	<-task.Done()
	assert.Equal(t, string(StateCanceled), task.Snapshot().State)

	assert.False(t, reg.Cancel("no-such-task"))
}

func TestRegistrySweepPrunesOnlyTerminalTasks(t *testing.T) {
	reg := newTestRegistry()

	done := reg.Start(context.Background(), "bounty", 8453, 845300003, func(ctx context.Context) (bool, error) {
		return true, nil
	})
	<-done.Done()

	release := make(chan struct{})
	defer close(release)
	running := reg.Start(context.Background(), "bounty", 8453, 845300004, func(ctx context.Context) (bool, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return false, nil
	})

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, 1, reg.Sweep(0), "only the finished task is pruned")
	assert.Equal(t, 1, reg.Len())

	_, ok := reg.Get(done.ID)
	assert.False(t, ok)
	_, ok = reg.Get(running.ID)
	assert.True(t, ok)

	// A task inside its retention window survives the sweep.
	running.Cancel()
	<-running.Done()
	assert.Equal(t, 0, reg.Sweep(time.Hour))
}

func TestRegistryTasksRunIndependently(t *testing.T) {
	reg := newTestRegistry()

	var mu sync.Mutex
	calls := map[string]int{}
	probeFor := func(name string, succeedAt int) Probe {
		return func(ctx context.Context) (bool, error) {
			mu.Lock()
			calls[name]++
			n := calls[name]
			mu.Unlock()
			return n == succeedAt, nil
		}
	}

	a := reg.Start(context.Background(), "bounty", 8453, 845300005, probeFor("a", 2))
	b := reg.Start(context.Background(), "claim", 42161, 4216100001, probeFor("b", 5))

	<-a.Done()
	<-b.Done()

	assert.Equal(t, string(StateSucceeded), a.Snapshot().State)
	assert.Equal(t, string(StateSucceeded), b.Snapshot().State)
	assert.Equal(t, 2, calls["a"])
	assert.Equal(t, 5, calls["b"])
}
