package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunOnceContinuesAfterFailure(t *testing.T) {
	var ran []string
	j := NewJanitor(time.Minute, nil,
		Task{Name: "broken", Run: func(context.Context) (int, error) {
			ran = append(ran, "broken")
			return 0, errors.New("boom")
		}},
		Task{Name: "prune", Run: func(context.Context) (int, error) {
			ran = append(ran, "prune")
			return 3, nil
		}},
	)

	j.RunOnce(context.Background())
	assert.Equal(t, []string{"broken", "prune"}, ran)
}

func TestRunOnceSkipsWhenCancelled(t *testing.T) {
	var calls atomic.Int32
	j := NewJanitor(time.Minute, nil, Task{Name: "prune", Run: func(context.Context) (int, error) {
		calls.Add(1)
		return 0, nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j.RunOnce(ctx)
	assert.Zero(t, calls.Load())
}

func TestStartTicksUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	j := NewJanitor(5*time.Millisecond, nil, Task{Name: "prune", Run: func(context.Context) (int, error) {
		calls.Add(1)
		return 1, nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
