package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cameronc-hrs/veripost/app/cfg"
)

type countingTask struct {
	Task
	executed atomic.Int32
	done     chan struct{}
}

func newCountingTask() *countingTask {
	return &countingTask{
		Task: NewTask(TaskTypeIngestPackage, "pkg-1"),
		done: make(chan struct{}),
	}
}

func (t *countingTask) Execute(ctx context.Context) error {
	t.executed.Add(1)
	close(t.done)
	return nil
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()

	cfg.Set(&cfg.Cfg{WorkerCount: 2, SchedulerInterval: 3600})
	return NewScheduler(nil, nil).(*Scheduler)
}

func TestSchedulerExecutesEnqueuedTask(t *testing.T) {
	s := newTestScheduler(t)
	s.Start()
	defer s.Stop()

	task := newCountingTask()
	if err := s.EnqueueTask(task); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	select {
	case <-task.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Task was not executed within timeout")
	}

	if got := task.executed.Load(); got != 1 {
		t.Errorf("Expected task executed once, got %d", got)
	}
}

func TestSchedulerQueueFull(t *testing.T) {
	// Not started, so nothing drains the queue
	s := newTestScheduler(t)

	for i := 0; i < cap(s.taskQueue); i++ {
		if err := s.EnqueueTask(newCountingTask()); err != nil {
			t.Fatalf("EnqueueTask failed at %d: %v", i, err)
		}
	}

	if err := s.EnqueueTask(newCountingTask()); err == nil {
		t.Error("Expected error when the queue is full")
	}
}
