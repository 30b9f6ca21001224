package sender

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 8, Workers: 2})

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		err := d.Enqueue(context.Background(), "sendMessage", "", func() error {
			wg.Done()
			return nil
		})
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	wg.Wait()
	d.Close()
}

func TestDispatcherCloseIdempotent(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	d.Close()
	d.Close()
	d.Close()
}

func TestDispatcherEnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	d.Close()

	err := d.Enqueue(context.Background(), "sendMessage", "", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("got %v, want ErrQueueClosed", err)
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(Options{QueueSize: 1, Workers: 1})
	defer d.Close()

	release := make(chan struct{})
	// First job occupies the single worker, second fills the queue.
	if err := d.Enqueue(context.Background(), "sendMessage", "", func() error {
		<-release
		return nil
	}); err != nil {
		t.Fatalf("enqueue blocker: %v", err)
	}
	var err error
	for i := 0; i < 100; i++ {
		err = d.Enqueue(context.Background(), "sendMessage", "", func() error {
			<-release
			return nil
		})
		if errors.Is(err, ErrQueueFull) {
			break
		}
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("got %v, want ErrQueueFull", err)
	}
	close(release)
}
