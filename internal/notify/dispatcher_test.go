package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
}

func (r *recordingNotifier) Notify(_ context.Context, e Event) int {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return 1
}

func (r *recordingNotifier) kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func TestDispatcher_DrainsOnClose(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher(n, 8, nil)
	d.Start(context.Background())

	assert.True(t, d.Enqueue(Event{Kind: KindUserCreated}))
	assert.True(t, d.Enqueue(Event{Kind: KindUserDeleted}))
	d.Close()

	assert.Equal(t, []Kind{KindUserCreated, KindUserDeleted}, n.kinds())
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	n := &recordingNotifier{block: make(chan struct{})}
	d := NewDispatcher(n, 1, nil)
	d.Start(context.Background())

	// First event occupies the worker, second fills the buffer of one.
	assert.True(t, d.Enqueue(Event{Kind: KindUserCreated}))

	deadline := time.After(time.Second)
	filled := false
	for !filled {
		select {
		case <-deadline:
			t.Fatal("buffer never filled")
		default:
			if !d.Enqueue(Event{Kind: KindUserUpdated}) {
				filled = true
			}
		}
	}

	close(n.block)
	d.Close()
}

func TestDispatcher_StopsOnContextCancel(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher(n, 8, nil)

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		<-d.done
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}
