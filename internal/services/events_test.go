package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu      sync.Mutex
	batches [][]CommentEvent
	closed  bool
}

func (p *fakePublisher) Publish(ctx context.Context, events []CommentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, events)
	return nil
}

func (p *fakePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePublisher) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.batches {
		n += len(b)
	}
	return n
}

func TestEventDispatcher_BatchesBySize(t *testing.T) {
	p := &fakePublisher{}
	d := newEventDispatcher(p, 100, 3, time.Hour)

	for i := 0; i < 7; i++ {
		require.True(t, d.Emit(CommentEvent{Type: EventCommentVoted, CommentID: "C1"}))
	}
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, 7, p.total())
	require.Len(t, p.batches, 3)
	assert.Len(t, p.batches[0], 3)
	assert.Len(t, p.batches[2], 1)
	assert.True(t, p.closed)
}

func TestEventDispatcher_FlushesOnInterval(t *testing.T) {
	p := &fakePublisher{}
	d := newEventDispatcher(p, 100, 50, 10*time.Millisecond)
	defer d.Close(context.Background())

	d.Emit(CommentEvent{Type: EventCommentCreated, CommentID: "C1"})

	assert.Eventually(t, func() bool { return p.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestEventDispatcher_StampsTime(t *testing.T) {
	p := &fakePublisher{}
	d := newEventDispatcher(p, 10, 1, time.Hour)
	d.Emit(CommentEvent{Type: EventCommentCreated})
	require.NoError(t, d.Close(context.Background()))

	require.Len(t, p.batches, 1)
	assert.False(t, p.batches[0][0].At.IsZero())
}

func TestEventDispatcher_RejectsAfterClose(t *testing.T) {
	p := &fakePublisher{}
	d := newEventDispatcher(p, 10, 5, time.Hour)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.False(t, d.Emit(CommentEvent{Type: EventCommentCreated}))
}

type blockingPublisher struct {
	fakePublisher
	release chan struct{}
}

func (p *blockingPublisher) Publish(ctx context.Context, events []CommentEvent) error {
	<-p.release
	return p.fakePublisher.Publish(ctx, events)
}

func TestEventDispatcher_DropsWhenFull(t *testing.T) {
	p := &blockingPublisher{release: make(chan struct{})}
	d := newEventDispatcher(p, 1, 1, time.Hour)

	accepted := 0
	for i := 0; i < 10; i++ {
		if d.Emit(CommentEvent{Type: EventCommentVoted}) {
			accepted++
		}
	}
	assert.Less(t, accepted, 10)

	close(p.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, accepted, p.total())
}
