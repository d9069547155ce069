package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventCommentCreated EventType = "comment.created"
	EventCommentDeleted EventType = "comment.deleted"
	EventCommentVoted   EventType = "comment.voted"
	EventCommentReacted EventType = "comment.reacted"
)

type CommentEvent struct {
	Type      EventType `json:"type"`
	CommentID string    `json:"commentId"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Value     string    `json:"value,omitempty"` // vote or reaction type
	At        time.Time `json:"at"`
}

// Publisher ships a batch of events to a sink.
type Publisher interface {
	Publish(ctx context.Context, events []CommentEvent) error
	Close() error
}

// EventSink is what CommentService emits into.
type EventSink interface {
	Emit(e CommentEvent) bool
}

const (
	defaultEventQueueSize = 1000
	defaultEventBatchSize = 50
	defaultFlushInterval  = 500 * time.Millisecond
	publishTimeout        = 5 * time.Second
)

// EventDispatcher buffers events and hands them to a Publisher in batches from
// a single background worker. Emit never blocks request handling.
type EventDispatcher struct {
	queue     chan CommentEvent
	publisher Publisher
	batchSize int
	interval  time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewEventDispatcher(p Publisher) *EventDispatcher {
	return newEventDispatcher(p, defaultEventQueueSize, defaultEventBatchSize, defaultFlushInterval)
}

func newEventDispatcher(p Publisher, queueSize, batchSize int, interval time.Duration) *EventDispatcher {
	d := &EventDispatcher{
		queue:     make(chan CommentEvent, queueSize),
		publisher: p,
		batchSize: batchSize,
		interval:  interval,
		done:      make(chan struct{}),
	}
	go d.worker()
	return d
}

// Emit enqueues e. It returns false when the queue is full or the dispatcher is closed.
func (d *EventDispatcher) Emit(e CommentEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	select {
	case d.queue <- e:
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"event":      e.Type,
			"comment_id": e.CommentID,
		}).Warn("event queue full, dropping event")
		return false
	}
}

func (d *EventDispatcher) worker() {
	defer close(d.done)

	batch := make([]CommentEvent, 0, d.batchSize)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-d.queue:
			if !ok {
				d.flush(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= d.batchSize {
				d.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				d.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (d *EventDispatcher) flush(batch []CommentEvent) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	out := append([]CommentEvent(nil), batch...)
	if err := d.publisher.Publish(ctx, out); err != nil {
		logrus.WithError(err).WithField("events", len(out)).Error("failed to publish comment events")
	}
}

// Close stops accepting events, drains what is queued and closes the publisher.
func (d *EventDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return d.publisher.Close()
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, events []CommentEvent) error {
	for _, e := range events {
		logrus.WithFields(logrus.Fields{
			"event":      e.Type,
			"comment_id": e.CommentID,
			"post_id":    e.PostID,
			"user_id":    e.UserID,
			"value":      e.Value,
		}).Info("comment event")
	}
	return nil
}

func (LogPublisher) Close() error { return nil }

type nopSink struct{}

func (nopSink) Emit(CommentEvent) bool { return false }
