package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Emitter stamps and publishes events on a channel, honoring cancellation.
type Emitter struct {
	ctx context.Context
	out chan<- Event
}

// NewEmitter returns an emitter writing to out. A nil out drops every event.
func NewEmitter(ctx context.Context, out chan<- Event) *Emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Emitter{ctx: ctx, out: out}
}

// Send publishes one event.
func (e *Emitter) Send(event Event) error {
	if e == nil || e.out == nil {
		return nil
	}
	event.Version = SchemaVersion
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

// Warn publishes a warning message.
func (e *Emitter) Warn(path, message string) error {
	trimmed := strings.TrimRight(message, "\n")
	if trimmed == "" {
		return nil
	}
	return e.Send(Event{
		Kind:    EventKindWarning,
		Path:    path,
		Message: &LogEvent{Level: "warning", Message: trimmed},
	})
}

// Dispatch runs produce and consume concurrently over an unbuffered channel.
// Every event the producer managed to send is consumed before Dispatch returns,
// so consumers observe events in production order. Cancellation of ctx is returned to the caller;
// cancellation caused by a failing consumer is not.
func Dispatch(
	ctx context.Context,
	produce func(context.Context, chan<- Event) error,
	consume func(Event) error,
) error {
	if produce == nil || consume == nil {
		return fmt.Errorf("stream: producer and consumer are required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for event := range events {
			if err := consume(event); err != nil {
				return err
			}
		}
		return nil
	})

	waitError := group.Wait()
	if parentError := ctx.Err(); parentError != nil {
		return parentError
	}
	if waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}
