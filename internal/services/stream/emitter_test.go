package stream_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/temirov/treetouch/internal/services/stream"
)

const producedEventCount = 5

// sendPaths publishes one directory event per index until the emitter refuses.
func sendPaths(ctx context.Context, out chan<- stream.Event) error {
	emitter := stream.NewEmitter(ctx, out)
	for index := 0; index < producedEventCount; index++ {
		if err := emitter.Send(stream.Event{Kind: stream.EventKindDirectory, Path: fmt.Sprintf("/root/%d", index)}); err != nil {
			return err
		}
	}
	return nil
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	consumerFailure := errors.New("renderer failed")
	producerFailure := errors.New("builder failed")

	testCases := []struct {
		name                       string
		produce                    func(context.Context, chan<- stream.Event) error
		failAt                     int
		expectedError              error
		expectedConsumed           int
		expectProducerCancellation bool
	}{
		{
			name:             "consumes_every_event_in_order",
			produce:          sendPaths,
			failAt:           -1,
			expectedConsumed: producedEventCount,
		},
		{
			name:                       "consumer_error_cancels_producer",
			produce:                    sendPaths,
			failAt:                     1,
			expectedError:              consumerFailure,
			expectedConsumed:           2,
			expectProducerCancellation: true,
		},
		{
			name: "producer_error_is_returned",
			produce: func(ctx context.Context, out chan<- stream.Event) error {
				if err := stream.NewEmitter(ctx, out).Send(stream.Event{Kind: stream.EventKindDirectory, Path: "/root/0"}); err != nil {
					return err
				}
				return producerFailure
			},
			failAt:           -1,
			expectedError:    producerFailure,
			expectedConsumed: 1,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var consumed []stream.Event
			var producerError error
			err := stream.Dispatch(context.Background(),
				func(ctx context.Context, out chan<- stream.Event) error {
					producerError = testCase.produce(ctx, out)
					return producerError
				},
				func(event stream.Event) error {
					consumed = append(consumed, event)
					if len(consumed)-1 == testCase.failAt {
						return consumerFailure
					}
					return nil
				},
			)

			if testCase.expectedError == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if testCase.expectedError != nil && !errors.Is(err, testCase.expectedError) {
				t.Fatalf("expected %v, got %v", testCase.expectedError, err)
			}
			if len(consumed) != testCase.expectedConsumed {
				t.Fatalf("expected %d consumed events, got %d", testCase.expectedConsumed, len(consumed))
			}
			for index, event := range consumed {
				if expectedPath := fmt.Sprintf("/root/%d", index); event.Path != expectedPath {
					t.Fatalf("expected event %d to be %s, got %s", index, expectedPath, event.Path)
				}
				if event.Version != stream.SchemaVersion || event.EmittedAt.IsZero() {
					t.Fatalf("expected stamped event, got %+v", event)
				}
			}
			if testCase.expectProducerCancellation && !errors.Is(producerError, context.Canceled) {
				t.Fatalf("expected producer to observe cancellation, got %v", producerError)
			}
		})
	}
}

func TestDispatchReturnsCallerCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	consumed := 0
	err := stream.Dispatch(ctx, sendPaths, func(event stream.Event) error {
		consumed++
		if consumed == 2 {
			cancel()
		}
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEmitterWarnPublishesTrimmedMessage(t *testing.T) {
	t.Parallel()
	out := make(chan stream.Event, 2)
	emitter := stream.NewEmitter(context.Background(), out)
	if err := emitter.Warn("/root/a", "line 3 names its parent\n"); err != nil {
		t.Fatalf("Warn error: %v", err)
	}
	if err := emitter.Warn("/root/a", "\n"); err != nil {
		t.Fatalf("Warn error: %v", err)
	}
	close(out)

	var events []stream.Event
	for event := range out {
		events = append(events, event)
	}
	if len(events) != 1 {
		t.Fatalf("expected blank warnings to be dropped, got %d events", len(events))
	}
	if events[0].Kind != stream.EventKindWarning || events[0].Message == nil || events[0].Message.Message != "line 3 names its parent" {
		t.Fatalf("unexpected warning event %+v", events[0])
	}
}

func TestNilEmitterDropsEvents(t *testing.T) {
	t.Parallel()
	var emitter *stream.Emitter
	if err := emitter.Send(stream.Event{Kind: stream.EventKindDone}); err != nil {
		t.Fatalf("expected nil emitter to drop events, got %v", err)
	}
}
