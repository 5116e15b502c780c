// Package stream provides a cancellable, single-pass sequence of text
// fragments produced by a background goroutine.
package stream

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// State of a Stream. Requesting and Streaming are the only states in which
// the producer runs; Closed is terminal.
type State int32

const (
	StateIdle State = iota
	StateRequesting
	StateStreaming
	StateErroring
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateStreaming:
		return "streaming"
	case StateErroring:
		return "erroring"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// EmitFunc hands one fragment to the consumer. It blocks until the fragment
// is received and returns ctx.Err() once the stream is cancelled.
type EmitFunc func(text string) error

// Producer opens the upstream call and emits fragments until it is done.
// It must return promptly once ctx is cancelled.
type Producer func(ctx context.Context, emit EmitFunc) error

// Stream is a single-consumer sequence of fragments fed by one Producer.
type Stream struct {
	fragments chan string
	done      chan struct{}
	cancel    context.CancelFunc
	state     atomic.Int32
	err       error
	closeOnce sync.Once
}

// Start runs p in its own goroutine. The returned Stream must be closed.
func Start(ctx context.Context, p Producer) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		fragments: make(chan string),
		done:      make(chan struct{}),
		cancel:    cancel,
	}
	s.state.Store(int32(StateRequesting))

	go s.run(ctx, p)

	return s
}

func (s *Stream) run(ctx context.Context, p Producer) {
	defer close(s.done)
	defer close(s.fragments)

	err := p(ctx, func(text string) error {
		if text == "" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.state.CompareAndSwap(int32(StateRequesting), int32(StateStreaming))
		select {
		case s.fragments <- text:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil {
		// written before fragments is closed, read after the receive fails
		s.err = err
		s.state.CompareAndSwap(int32(StateRequesting), int32(StateErroring))
		s.state.CompareAndSwap(int32(StateStreaming), int32(StateErroring))
	}
}

// Recv returns the next fragment. It returns io.EOF after a successful
// completion, or the producer error when the upstream call failed or the
// stream was cancelled.
func (s *Stream) Recv() (string, error) {
	text, ok := <-s.fragments
	if ok {
		return text, nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

// Close cancels the producer and waits for it to exit. It is safe to call
// more than once and from any goroutine.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		s.state.Store(int32(StateClosed))
	})
	return nil
}

// State reports the current lifecycle state.
func (s *Stream) State() State {
	return State(s.state.Load())
}

// Collect drains the stream into a single string and closes it.
func Collect(s *Stream) (string, error) {
	defer s.Close()

	var out []byte
	for {
		text, err := s.Recv()
		if err == io.EOF {
			return string(out), nil
		}
		if err != nil {
			return string(out), err
		}
		out = append(out, text...)
	}
}

// FromSlice returns a stream that emits the given fragments.
func FromSlice(ctx context.Context, fragments []string) *Stream {
	return Start(ctx, func(ctx context.Context, emit EmitFunc) error {
		for _, f := range fragments {
			if err := emit(f); err != nil {
				return err
			}
		}
		return nil
	})
}
