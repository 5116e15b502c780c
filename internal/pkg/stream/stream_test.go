package stream

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_CompletesWithEOF(t *testing.T) {
	s := FromSlice(context.Background(), []string{"Hel", "", "lo"})
	defer s.Close()

	first, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "Hel", first)
	assert.Equal(t, StateStreaming, s.State())

	second, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "lo", second)

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, s.Close())
	assert.Equal(t, StateClosed, s.State())

	// no fragments after Closed
	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStream_ErrorMidStream(t *testing.T) {
	boom := errors.New("upstream reset")
	s := Start(context.Background(), func(ctx context.Context, emit EmitFunc) error {
		if err := emit("partial"); err != nil {
			return err
		}
		return boom
	})
	defer s.Close()

	text, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "partial", text)

	_, err = s.Recv()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateErroring, s.State())

	s.Close()
	assert.Equal(t, StateClosed, s.State())
}

func TestStream_ErrorBeforeFirstFragment(t *testing.T) {
	boom := errors.New("HTTP 401")
	s := Start(context.Background(), func(ctx context.Context, emit EmitFunc) error {
		return boom
	})
	defer s.Close()

	_, err := s.Recv()
	assert.ErrorIs(t, err, boom)
}

func TestStream_CloseCancelsProducer(t *testing.T) {
	released := make(chan struct{})
	s := Start(context.Background(), func(ctx context.Context, emit EmitFunc) error {
		defer close(released)
		for {
			if err := emit("tick"); err != nil {
				return err
			}
		}
	})

	_, err := s.Recv()
	require.NoError(t, err)

	closed := make(chan struct{})
	go func() {
		s.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("producer still running after Close")
	}
	assert.Equal(t, StateClosed, s.State())
}

func TestStream_ParentContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := Start(ctx, func(ctx context.Context, emit EmitFunc) error {
		<-ctx.Done()
		return ctx.Err()
	})
	defer s.Close()

	cancel()
	_, err := s.Recv()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect(t *testing.T) {
	out, err := Collect(FromSlice(context.Background(), []string{"a", "b", "c"}))
	require.NoError(t, err)
	assert.Equal(t, "abc", out)
}
