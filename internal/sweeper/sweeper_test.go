package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeMeetingSweeper struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
	first chan struct{}
	once  sync.Once
}

func newFakeMeetingSweeper() *fakeMeetingSweeper {
	return &fakeMeetingSweeper{first: make(chan struct{})}
}

func (f *fakeMeetingSweeper) SweepExpiredMeetings(_ context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, now)
	f.mu.Unlock()
	f.once.Do(func() { close(f.first) })
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakeMeetingSweeper) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeMeetingSweeper) lastNow() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type fakePromotionSweeper struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
	first chan struct{}
	once  sync.Once
}

func newFakePromotionSweeper() *fakePromotionSweeper {
	return &fakePromotionSweeper{first: make(chan struct{})}
}

func (f *fakePromotionSweeper) SweepPromotions(_ context.Context, now time.Time) (int, int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, now)
	f.mu.Unlock()
	f.once.Do(func() { close(f.first) })
	if f.err != nil {
		return 0, 0, f.err
	}
	return 1, 0, nil
}

func (f *fakePromotionSweeper) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func waitForCount(t *testing.T, count func() int, want int, what string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for count() < want {
		select {
		case <-deadline:
			t.Fatalf("%s ran %d times, want at least %d", what, count(), want)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestRunSweepsOnceImmediately(t *testing.T) {
	meetings := newFakeMeetingSweeper()
	promotions := newFakePromotionSweeper()
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	s := New(meetings, promotions, time.Hour, time.Hour, zerolog.Nop(), func() time.Time { return now })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	waitFor(t, meetings.first, "meeting sweep")
	waitFor(t, promotions.first, "promotion sweep")
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if got := meetings.count(); got != 1 {
		t.Errorf("meeting sweeps = %d, want 1 before the first tick", got)
	}
	if got := promotions.count(); got != 1 {
		t.Errorf("promotion sweeps = %d, want 1 before the first tick", got)
	}
	if got := meetings.lastNow(); !got.Equal(now) {
		t.Errorf("meeting sweep ran at %s, want the injected clock %s", got, now)
	}
}

func TestRunKeepsSweepingOnTicker(t *testing.T) {
	meetings := newFakeMeetingSweeper()
	promotions := newFakePromotionSweeper()

	s := New(meetings, promotions, 5*time.Millisecond, time.Hour, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	waitForCount(t, meetings.count, 3, "meeting sweep")
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if got := promotions.count(); got != 1 {
		t.Errorf("promotion sweeps = %d, want 1 on its own slow interval", got)
	}
}

func TestRunContinuesAfterSweepError(t *testing.T) {
	meetings := newFakeMeetingSweeper()
	meetings.err = errors.New("connection refused")
	promotions := newFakePromotionSweeper()

	s := New(meetings, promotions, 5*time.Millisecond, 5*time.Millisecond, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	// A failing job keeps its schedule and the healthy job is untouched.
	waitForCount(t, meetings.count, 2, "failing meeting sweep")
	waitFor(t, promotions.first, "promotion sweep")
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
