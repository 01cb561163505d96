package retry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWrap_SucceedsFirstAttempt(t *testing.T) {
	var calls atomic.Int32
	fn := Wrap(func(ctx context.Context, in int) (int, error) {
		calls.Add(1)
		return in * 2, nil
	})

	start := time.Now()
	got, err := fn(context.Background(), 21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if calls.Load() != 1 {
		t.Errorf("fn called %d times, want 1", calls.Load())
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("success took %v, should not back off", elapsed)
	}
}

func TestWrap_FailTwiceThenSucceed(t *testing.T) {
	var calls, observed atomic.Int32

	fn := Wrap(func(ctx context.Context, in string) (string, error) {
		if calls.Add(1) < 3 {
			return "", errors.New("transient")
		}
		return in + "!", nil
	},
		WithAttempts(3),
		WithBackoff(time.Millisecond),
		WithJitter(time.Millisecond),
		WithOnError(func(err error) { observed.Add(1) }),
	)

	got, err := fn(context.Background(), "ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok!" {
		t.Errorf("got %q, want %q", got, "ok!")
	}
	if calls.Load() != 3 {
		t.Errorf("fn called %d times, want 3", calls.Load())
	}
	if observed.Load() != 2 {
		t.Errorf("observer called %d times, want 2", observed.Load())
	}
}

func TestWrap_ExhaustionReturnsLastError(t *testing.T) {
	var calls atomic.Int32
	errs := []error{errors.New("first"), errors.New("second")}

	fn := Wrap(func(ctx context.Context, _ struct{}) (int, error) {
		n := calls.Add(1)
		return 0, errs[n-1]
	},
		WithAttempts(2),
		WithBackoff(time.Millisecond),
		WithJitter(0),
	)

	_, err := fn(context.Background(), struct{}{})
	if calls.Load() != 2 {
		t.Fatalf("fn called %d times, want 2", calls.Load())
	}
	if err != errs[1] {
		t.Errorf("expected the second failure verbatim, got %v", err)
	}
}

func TestWrap_BackoffTiming(t *testing.T) {
	base := 50 * time.Millisecond
	jitter := 25 * time.Millisecond

	fn := Wrap(func(ctx context.Context, _ struct{}) (int, error) {
		return 0, errors.New("always")
	},
		WithAttempts(2),
		WithBackoff(base),
		WithJitter(jitter),
	)

	start := time.Now()
	_, err := fn(context.Background(), struct{}{})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected error")
	}

	// One wait between attempt 1 and 2: base*2 plus jitter in [0, 25ms).
	if elapsed < 2*base {
		t.Errorf("waited %v, want at least %v", elapsed, 2*base)
	}
	if elapsed > 2*base+jitter+100*time.Millisecond {
		t.Errorf("waited %v, far beyond %v plus jitter", elapsed, 2*base)
	}
}

func TestWrap_ObserverSeesFinalFailure(t *testing.T) {
	boom := errors.New("boom")
	var seen []error

	fn := Wrap(func(ctx context.Context, _ struct{}) (int, error) {
		return 0, boom
	},
		WithAttempts(2),
		WithBackoff(time.Millisecond),
		WithJitter(0),
		WithOnError(func(err error) { seen = append(seen, err) }),
	)

	_, _ = fn(context.Background(), struct{}{})
	if len(seen) != 2 {
		t.Fatalf("observer called %d times, want 2 (final failure included)", len(seen))
	}
	for i, err := range seen {
		if err != boom {
			t.Errorf("observer call %d saw %v, want boom", i, err)
		}
	}
}

func TestWrap_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fn := Wrap(func(ctx context.Context, _ struct{}) (int, error) {
		return 0, errors.New("always")
	},
		WithAttempts(3),
		WithBackoff(10*time.Second),
		WithJitter(0),
	)

	done := make(chan error, 1)
	go func() {
		_, err := fn(ctx, struct{}{})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("wrapped fn did not return after cancellation")
	}
}

func TestWrapWithDefault_ReturnsDefaultOnExhaustion(t *testing.T) {
	var calls atomic.Int32

	fn := WrapWithDefault(func(ctx context.Context, _ struct{}) (int, error) {
		calls.Add(1)
		return 0, errors.New("always")
	}, 42, WithAttempts(1))

	got, err := fn(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("expected exhaustion to be swallowed, got %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want default 42", got)
	}
	if calls.Load() != 1 {
		t.Errorf("fn called %d times, want 1", calls.Load())
	}
}

func TestWrapWithDefault_SuccessIgnoresDefault(t *testing.T) {
	fn := WrapWithDefault(func(ctx context.Context, in int) (int, error) {
		return in + 1, nil
	}, -1, WithAttempts(3))

	got, err := fn(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestWrapWithDefault_DefaultReturnedAsIs(t *testing.T) {
	def := &struct{ n int }{n: 7}

	fn := WrapWithDefault(func(ctx context.Context, _ struct{}) (*struct{ n int }, error) {
		return nil, errors.New("always")
	}, def, WithAttempts(1))

	got, err := fn(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != def {
		t.Error("default was not returned by identity")
	}
}

func TestWrapWithDefault_CancellationStillPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fn := WrapWithDefault(func(ctx context.Context, _ struct{}) (int, error) {
		return 0, errors.New("always")
	}, 42, WithAttempts(3), WithBackoff(time.Hour))

	_, err := fn(ctx, struct{}{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDo(t *testing.T) {
	var calls atomic.Int32

	got, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		if calls.Add(1) < 2 {
			return "", errors.New("transient")
		}
		return "done", nil
	}, WithAttempts(3), WithBackoff(time.Millisecond), WithJitter(0))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Errorf("got %q, want %q", got, "done")
	}
	if calls.Load() != 2 {
		t.Errorf("fn called %d times, want 2", calls.Load())
	}
}

func TestWrap_MaxBackoffCapsWait(t *testing.T) {
	fn := Wrap(func(ctx context.Context, _ struct{}) (int, error) {
		return 0, errors.New("always")
	},
		WithAttempts(4),
		WithBackoff(40*time.Millisecond),
		WithJitter(0),
		WithMaxBackoff(50*time.Millisecond),
	)

	start := time.Now()
	_, _ = fn(context.Background(), struct{}{})
	elapsed := time.Since(start)

	// Uncapped waits would be 80+160+320ms; capped they are at most 150ms.
	if elapsed > 400*time.Millisecond {
		t.Errorf("waited %v, cap did not apply", elapsed)
	}
	if elapsed < 130*time.Millisecond {
		t.Errorf("waited %v, want at least three 50ms-capped waits", elapsed)
	}
}
