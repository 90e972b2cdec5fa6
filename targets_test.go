package benchz

import (
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestNoopTarget(t *testing.T) {
	target := NewNoopTarget(3)
	if target.OpCount() != 3 {
		t.Errorf("Expected 3 ops, got %d", target.OpCount())
	}

	ctx := &ThreadCtx{Worker: 0}
	target.Register(ctx, 0)
	for op := 0; op < 3; op++ {
		if res := target.Dispatch(ctx, op); res != ResultOK {
			t.Errorf("op %d: expected ResultOK, got %v", op, res)
		}
	}
	target.Deregister(ctx, 0)

	if NewNoopTarget(0).OpCount() != 1 {
		t.Error("Expected op count floor of 1")
	}
}

func TestSleepTarget(t *testing.T) {
	target := NewSleepTarget(2 * time.Millisecond)
	ctx := &ThreadCtx{Worker: 0}

	start := time.Now()
	if res := target.Dispatch(ctx, 0); res != ResultOK {
		t.Fatalf("Expected ResultOK, got %v", res)
	}
	if elapsed := time.Since(start); elapsed < 2*time.Millisecond {
		t.Errorf("Expected at least 2ms, got %v", elapsed)
	}
}

func TestSleepTarget_WithClock(t *testing.T) {
	clock := clockz.NewFakeClock()
	target := NewSleepTarget(time.Second).WithClock(clock)
	ctx := &ThreadCtx{Worker: 0}

	done := make(chan Result, 1)
	go func() { done <- target.Dispatch(ctx, 0) }()

	select {
	case <-done:
		t.Fatal("dispatch returned before the clock advanced")
	case <-time.After(10 * time.Millisecond):
	}

	clock.Advance(time.Second)
	if res := <-done; res != ResultOK {
		t.Errorf("Expected ResultOK, got %v", res)
	}
}

func TestMapTarget(t *testing.T) {
	t.Run("Init Prefills", func(t *testing.T) {
		target := NewMapTarget()
		if err := target.Init(128, 2); err != nil {
			t.Fatalf("init failed: %v", err)
		}
		if got := target.Len(); got != 128 {
			t.Errorf("Expected 128 resident keys, got %d", got)
		}
	})

	t.Run("Dispatch Semantics", func(t *testing.T) {
		target := NewMapTarget()
		if err := target.Init(64, 1); err != nil {
			t.Fatalf("init failed: %v", err)
		}

		ctx := &ThreadCtx{Worker: 0}
		target.Register(ctx, 0)
		if ctx.Payload == nil {
			t.Fatal("Expected register to seed the worker's key stream")
		}

		for i := 0; i < 1000; i++ {
			if res := target.Dispatch(ctx, MapOpInsert); res != ResultOK {
				t.Fatalf("insert returned %v", res)
			}
		}
		for i := 0; i < 1000; i++ {
			res := target.Dispatch(ctx, MapOpLookup)
			if res != ResultOK && res != ResultNotFound {
				t.Fatalf("lookup returned %v", res)
			}
		}
		for i := 0; i < 1000; i++ {
			res := target.Dispatch(ctx, MapOpDelete)
			if res != ResultOK && res != ResultNotFound {
				t.Fatalf("delete returned %v", res)
			}
		}

		if res := target.Dispatch(ctx, 99); res != ResultRejected {
			t.Errorf("Expected ResultRejected for unknown op, got %v", res)
		}

		target.Deregister(ctx, 0)
		if ctx.Payload != nil {
			t.Error("Expected deregister to clear the payload")
		}
	})

	t.Run("Destroy Releases", func(t *testing.T) {
		target := NewMapTarget()
		if err := target.Init(16, 1); err != nil {
			t.Fatalf("init failed: %v", err)
		}
		if err := target.Destroy(1); err != nil {
			t.Fatalf("destroy failed: %v", err)
		}
		if got := target.Len(); got != 0 {
			t.Errorf("Expected empty map after destroy, got %d keys", got)
		}
	})
}
