package ocr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yomigo/yomigo-server/internal/apperrors"
	"github.com/yomigo/yomigo-server/internal/imaging"
)

// fakeEngine is a controllable Engine for pool tests.
type fakeEngine struct {
	delay      time.Duration
	result     Result
	err        error
	inFlight   atomic.Int32
	maxSeen    atomic.Int32
	callCount  atomic.Int32
	honorCtx   bool
	healthyVal bool
}

func (f *fakeEngine) Name() string  { return "fake" }
func (f *fakeEngine) Healthy() bool { return f.healthyVal }

func (f *fakeEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	f.callCount.Add(1)
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		prev := f.maxSeen.Load()
		if cur <= prev || f.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}

	if f.honorCtx {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	} else if f.delay > 0 {
		time.Sleep(f.delay)
	}

	return f.result, f.err
}

func TestPool_BoundsConcurrency(t *testing.T) {
	engine := &fakeEngine{delay: 20 * time.Millisecond, result: Result{FullText: "ok"}}
	pool := NewPool(engine, 2, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Recognize(context.Background(), Input{Orientation: imaging.OrientationVertical})
			if err != nil {
				t.Errorf("Recognize failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if max := engine.maxSeen.Load(); max > 2 {
		t.Errorf("pool admitted %d concurrent recognitions, want <= 2", max)
	}
	if calls := engine.callCount.Load(); calls != 8 {
		t.Errorf("all queued requests must run: got %d, want 8", calls)
	}
}

func TestPool_Timeout(t *testing.T) {
	engine := &fakeEngine{delay: 200 * time.Millisecond, honorCtx: true}
	pool := NewPool(engine, 1, 20*time.Millisecond)

	_, err := pool.Recognize(context.Background(), Input{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !apperrors.Is(err, apperrors.KindOcrTimeout) {
		t.Errorf("kind: got %s, want %s", apperrors.KindOf(err), apperrors.KindOcrTimeout)
	}
}

func TestPool_QueuedRequestCancellation(t *testing.T) {
	engine := &fakeEngine{delay: 300 * time.Millisecond, honorCtx: true}
	pool := NewPool(engine, 1, time.Second)

	// Occupy the only slot.
	go pool.Recognize(context.Background(), Input{})
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pool.Recognize(ctx, Input{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("canceled queued request: got %v, want context.Canceled", err)
	}
}

func TestPool_PropagatesEngineError(t *testing.T) {
	wantErr := apperrors.New(apperrors.KindOcrUnavailable, "backend gone")
	engine := &fakeEngine{err: wantErr}
	pool := NewPool(engine, 1, time.Second)

	_, err := pool.Recognize(context.Background(), Input{})
	if !apperrors.Is(err, apperrors.KindOcrUnavailable) {
		t.Errorf("kind: got %s, want %s", apperrors.KindOf(err), apperrors.KindOcrUnavailable)
	}
}

func TestPool_Healthy(t *testing.T) {
	engine := &fakeEngine{healthyVal: true}
	pool := NewPool(engine, 1, time.Second)

	if !pool.Healthy() {
		t.Error("pool should report the engine's health")
	}

	engine.healthyVal = false
	if pool.Healthy() {
		t.Error("pool should report unhealthy engine")
	}
}
