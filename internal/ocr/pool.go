package ocr

import (
	"context"
	"time"

	"github.com/yomigo/yomigo-server/internal/apperrors"
)

// Pool bounds concurrent recognitions over an underlying engine.
//
// OCR is memory- and CPU-heavy; the pool admits at most size recognitions
// at a time and queues the rest (bounded backpressure) instead of spawning
// unbounded recognition contexts. Queued requests honor context
// cancellation, so a disconnected caller never occupies a slot.
//
// Pool itself implements Engine and can be substituted anywhere the bare
// engine is accepted.
type Pool struct {
	engine  Engine
	slots   chan struct{}
	timeout time.Duration
}

// NewPool wraps engine with a concurrency bound of size and a per-call
// recognition deadline. A size below 1 is treated as 1.
func NewPool(engine Engine, size int, timeout time.Duration) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		engine:  engine,
		slots:   make(chan struct{}, size),
		timeout: timeout,
	}
}

func (p *Pool) Name() string { return p.engine.Name() }

// Healthy delegates to the underlying engine when it reports health.
func (p *Pool) Healthy() bool {
	if hc, ok := p.engine.(HealthChecker); ok {
		return hc.Healthy()
	}
	return true
}

// Recognize waits for a free slot, then runs the underlying engine with the
// pool's per-call deadline applied.
func (p *Pool) Recognize(ctx context.Context, in Input) (Result, error) {
	select {
	case p.slots <- struct{}{}:
		defer func() { <-p.slots }()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result, err := p.engine.Recognize(callCtx, in)
	if err != nil && callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		// The pool's deadline fired, not the caller's context.
		return Result{}, apperrors.Wrap(apperrors.KindOcrTimeout,
			"recognition exceeded deadline", err)
	}
	return result, err
}
