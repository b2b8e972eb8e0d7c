package engine

import (
	"context"

	"github.com/pkg/errors"
)

// Errors returned by Evaluate when no result is delivered.
var (
	ErrTimeout    = errors.New("evaluation timed out")
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	result *EvalResult
	err    error
}

// begin starts a new evaluation generation and returns its number.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *Engine) isCurrent(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}

// await blocks until ch delivers, ctx is done or the engine timeout
// elapses. A result from an older generation is dropped; the goroutine
// that produced it may still be running after a timeout.
func (e *Engine) await(ctx context.Context, ch <-chan evalResult, gen uint64) (*EvalResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	select {
	case res := <-ch:
		if !e.isCurrent(gen) {
			return nil, ErrSuperseded
		}
		return res.result, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.Wrapf(ErrTimeout, "after %s", e.timeout)
		}
		return nil, errors.Wrap(ctx.Err(), "evaluation cancelled")
	}
}
