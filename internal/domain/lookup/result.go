package lookup

import (
	"context"
	"time"
)

// Result is the outcome of one upstream call: a value, or the reason the
// section is unavailable.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Unavailable wraps a failure.
func Unavailable[T any](err error) Result[T] { return Result[T]{Err: err} }

// call runs fn under its own timeout and captures the outcome. A timeout
// or error never escapes as anything but an unavailable Result.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) Result[T] {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	v, err := fn(ctx)
	if err != nil {
		return Unavailable[T](err)
	}
	return Ok(v)
}
