// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// handshakeErrorHandler handles both handshake and error effects.
// Handshake ops wait on would-block errors via iox.Backoff. Error ops
// short-circuit on Throw.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type handshakeErrorHandler[T, E, A any] struct {
	ctx    *handshakeContext[T]
	errCtx *kont.ErrorContext[E]
}

// Dispatch implements kont.Handler for the composed Handshake+Error handler.
// Dispatch order: Handshake → Error.
func (h handshakeErrorHandler[T, E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if hop, ok := op.(handshakeDispatcher[T]); ok {
		return dispatchWait(h.ctx, hop), true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("reqch: unhandled effect in handshakeErrorHandler")
}

// ExecError runs a handshake protocol with error handling on a
// pre-created endpoint. Returns Either[E, R] — Right on success, Left
// on Throw. Blocks past would-block and contention errors via adaptive
// backoff, without spawning goroutines or creating channels.
func ExecError[E, R, T any](ep *Endpoint[T], protocol kont.Eff[R]) kont.Either[E, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := handshakeErrorHandler[T, E, R]{ctx: &ep.ctx, errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecErrorExpr runs an Expr handshake protocol with error handling on a
// pre-created endpoint. Returns Either[E, R] — Right on success, Left
// on Throw. Blocks past would-block and contention errors via adaptive
// backoff, without spawning goroutines or creating channels.
func ExecErrorExpr[E, R, T any](ep *Endpoint[T], protocol kont.Expr[R]) kont.Either[E, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := handshakeErrorHandler[T, E, R]{ctx: &ep.ctx, errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// RunError creates a handshake channel, runs both Cont-world protocols
// with error handling, and returns both results as Either values.
// Interleaves execution on the calling goroutine using adaptive backoff
// (iox.Backoff). Does not spawn goroutines or create channels.
func RunError[T, E, A, B any](requester kont.Eff[A], responder kont.Eff[B]) (kont.Either[E, A], kont.Either[E, B]) {
	return RunErrorExpr[T, E](Reify(requester), Reify(responder))
}

// RunErrorExpr creates a handshake channel, runs both Expr-world
// protocols with error handling, and returns both results as Either
// values. Interleaves execution on the calling goroutine using adaptive
// backoff (iox.Backoff). Does not spawn goroutines or create channels.
func RunErrorExpr[T, E, A, B any](requester kont.Expr[A], responder kont.Expr[B]) (kont.Either[E, A], kont.Either[E, B]) {
	rq, rs := New[T]()
	epA, epB := rq.Endpoint(), rs.Endpoint()
	resultA, suspA := StepError[E, A](requester)
	resultB, suspB := StepError[E, B](responder)
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = AdvanceError[E](epA, suspA)
			if err == nil {
				progress = true
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = AdvanceError[E](epB, suspB)
			if err == nil {
				progress = true
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}

// StepError evaluates a handshake protocol with error support until the
// first effect suspension. Returns (Either[E, R], nil) on completion or
// error, or (zero, suspension) if pending.
func StepError[E, R any](protocol kont.Expr[R]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]]) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation on the endpoint.
// Handshake ops are non-blocking (would-block errors leave the
// suspension unconsumed). Error ops are eager: Throw discards the
// suspension and returns Left.
func AdvanceError[E, R, T any](ep *Endpoint[T], susp *kont.Suspension[kont.Either[E, R]]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	// Handshake ops: non-blocking dispatch
	if hop, ok := susp.Op().(handshakeDispatcher[T]); ok {
		v, err := hop.DispatchHandshake(&ep.ctx)
		if err != nil {
			var zero kont.Either[E, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Error ops: eager dispatch
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("reqch: unhandled effect in AdvanceError")
}
