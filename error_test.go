// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch_test

import (
	"fmt"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/reqch"
)

func TestRunErrorSuccess(t *testing.T) {
	// Success path: no error thrown, both results are Right
	requester := reqch.RequestThen[int](
		reqch.ReceiveBind(func(n int) kont.Eff[string] {
			return kont.Pure(fmt.Sprintf("got %d", n))
		}),
	)
	responder := reqch.RespondThen[int](
		reqch.DeliverDone(42, "ok"),
	)

	requesterResult, responderResult := reqch.RunError[int, string, string, string](requester, responder)
	if !requesterResult.IsRight() {
		t.Fatalf("requester expected Right, got Left")
	}
	rv, _ := requesterResult.GetRight()
	if rv != "got 42" {
		t.Fatalf("requester got %q, want %q", rv, "got 42")
	}
	if !responderResult.IsRight() {
		t.Fatalf("responder expected Right, got Left")
	}
	sv, _ := responderResult.GetRight()
	if sv != "ok" {
		t.Fatalf("responder got %q, want %q", sv, "ok")
	}
}

func TestRunErrorThrow(t *testing.T) {
	// Throw path: requester opens the handshake then throws, result is Left
	requester := reqch.RequestThen[int](
		kont.ThrowError[string, string]("boom"),
	)
	responder := reqch.RespondThen[int](
		reqch.DeliverDone(42, "sent"),
	)

	requesterResult, _ := reqch.RunError[int, string, string, string](requester, responder)
	if !requesterResult.IsLeft() {
		t.Fatalf("requester expected Left, got Right")
	}
	errVal, _ := requesterResult.GetLeft()
	if errVal != "boom" {
		t.Fatalf("requester error got %q, want %q", errVal, "boom")
	}
}

func TestRunErrorCatchRecovery(t *testing.T) {
	// Catch recovery: error-only body/handler, then handshake ops.
	// Catch body and handler must be pure error effects (no handshake ops).
	requester := kont.Bind(
		kont.CatchError(
			kont.ThrowError[string, string]("fail"),
			func(e string) kont.Eff[string] {
				return kont.Pure("recovered: " + e)
			},
		),
		func(s string) kont.Eff[string] {
			return reqch.RequestThen[string](
				reqch.ReceiveBind(func(v string) kont.Eff[string] {
					return kont.Pure(s + ":" + v)
				}),
			)
		},
	)

	responder := reqch.RespondThen[string](
		reqch.DeliverDone("pong", "served"),
	)

	requesterResult, responderResult := reqch.RunError[string, string, string, string](requester, responder)
	if !requesterResult.IsRight() {
		t.Fatalf("requester expected Right, got Left")
	}
	rv, _ := requesterResult.GetRight()
	if rv != "recovered: fail:pong" {
		t.Fatalf("requester got %q, want %q", rv, "recovered: fail:pong")
	}
	if !responderResult.IsRight() {
		t.Fatalf("responder expected Right, got Left")
	}
	sv, _ := responderResult.GetRight()
	if sv != "served" {
		t.Fatalf("responder got %q, want %q", sv, "served")
	}
}

func TestRunErrorExprSuccess(t *testing.T) {
	// Expr-world success path
	requester := reqch.ExprRequestThen[int](
		reqch.ExprReceiveBind(func(n int) kont.Expr[string] {
			return kont.ExprReturn(fmt.Sprintf("got %d", n))
		}),
	)
	responder := reqch.ExprRespondThen[int](
		reqch.ExprDeliverDone(42, "ok"),
	)

	requesterResult, responderResult := reqch.RunErrorExpr[int, string, string, string](requester, responder)
	if !requesterResult.IsRight() {
		t.Fatalf("requester expected Right, got Left")
	}
	rv, _ := requesterResult.GetRight()
	if rv != "got 42" {
		t.Fatalf("requester got %q, want %q", rv, "got 42")
	}
	if !responderResult.IsRight() {
		t.Fatalf("responder expected Right, got Left")
	}
	sv, _ := responderResult.GetRight()
	if sv != "ok" {
		t.Fatalf("responder got %q, want %q", sv, "ok")
	}
}

func TestRunErrorExprThrow(t *testing.T) {
	// Expr-world throw path
	requester := reqch.ExprRequestThen[int](
		kont.ExprThrowError[string, string]("expr-boom"),
	)
	responder := reqch.ExprRespondThen[int](
		reqch.ExprDeliverDone(42, "sent"),
	)

	requesterResult, _ := reqch.RunErrorExpr[int, string, string, string](requester, responder)
	if !requesterResult.IsLeft() {
		t.Fatalf("requester expected Left, got Right")
	}
	errVal, _ := requesterResult.GetLeft()
	if errVal != "expr-boom" {
		t.Fatalf("requester error got %q, want %q", errVal, "expr-boom")
	}
}

func TestStepErrorSuccess(t *testing.T) {
	// Stepping with errors: success path on both endpoints
	rq, rs := reqch.New[int]()
	epA, epB := rq.Endpoint(), rs.Endpoint()

	requester := reqch.ExprRequestThen[int](
		reqch.ExprReceiveBind(func(n int) kont.Expr[string] {
			return kont.ExprReturn(fmt.Sprintf("got %d", n))
		}),
	)
	responder := reqch.ExprRespondThen[int](
		reqch.ExprDeliverDone(42, "ok"),
	)

	var requesterResult kont.Either[string, string]
	done := make(chan struct{})
	go func() {
		requesterResult = reqch.ExecErrorExpr[string](epA, requester)
		close(done)
	}()
	responderResult := reqch.ExecErrorExpr[string](epB, responder)
	<-done

	if !requesterResult.IsRight() {
		t.Fatalf("requester expected Right, got Left")
	}
	rv, _ := requesterResult.GetRight()
	if rv != "got 42" {
		t.Fatalf("requester got %q, want %q", rv, "got 42")
	}
	if !responderResult.IsRight() {
		t.Fatalf("responder expected Right, got Left")
	}
	sv, _ := responderResult.GetRight()
	if sv != "ok" {
		t.Fatalf("responder got %q, want %q", sv, "ok")
	}
}

func TestStepErrorThrow(t *testing.T) {
	// Stepping with errors: throw path, no peer needed after the request opens
	rq, _ := reqch.New[int]()

	protocol := reqch.ExprRequestThen[int](
		kont.ExprThrowError[string, string]("step-boom"),
	)

	result := reqch.ExecErrorExpr[string](rq.Endpoint(), protocol)
	if !result.IsLeft() {
		t.Fatalf("expected Left, got Right")
	}
	errVal, _ := result.GetLeft()
	if errVal != "step-boom" {
		t.Fatalf("error got %q, want %q", errVal, "step-boom")
	}
}

func TestAdvanceErrorWouldBlock(t *testing.T) {
	// AdvanceError returns ErrEmpty while nothing is delivered
	rq, rs := reqch.New[int]()
	ep := rq.Endpoint()

	protocol := reqch.ExprRequestThen[int](
		reqch.ExprReceiveBind(func(n int) kont.Expr[int] {
			return kont.ExprReturn(n)
		}),
	)

	result, susp := reqch.StepError[string, int](protocol)
	if susp == nil {
		t.Fatalf("expected suspension, got result %v", result)
	}

	result, susp, err := reqch.AdvanceError[string](ep, susp)
	if err != nil {
		t.Fatalf("AdvanceError Request error: %v", err)
	}
	if susp == nil {
		t.Fatal("expected suspension for Receive")
	}

	// nothing delivered yet — should get ErrEmpty
	_, retrySusp, err := reqch.AdvanceError[string](ep, susp)
	if !iox.IsWouldBlock(err) {
		t.Fatalf("expected would-block error, got %v", err)
	}
	if retrySusp != susp {
		t.Fatal("suspension should be returned unconsumed on error")
	}

	// deliver through the responder handle, then retry
	rsCon, err := rs.TryRespond()
	if err != nil {
		t.Fatalf("TryRespond error: %v", err)
	}
	rsCon.Send(99)

	for susp != nil {
		result, susp, err = reqch.AdvanceError[string](ep, susp)
		if err != nil {
			continue
		}
	}
	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	rv, _ := result.GetRight()
	if rv != 99 {
		t.Fatalf("result got %d, want 99", rv)
	}
}

func TestAdvanceErrorUnhandledPanics(t *testing.T) {
	// AdvanceError with bogus operation panics
	type bogus struct{ kont.Phantom[int] }

	protocol := kont.ExprPerform(bogus{})
	wrapped := kont.ExprMap(protocol, func(n int) kont.Either[string, int] {
		return kont.Right[string, int](n)
	})

	_, susp := kont.StepExpr(wrapped)
	if susp == nil {
		t.Fatal("expected suspension")
	}

	rq, _ := reqch.New[int]()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unhandled effect")
		}
		msg, ok := r.(string)
		if !ok || msg != "reqch: unhandled effect in AdvanceError" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	reqch.AdvanceError[string](rq.Endpoint(), susp)
}

func TestExecErrorDispatchUnhandledPanics(t *testing.T) {
	// ExecError with bogus operation panics (handshakeErrorHandler.Dispatch)
	type bogus struct{ kont.Phantom[int] }

	rq, _ := reqch.New[int]()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unhandled effect")
		}
		msg, ok := r.(string)
		if !ok || msg != "reqch: unhandled effect in handshakeErrorHandler" {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	reqch.ExecError[string](rq.Endpoint(), kont.Perform(bogus{}))
}

func TestCycleWithError(t *testing.T) {
	// Combined Cycle + Error: pull cycles, then throw when reaching a limit
	requester := reqch.Cycle(0, func(i int) kont.Eff[kont.Either[int, string]] {
		if i >= 3 {
			return kont.ThrowError[string, kont.Either[int, string]]("limit")
		}
		return reqch.RequestThen[int](
			reqch.ReceiveBind(func(n int) kont.Eff[kont.Either[int, string]] {
				return kont.Pure(kont.Left[int, string](i + 1))
			}),
		)
	})

	responder := reqch.Cycle(0, func(i int) kont.Eff[kont.Either[int, string]] {
		if i >= 3 {
			return kont.Pure(kont.Right[int, string]("served"))
		}
		return reqch.RespondThen[int](
			reqch.DeliverThen(i, kont.Pure(kont.Left[int, string](i+1))),
		)
	})

	requesterResult, responderResult := reqch.RunError[int, string, string, string](requester, responder)
	if !requesterResult.IsLeft() {
		t.Fatalf("requester expected Left, got Right")
	}
	errVal, _ := requesterResult.GetLeft()
	if errVal != "limit" {
		t.Fatalf("requester error got %q, want %q", errVal, "limit")
	}
	if !responderResult.IsRight() {
		t.Fatalf("responder expected Right, got Left")
	}
	sv, _ := responderResult.GetRight()
	if sv != "served" {
		t.Fatalf("responder got %q, want %q", sv, "served")
	}
}

func TestExprCycleWithError(t *testing.T) {
	// Combined ExprCycle + Error: request/cancel cycles with no responder,
	// then throw when reaching a limit
	requester := reqch.ExprCycle(0, func(i int) kont.Expr[kont.Either[int, string]] {
		if i >= 3 {
			return kont.ExprThrowError[string, kont.Either[int, string]]("limit")
		}
		return reqch.ExprRequestThen[int](
			reqch.ExprCancelBranch[int](
				func() kont.Expr[kont.Either[int, string]] {
					return kont.ExprReturn(kont.Left[int, string](i + 1))
				},
				func() kont.Expr[kont.Either[int, string]] {
					return kont.ExprReturn(kont.Right[int, string]("claimed"))
				},
			),
		)
	})

	responder := kont.ExprReturn("idle")

	requesterResult, responderResult := reqch.RunErrorExpr[int, string, string, string](requester, responder)
	if !requesterResult.IsLeft() {
		t.Fatalf("requester expected Left, got Right")
	}
	errVal, _ := requesterResult.GetLeft()
	if errVal != "limit" {
		t.Fatalf("requester error got %q, want %q", errVal, "limit")
	}
	if !responderResult.IsRight() {
		t.Fatalf("responder expected Right, got Left")
	}
	sv, _ := responderResult.GetRight()
	if sv != "idle" {
		t.Fatalf("responder got %q, want %q", sv, "idle")
	}
}

func TestExecErrorSingleEndpoint(t *testing.T) {
	// ExecError on a single endpoint, peer driven by Exec
	rq, rs := reqch.New[int]()

	done := make(chan struct{})
	go func() {
		defer close(done)
		reqch.Exec(rs.Endpoint(), reqch.RespondThen[int](
			reqch.DeliverDone(7, struct{}{}),
		))
	}()

	result := reqch.ExecError[string](rq.Endpoint(), reqch.RequestThen[int](
		reqch.ReceiveBind(func(n int) kont.Eff[string] {
			return kont.Pure(fmt.Sprintf("got %d", n))
		}),
	))
	<-done

	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	rv, _ := result.GetRight()
	if rv != "got 7" {
		t.Fatalf("got %q, want %q", rv, "got 7")
	}
}

func TestExecErrorExprSingleEndpoint(t *testing.T) {
	// ExecErrorExpr on a single endpoint, peer driven by execExpr
	rq, rs := reqch.New[int]()

	done := make(chan struct{})
	go func() {
		defer close(done)
		execExpr(rs.Endpoint(), reqch.ExprRespondThen[int](
			reqch.ExprDeliverDone(7, struct{}{}),
		))
	}()

	result := reqch.ExecErrorExpr[string](rq.Endpoint(), reqch.ExprRequestThen[int](
		reqch.ExprReceiveBind(func(n int) kont.Expr[string] {
			return kont.ExprReturn(fmt.Sprintf("got %d", n))
		}),
	))
	<-done

	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	rv, _ := result.GetRight()
	if rv != "got 7" {
		t.Fatalf("got %q, want %q", rv, "got 7")
	}
}

func TestExecErrorCatchSuccess(t *testing.T) {
	// ExecError with Catch that succeeds (body doesn't throw).
	// Exercises the non-throw error dispatch path in Dispatch.
	rq, rs := reqch.New[string]()

	done := make(chan struct{})
	go func() {
		defer close(done)
		reqch.Exec(rs.Endpoint(), reqch.RespondThen[string](
			reqch.DeliverDone("pong", struct{}{}),
		))
	}()

	body := kont.Pure[string]("ok")
	caught := kont.CatchError[string](body, func(e string) kont.Eff[string] {
		return kont.Pure("caught: " + e)
	})
	protocol := kont.Bind(caught, func(s string) kont.Eff[string] {
		return reqch.RequestThen[string](
			reqch.ReceiveBind(func(v string) kont.Eff[string] {
				return kont.Pure(s + ":" + v)
			}),
		)
	})

	result := reqch.ExecError[string](rq.Endpoint(), protocol)
	<-done

	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	rv, _ := result.GetRight()
	if rv != "ok:pong" {
		t.Fatalf("got %q, want %q", rv, "ok:pong")
	}
}

func TestAdvanceErrorCatchStepping(t *testing.T) {
	// Stepping through Catch that succeeds — non-throw error dispatch in AdvanceError
	body := kont.Pure[string]("ok")
	caught := kont.CatchError[string](body, func(e string) kont.Eff[string] {
		return kont.Pure("caught: " + e)
	})
	protocol := reqch.Reify(caught) // Cont → Expr for stepping

	result, susp := reqch.StepError[string, string](protocol)
	if susp == nil {
		t.Fatalf("expected suspension for Catch, got result %v", result)
	}

	rq, _ := reqch.New[int]()
	ep := rq.Endpoint()
	result, susp, err := reqch.AdvanceError[string](ep, susp)
	if err != nil {
		t.Fatalf("AdvanceError error: %v", err)
	}
	// Catch succeeded (body didn't throw), should get Right("ok")
	for susp != nil {
		result, susp, err = reqch.AdvanceError[string](ep, susp)
		if err != nil {
			t.Fatalf("AdvanceError error: %v", err)
		}
	}
	if !result.IsRight() {
		t.Fatalf("expected Right, got Left")
	}
	rv, _ := result.GetRight()
	if rv != "ok" {
		t.Fatalf("got %q, want %q", rv, "ok")
	}
}
