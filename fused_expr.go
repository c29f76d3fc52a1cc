// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased return frame to eliminate heap escapes when boxing
// the empty struct into kont.Frame during Expr-world execution. Handshake
// operations are all generic, so they are boxed per call like any typed
// payload.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
// Named function produces a static function value, consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprRequestThen opens a request and then continues with next.
// Fuses ExprPerform(Request[T]{}) + ExprThen.
func ExprRequestThen[T, B any](next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Request[T]{}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func receiveBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T) kont.Expr[B])
	result := f(current.(T))
	return kont.Erased(result.Value), result.Frame
}

// ExprReceiveBind receives the delivered value and passes it to f.
// Fuses ExprPerform(Receive[T]{}) + ExprBind.
func ExprReceiveBind[T, B any](f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = receiveBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Receive[T]{}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func cancelBranchUnwind[A any](data, data2, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	onCancelled := data.(func() kont.Expr[A])
	onCommitted := data2.(func() kont.Expr[A])
	e := current.(kont.Either[struct{}, struct{}])
	var result kont.Expr[A]
	if e.IsLeft() {
		result = onCancelled()
	} else {
		result = onCommitted()
	}
	return kont.Erased(result.Value), result.Frame
}

// ExprCancelBranch withdraws the open request and calls onCancelled, or
// onCommitted when a responder had already claimed it and the value must
// still be received.
// Fuses ExprPerform(Cancel[T]{}) + ExprBind + Either branch.
func ExprCancelBranch[T, A any](onCancelled func() kont.Expr[A], onCommitted func() kont.Expr[A]) kont.Expr[A] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = onCancelled
	bf.Data2 = onCommitted
	bf.Unwind = cancelBranchUnwind[A]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Cancel[T]{}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[A](ef)
}

// ExprRespondThen claims the outstanding request and then continues with next.
// Fuses ExprPerform(Respond[T]{}) + ExprThen.
func ExprRespondThen[T, B any](next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Respond[T]{}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprDeliverThen delivers a value through the held claim and then
// continues with next.
// Fuses ExprPerform(Deliver[T]{Value: v}) + ExprThen.
func ExprDeliverThen[T, B any](v T, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Deliver[T]{Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprDeliverDone delivers a value through the held claim and returns a.
// Fuses ExprPerform(Deliver[T]{Value: v}) + ExprThen + ExprReturn.
func ExprDeliverDone[T, A any](v T, a A) kont.Expr[A] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Deliver[T]{Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}
