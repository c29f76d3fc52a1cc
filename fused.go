// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"code.hybscloud.com/kont"
)

// RequestThen opens a request and then continues with next.
// Fuses Perform(Request[T]{}) + Then.
func RequestThen[T, B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Request[T]{}), next)
}

// ReceiveBind receives the delivered value and passes it to f.
// Fuses Perform(Receive[T]{}) + Bind.
func ReceiveBind[T, B any](f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Receive[T]{}), f)
}

// CancelBranch withdraws the open request and calls onCancelled, or
// calls onCommitted when a responder had already claimed it and the
// value must still be received.
// Fuses Perform(Cancel[T]{}) + Bind + Either branch.
func CancelBranch[T, A any](onCancelled func() kont.Eff[A], onCommitted func() kont.Eff[A]) kont.Eff[A] {
	return kont.Bind(kont.Perform(Cancel[T]{}), func(e kont.Either[struct{}, struct{}]) kont.Eff[A] {
		if e.IsLeft() {
			return onCancelled()
		}
		return onCommitted()
	})
}

// RespondThen claims the outstanding request and then continues with next.
// Fuses Perform(Respond[T]{}) + Then.
func RespondThen[T, B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Respond[T]{}), next)
}

// DeliverThen delivers a value through the held claim and then continues
// with next.
// Fuses Perform(Deliver[T]{Value: v}) + Then.
func DeliverThen[T, B any](v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Deliver[T]{Value: v}), next)
}

// DeliverDone delivers a value through the held claim and returns a.
// Fuses Perform(Deliver[T]{Value: v}) + Then + Pure.
func DeliverDone[T, A any](v T, a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Deliver[T]{Value: v}), kont.Pure(a))
}
