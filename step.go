// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a handshake protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended handshake operation on the endpoint.
// DispatchHandshake is non-blocking: it returns an error wrapping
// iox.ErrWouldBlock while the peer has not acted yet, or
// [ErrAlreadyLocked] while a competing contract holds the channel.
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion.
// On error, the suspension is unconsumed and may be retried after the
// peer makes progress.
func Advance[R, T any](ep *Endpoint[T], susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	hop, ok := susp.Op().(handshakeDispatcher[T])
	if !ok {
		panic("reqch: unhandled effect in Advance")
	}
	v, err := hop.DispatchHandshake(&ep.ctx)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
