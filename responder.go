// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

// Responder is the responding side of a handshake channel. Responders
// are cloneable: clones share the channel and compete symmetrically for
// each outstanding request, with exactly one winner per handshake.
type Responder[T any] struct {
	cell *cell[T]
}

// Clone returns an independent Responder handle over the same channel.
// Typically handed to another goroutine so several responders can race
// to satisfy requests.
func (r *Responder[T]) Clone() *Responder[T] {
	return &Responder[T]{cell: r.cell}
}

// TryRespond claims the outstanding request. On success the returned
// [ResponseContract] obligates this responder to deliver exactly one
// value via [ResponseContract.Send].
//
// Non-blocking: a load check followed by a compare-and-swap, re-validated
// against the state word when the swap is lost to a concurrent transition.
// Fails with [ErrNoRequest] when no request is outstanding or the current
// one is already satisfied, and with [ErrAlreadyLocked] when a competing
// responder holds the claim.
func (r *Responder[T]) TryRespond() (*ResponseContract[T], error) {
	c := r.cell
	for {
		switch c.state.Load() {
		case stateRequested:
			if c.state.CompareAndSwap(stateRequested, stateCommitted) {
				return &ResponseContract[T]{cell: c}, nil
			}
			// Lost the swap to a concurrent claim, cancel, or a full
			// cancel+re-request cycle. Re-inspect rather than guess.
		case stateCommitted:
			return nil, ErrAlreadyLocked
		default:
			// stateIdle or stateReady: nothing to claim.
			return nil, ErrNoRequest
		}
	}
}

// Serial returns the serial number assigned to this handle's channel.
func (r *Responder[T]) Serial() Serial {
	return r.cell.serial
}
