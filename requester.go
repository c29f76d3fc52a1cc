// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

// Requester is the requesting side of a handshake channel. A channel
// has exactly one Requester; it is safe for concurrent use, but at most
// one request can be outstanding at a time.
type Requester[T any] struct {
	cell *cell[T]
}

// TryRequest opens a request for one value. On success the returned
// [RequestContract] tracks the handshake until it resolves by receive
// or cancel.
//
// Non-blocking: a single compare-and-swap on the state word. Fails with
// [ErrAlreadyLocked] while an earlier handshake is unresolved, including
// a delivered value that has not been received yet. Failure has no side
// effects.
func (r *Requester[T]) TryRequest() (*RequestContract[T], error) {
	if !r.cell.state.CompareAndSwap(stateIdle, stateRequested) {
		return nil, ErrAlreadyLocked
	}
	return &RequestContract[T]{cell: r.cell}, nil
}

// Serial returns the serial number assigned to this handle's channel.
func (r *Requester[T]) Serial() Serial {
	return r.cell.serial
}
