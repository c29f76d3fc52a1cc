// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

// RequestContract tracks one open request until it resolves, either by
// receiving the delivered value or by cancelling before any responder
// commits. One-shot: after resolution every operation fails with
// [ErrDone].
//
// A contract is owned by the goroutine that opened it and is not safe
// for concurrent use; the channel handles are the concurrency boundary.
// The owner must resolve the contract. Abandoning it unresolved leaves
// the channel locked: no implicit cancellation happens on drop.
type RequestContract[T any] struct {
	cell *cell[T]
	done bool
}

// TryReceive polls for the delivered value. On success it returns the
// value, resolves the contract, and resets the channel to idle in one
// atomic store, clearing every lock for the next handshake.
//
// Non-blocking. Fails with [ErrEmpty] while no value has been delivered,
// whether or not a responder has committed; the contract stays open and
// polling again later is the defined recovery. Fails with [ErrDone] once
// resolved.
func (c *RequestContract[T]) TryReceive() (T, error) {
	var zero T
	if c.done {
		return zero, ErrDone
	}
	if c.cell.state.Load() != stateReady {
		return zero, ErrEmpty
	}
	v := c.cell.slot
	c.cell.slot = zero
	c.cell.state.Store(stateIdle)
	c.done = true
	return v, nil
}

// TryCancel withdraws the request if no responder has committed yet.
// On success the contract resolves and the channel returns to idle.
//
// Non-blocking: a single compare-and-swap on the state word, so a
// cancellation and a competing claim resolve with exactly one winner.
// Fails with [ErrAlreadyLocked] once a responder has committed; delivery
// is then mandatory and the owner must keep polling [TryReceive]. Fails
// with [ErrDone] once resolved.
func (c *RequestContract[T]) TryCancel() error {
	if c.done {
		return ErrDone
	}
	if c.cell.state.CompareAndSwap(stateRequested, stateIdle) {
		c.done = true
		return nil
	}
	return ErrAlreadyLocked
}

// ResponseContract is a claimed request: an obligation to deliver
// exactly one value. There is no cancellation path; once issued, the
// requester's cancel fails and the requester is guaranteed a responder
// could and would deliver.
//
// A contract is owned by the goroutine that claimed it and is not safe
// for concurrent use. The owner must call [ResponseContract.Send];
// abandoning a claim unresolved leaves the channel locked forever.
type ResponseContract[T any] struct {
	cell *cell[T]
	sent bool
}

// Send delivers the value and resolves the contract. The delivery flag
// is published with a single atomic store that releases the slot write;
// the locks stay held until the requester receives, which is what resets
// the channel.
//
// Never blocks and cannot fail. Send on an already-resolved contract
// panics: the contract is one-shot and a second delivery has no slot to
// land in.
func (c *ResponseContract[T]) Send(v T) {
	if c.sent {
		panic("reqch: send on resolved contract")
	}
	c.cell.slot = v
	c.cell.state.Store(stateReady)
	c.sent = true
}
