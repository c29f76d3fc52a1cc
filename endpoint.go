// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// handshakeContext holds one side's view of a handshake channel for
// effect dispatch: the handle the endpoint is bound to and the contract
// currently in flight between dispatches.
type handshakeContext[T any] struct {
	requester *Requester[T]
	responder *Responder[T]
	request   *RequestContract[T]
	response  *ResponseContract[T]
}

// handshakeDispatcher is the structural interface for handshake operations.
// DispatchHandshake is non-blocking: it returns an error wrapping
// [code.hybscloud.com/iox.ErrWouldBlock] while the peer has not acted yet,
// or [ErrAlreadyLocked] while a competing contract holds the channel.
type handshakeDispatcher[T any] interface {
	DispatchHandshake(ctx *handshakeContext[T]) (kont.Resumed, error)
}

// handshakeHandler implements kont.Handler for handshake effects.
// Waits on dispatch errors, converting non-blocking dispatch into
// blocking evaluation for Exec/ExecExpr.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type handshakeHandler[T, R any] struct {
	ctx *handshakeContext[T]
}

// Dispatch implements kont.Handler via structural interface assertion.
// Waits past the would-block boundary with adaptive backoff.
func (h handshakeHandler[T, R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	hop, ok := op.(handshakeDispatcher[T])
	if !ok {
		panic("reqch: unhandled effect in handshakeHandler")
	}
	return dispatchWait(h.ctx, hop), true
}

// dispatchWait blocks until DispatchHandshake succeeds, backing off on
// would-block and contention errors with iox.Backoff.
func dispatchWait[T any](ctx *handshakeContext[T], hop handshakeDispatcher[T]) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := hop.DispatchHandshake(ctx)
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Endpoint binds one side of a handshake channel for effect dispatch.
// A requester endpoint dispatches [Request], [Receive], and [Cancel];
// a responder endpoint dispatches [Respond] and [Deliver]. The endpoint
// carries the in-flight contract between dispatches, so one endpoint
// runs one protocol at a time.
type Endpoint[T any] struct {
	ctx    handshakeContext[T]
	serial Serial
}

// Serial returns the serial number assigned to this endpoint's channel.
func (ep *Endpoint[T]) Serial() Serial {
	return ep.serial
}

// Endpoint returns a requester-side effect endpoint bound to r.
func (r *Requester[T]) Endpoint() *Endpoint[T] {
	return &Endpoint[T]{
		ctx:    handshakeContext[T]{requester: r},
		serial: r.cell.serial,
	}
}

// Endpoint returns a responder-side effect endpoint bound to r.
// Each clone can carry its own endpoint; endpoints compete for claims
// exactly like the handles they wrap.
func (r *Responder[T]) Endpoint() *Endpoint[T] {
	return &Endpoint[T]{
		ctx:    handshakeContext[T]{responder: r},
		serial: r.cell.serial,
	}
}
