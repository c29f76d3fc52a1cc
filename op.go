// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"code.hybscloud.com/kont"
)

// Request is the effect operation for opening a request.
// Perform(Request[T]{}) opens a request on the endpoint's channel.
type Request[T any] struct {
	kont.Phantom[struct{}]
}

// DispatchHandshake handles Request on a requester endpoint.
// Non-blocking: returns ErrAlreadyLocked while a contract opened outside
// this endpoint still holds the channel (blocking drivers retry it).
// Request on a responder endpoint, or while this endpoint's own contract
// is open, is a protocol defect and panics.
func (Request[T]) DispatchHandshake(ctx *handshakeContext[T]) (kont.Resumed, error) {
	if ctx.requester == nil {
		panic("reqch: Request on responder endpoint")
	}
	if ctx.request != nil {
		panic("reqch: Request while a contract is open")
	}
	con, err := ctx.requester.TryRequest()
	if err != nil {
		return nil, err
	}
	ctx.request = con
	return struct{}{}, nil
}

// Receive is the effect operation for receiving the delivered value.
// Perform(Receive[T]{}) resumes with the value once a responder delivers.
type Receive[T any] struct {
	kont.Phantom[T]
}

// DispatchHandshake handles Receive on a requester endpoint.
// Non-blocking: returns ErrEmpty until the value is delivered.
// Receive without an open request is a protocol defect and panics.
func (Receive[T]) DispatchHandshake(ctx *handshakeContext[T]) (kont.Resumed, error) {
	if ctx.request == nil {
		panic("reqch: Receive without an open request")
	}
	v, err := ctx.request.TryReceive()
	if err != nil {
		return nil, err
	}
	ctx.request = nil
	return v, nil
}

// cancelLeft and cancelRight are pre-boxed Resumed values for Cancel dispatch.
// Either[struct{}, struct{}] is non-zero-size (contains an isRight bool),
// so boxing into Resumed (any) allocates without pre-allocation.
var (
	cancelLeft  kont.Resumed = kont.Left[struct{}, struct{}](struct{}{})
	cancelRight kont.Resumed = kont.Right[struct{}](struct{}{})
)

// Cancel is the effect operation for withdrawing an open request.
// Perform(Cancel[T]{}) resumes with Left when the request was withdrawn,
// or Right when a responder had already committed; on Right the contract
// stays open and the protocol must go on receiving, delivery being
// mandatory after a claim.
type Cancel[T any] struct {
	kont.Phantom[kont.Either[struct{}, struct{}]]
}

// DispatchHandshake handles Cancel on a requester endpoint.
// Never blocks: a committed claim is not a retryable condition but the
// Right branch. Cancel without an open request is a protocol defect
// and panics.
func (Cancel[T]) DispatchHandshake(ctx *handshakeContext[T]) (kont.Resumed, error) {
	if ctx.request == nil {
		panic("reqch: Cancel without an open request")
	}
	switch err := ctx.request.TryCancel(); err {
	case nil:
		ctx.request = nil
		return cancelLeft, nil
	case ErrAlreadyLocked:
		return cancelRight, nil
	default:
		panic("reqch: Cancel on resolved contract")
	}
}

// Respond is the effect operation for claiming the outstanding request.
// Perform(Respond[T]{}) commits the endpoint to deliver exactly one value.
type Respond[T any] struct {
	kont.Phantom[struct{}]
}

// DispatchHandshake handles Respond on a responder endpoint.
// Non-blocking: returns ErrNoRequest until a request is outstanding, and
// ErrAlreadyLocked while a competing responder holds the claim; blocking
// drivers retry both. Respond on a requester endpoint, or while this
// endpoint already holds a claim, is a protocol defect and panics.
func (Respond[T]) DispatchHandshake(ctx *handshakeContext[T]) (kont.Resumed, error) {
	if ctx.responder == nil {
		panic("reqch: Respond on requester endpoint")
	}
	if ctx.response != nil {
		panic("reqch: Respond while a claim is held")
	}
	con, err := ctx.responder.TryRespond()
	if err != nil {
		return nil, err
	}
	ctx.response = con
	return struct{}{}, nil
}

// Deliver is the effect operation for sending the value through a held
// claim. Perform(Deliver[T]{Value: v}) delivers v to the requester.
type Deliver[T any] struct {
	kont.Phantom[struct{}]
	Value T
}

// DispatchHandshake handles Deliver on a responder endpoint.
// Never blocks; delivery through a held claim cannot fail.
// Deliver without a held claim is a protocol defect and panics.
func (d Deliver[T]) DispatchHandshake(ctx *handshakeContext[T]) (kont.Resumed, error) {
	if ctx.response == nil {
		panic("reqch: Deliver without a claim")
	}
	ctx.response.Send(d.Value)
	ctx.response = nil
	return struct{}{}, nil
}
