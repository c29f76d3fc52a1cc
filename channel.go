// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"code.hybscloud.com/atomix"
)

// Handshake states, stored in a single atomic word. Each value encodes
// one reachable combination of the request lock, the response lock, and
// the data flag: a response lock exists only under a request lock, and
// data exists only under a response lock, so four states cover them all.
// Fusing the flags makes every lock transition a single compare-and-swap,
// which is what gives each race (claim vs claim, claim vs cancel) exactly
// one winner.
const (
	stateIdle      uint32 = iota // no request outstanding
	stateRequested               // request open, unclaimed
	stateCommitted               // responder claimed, delivery pending
	stateReady                   // value in slot, awaiting receive
)

// cell is the shared state of one handshake channel: the state word,
// the single value slot, and the channel serial.
// The slot is written only by the committed responder and read only by
// the receiving requester; the state word's transitions order those
// accesses (the store of stateReady releases the slot write, the load
// observing stateReady acquires it).
type cell[T any] struct {
	state  atomix.Uint32
	slot   T
	serial Serial
}

// handshakePair holds both handles and the shared cell in a single
// allocation.
type handshakePair[T any] struct {
	requester Requester[T]
	responder Responder[T]
	cell      cell[T]
}

// New creates a connected requester/responder pair for values of type T.
//
// The channel carries at most one handshake at a time: a request is
// opened, claimed by exactly one responder, satisfied with one value,
// and received, after which the channel is idle again. All operations
// are non-blocking and immediate-return: would-block conditions surface
// as [ErrNoRequest] and [ErrEmpty] (both wrap
// [code.hybscloud.com/iox.ErrWouldBlock]), contention as
// [ErrAlreadyLocked].
func New[T any]() (*Requester[T], *Responder[T]) {
	pair := &handshakePair[T]{}
	pair.cell.serial = nextSerial()
	pair.requester.cell = &pair.cell
	pair.responder.cell = &pair.cell
	return &pair.requester, &pair.responder
}
