// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package reqch provides a non-blocking request→response handshake channel:
// one requester, competing responders, one value per handshake.
//
// A handshake moves through four states (idle, requested, committed,
// ready), driven entirely by try-operations that either succeed or return
// immediately with a reason. [New] creates a [Requester]/[Responder] pair
// over a single shared slot. The requester opens a request and holds a
// [RequestContract] until it receives the value or cancels; responders
// (cloneable, racing) claim the request, and the winning [ResponseContract]
// must deliver exactly one value. Protocols over the channel compose as
// algebraic effects on [code.hybscloud.com/kont].
//
// # Architecture
//
//   - State: One atomic word (via [code.hybscloud.com/atomix]) encodes the request lock, the response lock, and the data flag; every transition is a single compare-and-swap, so each race has exactly one winner.
//   - Non-blocking: Operations never wait. [ErrNoRequest] and [ErrEmpty] wrap [code.hybscloud.com/iox.ErrWouldBlock] (poll again later); [ErrAlreadyLocked] reports contention; [ErrDone] reports a spent contract.
//   - Contracts: One-shot resolution objects. A claim cannot be cancelled; delivery is mandatory once a responder commits.
//   - Execution: Dual-world API supporting closure-based (Cont-world) and defunctionalized (Expr-world) evaluation.
//   - Error Handling: Handshake operations are non-blocking, while error operations short-circuit returning [code.hybscloud.com/kont.Either].
//
// # API Topologies
//
//   - Handles: [Requester.TryRequest], [Responder.TryRespond], [Responder.Clone], [RequestContract.TryReceive], [RequestContract.TryCancel], [ResponseContract.Send].
//   - Operations: [Request], [Receive], [Cancel], [Respond], [Deliver]. Capability delegation is [Deliver]/[Receive] of a [*Responder] or a handle pair.
//   - Cont-world: [RequestThen], [ReceiveBind], [CancelBranch], [RespondThen], [DeliverThen], [DeliverDone].
//   - Expr-world: Zero-allocation variants like [ExprRequestThen], [ExprReceiveBind], etc. Bridge via [Reify] and [Reflect].
//   - Recursive: [Cycle] and [ExprCycle] for trampoline-based iterative protocols over successive handshakes.
//
// # Integration
//
//   - Stepping: [Step] and [Advance] (or [StepError]/[AdvanceError]) evaluate computations one effect at a time, making them easy to integrate with a proactor loop.
//   - Blocking: [Exec], [Run] (and Error/Expr variants) wait past boundaries using adaptive backoff.
//
// # Example
//
//	rq, rs := reqch.New[int]()
//	_ = rs // hand clones of rs to responder goroutines
//	con, err := rq.TryRequest()
//	if err != nil {
//		// an earlier handshake is still unresolved
//	}
//	for {
//		v, err := con.TryReceive()
//		if iox.IsWouldBlock(err) {
//			continue // nothing delivered yet; do other work
//		}
//		_ = v // delivered value; channel is idle again
//		break
//	}
package reqch
