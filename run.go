// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Run creates a handshake channel, runs the requester-side and
// responder-side Cont-world protocols against it, and returns both
// results. Interleaves execution of both sides on the calling goroutine
// using adaptive backoff (iox.Backoff) when neither side can make
// progress. Does not spawn goroutines or create channels.
func Run[T, A, B any](requester kont.Eff[A], responder kont.Eff[B]) (A, B) {
	return RunExpr[T](Reify(requester), Reify(responder))
}

// RunExpr creates a handshake channel, runs the requester-side and
// responder-side Expr-world protocols against it, and returns both
// results. Interleaves execution of both sides on the calling goroutine
// using adaptive backoff (iox.Backoff) when neither side can make
// progress. Does not spawn goroutines or create channels.
func RunExpr[T, A, B any](requester kont.Expr[A], responder kont.Expr[B]) (A, B) {
	rq, rs := New[T]()
	epA, epB := rq.Endpoint(), rs.Endpoint()
	resultA, suspA := Step[A](requester)
	resultB, suspB := Step[B](responder)
	var bo iox.Backoff

	var hopA handshakeDispatcher[T]
	if suspA != nil {
		hopA = suspA.Op().(handshakeDispatcher[T])
	}
	var hopB handshakeDispatcher[T]
	if suspB != nil {
		hopB = suspB.Op().(handshakeDispatcher[T])
	}

	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			v, err := hopA.DispatchHandshake(&epA.ctx)
			if err == nil {
				resultA, suspA = suspA.Resume(v)
				if suspA != nil {
					hopA = suspA.Op().(handshakeDispatcher[T])
				}
				progress = true
			}
		}
		if suspB != nil {
			v, err := hopB.DispatchHandshake(&epB.ctx)
			if err == nil {
				resultB, suspB = suspB.Resume(v)
				if suspB != nil {
					hopB = suspB.Op().(handshakeDispatcher[T])
				}
				progress = true
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}
