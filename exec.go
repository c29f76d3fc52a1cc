// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"code.hybscloud.com/kont"
)

// Exec runs a Cont-world handshake protocol on a pre-created endpoint.
// Blocks past would-block and contention errors via adaptive backoff
// (iox.Backoff), without spawning goroutines or creating channels.
func Exec[R, T any](ep *Endpoint[T], protocol kont.Eff[R]) R {
	h := handshakeHandler[T, R]{ctx: &ep.ctx}
	return kont.Handle(protocol, h)
}

// ExecExpr runs an Expr-world handshake protocol on a pre-created endpoint.
// Blocks past would-block and contention errors via adaptive backoff
// (iox.Backoff), without spawning goroutines or creating channels.
func ExecExpr[R, T any](ep *Endpoint[T], protocol kont.Expr[R]) R {
	h := handshakeHandler[T, R]{ctx: &ep.ctx}
	return kont.HandleExpr(protocol, h)
}
