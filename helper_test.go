// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch_test

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/reqch"
)

// execExpr drives a protocol to completion on ep via Step+Advance loop.
// Retries on dispatch errors (peer not ready yet, or a competing claim).
// Used by stepping tests to exercise the non-blocking path.
func execExpr[R, T any](ep *reqch.Endpoint[T], protocol kont.Expr[R]) R {
	result, susp := reqch.Step[R](protocol)
	for susp != nil {
		var err error
		result, susp, err = reqch.Advance(ep, susp)
		if err != nil {
			continue
		}
	}
	return result
}

// task is the unit of work handed through handshake channels in tests:
// idle workers request work, and the winning producer delivers a closure.
type task func()
