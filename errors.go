// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reqch

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrAlreadyLocked reports that the requested side of the handshake is
// held by an unresolved contract: another request is outstanding, or a
// competing responder has already committed to the current one.
// Not a would-block condition; the holder must resolve its contract first.
var ErrAlreadyLocked = errors.New("reqch: already locked")

// ErrNoRequest reports that no request is outstanding, or that the
// outstanding one has already been satisfied. Wraps
// [code.hybscloud.com/iox.ErrWouldBlock]: polling again after the
// requester acts is the defined recovery.
var ErrNoRequest = fmt.Errorf("reqch: no outstanding request: %w", iox.ErrWouldBlock)

// ErrEmpty reports that the committed responder has not delivered yet.
// Wraps [code.hybscloud.com/iox.ErrWouldBlock]: the contract stays open
// and receiving again later is the defined recovery.
var ErrEmpty = fmt.Errorf("reqch: no value delivered yet: %w", iox.ErrWouldBlock)

// ErrDone reports an operation on a contract that has already resolved.
// Terminal; never retryable.
var ErrDone = errors.New("reqch: contract already resolved")
