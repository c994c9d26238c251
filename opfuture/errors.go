// File: opfuture/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package opfuture

import "errors"

// ErrAlreadyFinished is returned by Poll once the op has already reached
// a terminal state (returned a result, errored, or been Closed).
var ErrAlreadyFinished = errors.New("opfuture: op already finished")
