// File: opdriver/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package opdriver

import "github.com/lvyuemeng/evering/api"

// ErrOpCancelled is returned by Complete/CompleteExt/Poll for a cancelled,
// unknown, or stale-generation id (spec.md §4.2's "Cancelled" result).
var ErrOpCancelled = api.ErrOpCancelled
