// File: bridge/envelope.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SQEnvelope/CQEnvelope are the fixed-layout records the submission and
// completion rings carry (spec.md §4.4/§6 "Slot size and alignment are
// fixed at build by the concrete uring spec, which names the SQE and
// CQE types"). Each wraps a caller-supplied payload with the OpId the
// driver assigned, so the receive side can route a completed payload
// back to the correct slot without any side channel.
package bridge

import "github.com/lvyuemeng/evering/opdriver"

// SQEnvelope is one submission-ring record: a caller payload tagged with
// the op id the submit side allocated for it.
type SQEnvelope[Q any] struct {
	Id      opdriver.OpId
	Payload Q
}

// CQEnvelope is one completion-ring record: a raw result tagged with the
// op id it completes.
type CQEnvelope[R any] struct {
	Id     opdriver.OpId
	Result R
}
