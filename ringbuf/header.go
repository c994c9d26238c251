// File: ringbuf/header.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Header is the placeable, shared-memory-safe portion of a ring's state:
// the four head/tail counters for buf_a and buf_b (spec.md §3 "Ring").
// It carries no Go pointers or channels, so it is safe to embed inside a
// shmregion and have each participant build its own *ringbuf.Ring over
// the same bytes via NewManual.
package ringbuf

// Header holds the index state for both directional lanes.
type Header struct {
	HeadA uint64
	TailA uint64
	HeadB uint64
	TailB uint64
}
