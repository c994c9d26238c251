// File: allocator/core.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// core is the unsynchronized boundary-tag binned allocator body shared by
// Locked (mutex-guarded) and Unsync (bare, single-threaded use within one
// process). Grounded on spec §4.6 directly; the locked/unsynchronized
// split mirrors pool.baseBufferPool (mutex-guarded) vs. the plain
// sync.Pool-backed pools in pool/bufferpool_linux.go — same duality,
// applied here to a real splitting/coalescing allocator.
package allocator

import (
	"unsafe"

	"github.com/lvyuemeng/evering/api"
	"github.com/lvyuemeng/evering/internal/qback"
)

// BulkEntry is one chunk to free as part of a DeallocateBulk call, the
// same (offset, meta, layout) triple a single Deallocate takes.
type BulkEntry struct {
	Offset int64
	Meta   api.Meta
	Layout api.Layout
}

type core struct {
	heap    []byte
	bitmap  bitmap
	binHead [numBins]int64
}

func newCore(heap []byte) *core {
	for i := range heap {
		heap[i] = 0
	}
	usable := int64(len(heap)) &^ 15 // round down to multiple of 16
	c := &core{heap: heap[:usable]}
	for i := range c.binHead {
		c.binHead[i] = nilOff
	}
	if usable >= minChunk {
		writeHeaderFooter(c.heap, 0, usable, true)
		c.insertFree(0, usable)
	}
	return c
}

func roundUp16(n int64) int64 { return (n + 15) &^ 15 }

func roundUpAlign(n, align int64) int64 {
	if align <= 0 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// insertFree pushes off onto the LIFO head of its bin's freelist.
func (c *core) insertFree(off, size int64) {
	idx := binForFree(size)
	head := c.binHead[idx]
	writeNode(c.heap, off, nilOff, head)
	if head != nilOff {
		_, headNext := readNode(c.heap, head)
		writeNode(c.heap, head, off, headNext)
	}
	c.binHead[idx] = off
	c.bitmap.set(idx)
}

// removeFree unlinks off from its bin's freelist.
func (c *core) removeFree(off, size int64) {
	idx := binForFree(size)
	prev, next := readNode(c.heap, off)
	if prev != nilOff {
		prevPrev, _ := readNode(c.heap, prev)
		writeNode(c.heap, prev, prevPrev, next)
	} else {
		c.binHead[idx] = next
	}
	if next != nilOff {
		_, nextNext := readNode(c.heap, next)
		writeNode(c.heap, next, prev, nextNext)
	}
	if c.binHead[idx] == nilOff {
		c.bitmap.clear(idx)
	}
}

func (c *core) popBinHead(idx int) int64 {
	off := c.binHead[idx]
	size, _ := readHeader(c.heap, off)
	c.removeFree(off, size)
	return off
}

// allocate serves layout from the heap. Alignment above 16 bytes is
// satisfied by reserving extra room ahead of time and rounding the
// returned data offset up to the requested alignment; the small gap left
// behind is absorbed into the chunk rather than split into its own free
// chunk (spec §4.6 allows either; splitting the gap is not implemented
// here since with a 16-byte-aligned header it is at most align-16 bytes,
// rarely enough to clear minChunk on its own).
func (c *core) allocate(layout api.Layout) (int64, api.Meta, error) {
	extra := int64(0)
	if layout.Align > 16 {
		extra = int64(layout.Align) - 16
	}
	payload := roundUp16(int64(layout.Size) + extra)
	need := roundUp16(payload + headerSize + footerSize)
	if need < minChunk {
		need = minChunk
	}

	idx := binForAlloc(need)
	found := c.bitmap.nextSet(idx)
	if found == -1 {
		return 0, api.Meta{}, api.ErrOutOfMemory
	}

	chunkOff := c.popBinHead(found)
	size, _ := readHeader(c.heap, chunkOff)

	if remainder := size - need; remainder >= minChunk {
		writeHeaderFooter(c.heap, chunkOff+need, remainder, true)
		c.insertFree(chunkOff+need, remainder)
		size = need
	}
	writeHeaderFooter(c.heap, chunkOff, size, false)

	dataOff := chunkOff + headerSize
	if layout.Align > 16 {
		dataOff = roundUpAlign(dataOff, int64(layout.Align))
	}
	meta := api.Meta{Offset: chunkOff, Class: int32(binForFree(size))}
	return dataOff, meta, nil
}

func (c *core) deallocate(_ int64, meta api.Meta, _ api.Layout) error {
	chunkOff := meta.Offset
	if chunkOff < 0 || chunkOff >= int64(len(c.heap)) {
		return api.ErrLayoutMismatch
	}
	size, free := readHeader(c.heap, chunkOff)
	if free {
		return api.ErrLayoutMismatch
	}

	curOff, curSize := chunkOff, size

	if nextOff := curOff + curSize; nextOff < int64(len(c.heap)) {
		if nsize, nfree := readHeader(c.heap, nextOff); nfree {
			c.removeFree(nextOff, nsize)
			curSize += nsize
		}
	}
	if curOff > 0 {
		if psize, pfree := readFooterOfChunkEndingAt(c.heap, curOff); pfree {
			prevOff := curOff - psize
			c.removeFree(prevOff, psize)
			curOff = prevOff
			curSize += psize
		}
	}

	writeHeaderFooter(c.heap, curOff, curSize, true)
	c.insertFree(curOff, curSize)
	return nil
}

// deallocateBulk frees every entry, staging the whole batch in a
// qback.Backlog before draining and coalescing one chunk at a time. This
// is the same free-by-free coalescing deallocate already does; staging
// through the backlog only decouples collecting the batch from
// processing it, the role qback plays everywhere else it is used.
func (c *core) deallocateBulk(entries []BulkEntry) []error {
	staged := qback.New[BulkEntry]()
	for _, e := range entries {
		staged.Push(e)
	}
	var errs []error
	for {
		e, ok := staged.Pop()
		if !ok {
			break
		}
		if err := c.deallocate(e.Offset, e.Meta, e.Layout); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (c *core) basePtr() uintptr {
	if len(c.heap) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&c.heap[0]))
}

// freeBytes sums every currently free chunk's size, for tests asserting
// the round-trip invariant (spec §8).
func (c *core) freeBytes() int64 {
	var total int64
	for i := 0; i < numBins; i++ {
		off := c.binHead[i]
		for off != nilOff {
			size, _ := readHeader(c.heap, off)
			total += size
			_, next := readNode(c.heap, off)
			off = next
		}
	}
	return total
}
