// File: allocator/tag.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Boundary-tag chunk layout (spec §4.6): every chunk, free or allocated,
// is prefixed and suffixed by a 16-byte boundary tag whose first 8 bytes
// hold a tag word encoding (size, free flag). Free chunks additionally carry an intrusive doubly-linked list
// node (prev/next offsets) immediately after the header, used by their
// bin's freelist. Header size is 16 (not the minimal 8) so that the data
// pointer — chunkOffset+headerSize — stays a multiple of the 16-byte
// granularity every chunk size is rounded to; this is what lets alignment
// up to 16 fall out "for free" without any padding logic.
package allocator

import "encoding/binary"

const (
	headerSize = 16
	footerSize = 16
	nodeSize   = 16 // prev (8) + next (8), used only while the chunk is free
	minChunk   = headerSize + footerSize + nodeSize // 48

	freeBit uint64 = 1 << 0
)

// tagWord packs size (which is always a multiple of 16, so its low bits
// are free for flags) with the free flag.
func tagWord(size int64, free bool) uint64 {
	w := uint64(size)
	if free {
		w |= freeBit
	}
	return w
}

func untag(w uint64) (size int64, free bool) {
	return int64(w &^ freeBit), w&freeBit != 0
}

func readTag(heap []byte, off int64) uint64 {
	return binary.LittleEndian.Uint64(heap[off : off+8])
}

func writeTag(heap []byte, off int64, w uint64) {
	binary.LittleEndian.PutUint64(heap[off:off+8], w)
}

// writeHeaderFooter stamps both boundary tags for a chunk starting at off
// with the given total size and free flag.
func writeHeaderFooter(heap []byte, off, size int64, free bool) {
	w := tagWord(size, free)
	writeTag(heap, off, w)
	writeTag(heap, off+size-footerSize, w)
}

func readHeader(heap []byte, off int64) (size int64, free bool) {
	return untag(readTag(heap, off))
}

func readFooterOfChunkEndingAt(heap []byte, endOff int64) (size int64, free bool) {
	return untag(readTag(heap, endOff-footerSize))
}

// free-node accessors: only meaningful while the chunk is free. The node
// lives right after the header.
func nodeOff(chunkOff int64) int64 { return chunkOff + headerSize }

func readNode(heap []byte, chunkOff int64) (prev, next int64) {
	o := nodeOff(chunkOff)
	prev = int64(binary.LittleEndian.Uint64(heap[o : o+8]))
	next = int64(binary.LittleEndian.Uint64(heap[o+8 : o+16]))
	return
}

func writeNode(heap []byte, chunkOff, prev, next int64) {
	o := nodeOff(chunkOff)
	binary.LittleEndian.PutUint64(heap[o:o+8], uint64(prev))
	binary.LittleEndian.PutUint64(heap[o+8:o+16], uint64(next))
}

const nilOff int64 = -1
