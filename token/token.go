// File: token/token.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Token / TokenOf[T] render spec.md §3/§4.7's transferable handle pair: a
// type-erased (fingerprint, Meta) the wire carries, and a typed wrapper
// bound to a concrete T that can reconstruct a relptr.PBox[T] on the
// attaching side. Grounded on api.Buffer's handle-passing convention,
// generalized with a fingerprint in place of a vtable (spec.md
// §9: "type erasure across processes ... use a compile-time fingerprint").
//
// M is fixed to api.Meta rather than left a free type parameter: this
// repo has exactly one allocator metadata shape, and Go methods cannot be
// specialized to one instantiation of a type parameter, so leaving Token
// generic over M would prevent Reconstruct from being a method at all.

package token

import (
	"github.com/lvyuemeng/evering/api"
	"github.com/lvyuemeng/evering/relptr"
)

// Token is the type-erased handle ferried through SQE/CQE records: a
// fingerprint plus the allocator metadata needed to locate the payload.
type Token struct {
	FP   Fingerprint
	Meta api.Meta
}

// TokenOf additionally binds to a concrete T and the relocatable offset
// needed to reconstruct the box. Converting a PBox[T] to its transferable
// form (spec.md §4.7) yields one of these.
type TokenOf[T any] struct {
	Token
	Offset int64
}

// FromBox converts an owned box into its transferable token form. The box
// remains owned by the caller; moving true ownership across the channel is
// a matter of not calling Release() on this side afterward (Semantics
// Move, spec.md §4.7).
func FromBox[T any](b *relptr.PBox[T]) TokenOf[T] {
	return TokenOf[T]{
		Token:  Token{FP: FingerprintOf[T](), Meta: b.Meta()},
		Offset: int64(b.Offset()),
	}
}

// Erase discards the type binding, producing the form that actually
// crosses the wire inside an SQE/CQE record.
func (t TokenOf[T]) Erase() Token {
	return t.Token
}

// Identify checks tok's fingerprint against T and, on match, downcasts to
// a TokenOf[T]; on mismatch it returns the zero TokenOf[T] and false, and
// tok, passed by value, stays with the caller unchanged.
func Identify[T any](tok Token, offset int64) (TokenOf[T], bool) {
	if tok.FP != FingerprintOf[T]() {
		return TokenOf[T]{}, false
	}
	return TokenOf[T]{Token: tok, Offset: offset}, true
}

// Reconstruct rebuilds the PBox[T] this token describes, using alloc as
// the local view of the region the token's offset is relative to.
func (t TokenOf[T]) Reconstruct(alloc api.Allocator) *relptr.PBox[T] {
	return relptr.FromParts[T](alloc, relptr.Rel[T](t.Offset), t.Meta)
}
