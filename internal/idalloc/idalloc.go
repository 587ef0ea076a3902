// Package idalloc provides the explicit, per-request node-ID allocator
// recommended by spec.md §9 ("Fresh node IDs without global state"): rather
// than a process-wide counter reset at each entry point, every compile
// request owns one Allocator, so determinism is a local property of that
// allocator rather than of hidden global state.
package idalloc

import (
	"fmt"

	"github.com/petermattis/goid"
)

// ID is an opaque, monotonically-increasing node identifier, unique within
// the Allocator that minted it. The zero ID never appears in output; it is
// reserved to represent "no node" for code that wants a nil-able ID.
type ID uint32

// Allocator mints fresh, monotonically increasing IDs for one compile
// request. Use New, which starts at ID(1); a zero Allocator mints ID(0)
// first.
//
// Allocator is not safe for concurrent use: spec.md §5 requires all state
// within a single compile request to be thread-local. On every call Next
// asserts that it runs on the goroutine that made the first call to Next,
// and panics otherwise, to catch accidental sharing across concurrent
// requests (see ember.CompileBatch, which gives
// each request its own Allocator).
type Allocator struct {
	next       uint32
	ownerGoid  int64
	goidLocked bool
}

// New returns an Allocator ready to mint IDs starting at 1.
func New() *Allocator {
	return &Allocator{next: 1}
}

// Next mints and returns a fresh ID.
func (a *Allocator) Next() ID {
	a.checkOwner()
	id := ID(a.next)
	a.next++
	return id
}

// Reset rewinds the allocator back to its initial state, as if newly
// constructed. This is what the spec's top-level entry points
// (parse, parseExpression, parseTypeExpr, parsePattern, the deserializer)
// do conceptually by handing out a fresh Allocator per call; Reset exists
// for callers that want to reuse a single Allocator value across calls
// while still guaranteeing determinism.
func (a *Allocator) Reset() {
	*a = Allocator{next: 1}
}

// Count returns the number of IDs minted so far.
func (a *Allocator) Count() int {
	return int(a.next - 1)
}

func (a *Allocator) checkOwner() {
	g := goid.Get()
	if !a.goidLocked {
		a.ownerGoid = g
		a.goidLocked = true
		return
	}
	if a.ownerGoid != g {
		panic(fmt.Sprintf("ember/idalloc: Allocator used from goroutine %d after being claimed by goroutine %d; allocators must be thread-local per compile request", g, a.ownerGoid))
	}
}
