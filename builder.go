package semidoc

import (
	"fmt"
	"sort"
)

type frameKind uint8

const (
	frameArray frameKind = iota
	frameObjectExpectKey
	frameObjectExpectValue
)

type frame struct {
	kind       frameKind
	elems      []Value
	pairs      []Pair
	pendingKey []byte
	order      uint32
	size       uint32
}

// Builder implements the push-builder state machine described in §4.3:
// a stream of typed events (BeginArray/BeginObject/Key/Value/Elem/
// EndArray/EndObject) constructs an in-memory Value tree. Events illegal
// in the current state return ErrProtocol rather than panicking — only
// genuine internal invariant breaches panic (§7).
//
// A Builder is single-use and not safe for concurrent use by multiple
// goroutines (§5: single-threaded per operation).
type Builder struct {
	stack []frame
	done  bool
	root  Value
}

// NewBuilder returns an empty Builder positioned at the Top state.
func NewBuilder() *Builder {
	return &Builder{stack: make([]frame, 0, 8)}
}

func (b *Builder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.stack[len(b.stack)-1]
}

// BeginArray opens a new array. At Top this starts the document; inside
// an array it starts a nested element; inside an object it starts the
// value of the pair currently expecting a value.
func (b *Builder) BeginArray() error {
	if b.done {
		return fmt.Errorf("%w: BeginArray after document complete", ErrProtocol)
	}
	top := b.top()
	if top != nil && top.kind == frameObjectExpectKey {
		return fmt.Errorf("%w: BeginArray while object expects a key", ErrProtocol)
	}
	b.stack = append(b.stack, frame{kind: frameArray, elems: make([]Value, 0, 4)})
	return nil
}

// BeginObject opens a new object, symmetric to BeginArray.
func (b *Builder) BeginObject() error {
	if b.done {
		return fmt.Errorf("%w: BeginObject after document complete", ErrProtocol)
	}
	top := b.top()
	if top != nil && top.kind == frameObjectExpectKey {
		return fmt.Errorf("%w: BeginObject while object expects a key", ErrProtocol)
	}
	b.stack = append(b.stack, frame{kind: frameObjectExpectKey, pairs: make([]Pair, 0, 4)})
	return nil
}

// Key pushes an object key. Legal only while the innermost open
// composite is an object expecting a key.
func (b *Builder) Key(k []byte) error {
	top := b.top()
	if top == nil || top.kind != frameObjectExpectKey {
		return fmt.Errorf("%w: Key outside an object expecting a key", ErrProtocol)
	}
	if len(k) > MaxStringLen {
		return ErrStringTooLong
	}
	kc := make([]byte, len(k))
	copy(kc, k)
	top.pendingKey = kc
	top.kind = frameObjectExpectValue
	return nil
}

// Value pushes a scalar value for the pending object key. Legal only
// while the innermost open composite is an object expecting a value.
func (b *Builder) Value(v Value) error {
	top := b.top()
	if top == nil || top.kind != frameObjectExpectValue {
		return fmt.Errorf("%w: Value outside an object expecting a value", ErrProtocol)
	}
	top.pairs = append(top.pairs, Pair{Key: top.pendingKey, Value: v, order: top.order})
	top.order++
	top.pendingKey = nil
	top.size += entrySize*2 + v.size
	top.kind = frameObjectExpectKey
	return nil
}

// Elem pushes a scalar array element. Legal only while the innermost
// open composite is an array.
func (b *Builder) Elem(v Value) error {
	top := b.top()
	if top == nil || top.kind != frameArray {
		return fmt.Errorf("%w: Elem outside an array", ErrProtocol)
	}
	top.elems = append(top.elems, v)
	top.size += entrySize + v.size
	return nil
}

// EndArray closes the innermost array. When the array being closed was
// the only frame on the stack, the completed, top-level Value is
// returned; otherwise the array becomes an element/value of its parent
// and (nil Value, nil error) is returned so callers can keep chaining.
func (b *Builder) EndArray() (Value, error) {
	top := b.top()
	if top == nil || top.kind != frameArray {
		return Value{}, fmt.Errorf("%w: EndArray outside an array", ErrProtocol)
	}
	v := Value{
		Kind:  KindArray,
		Elems: top.elems,
		size:  entrySize + top.size,
	}
	return b.close(v)
}

// EndObject closes the innermost object. Pairs are sorted by key under
// the §3/§4.7 total order (shorter key first, ties broken byte-wise) and
// deduplicated: when two pushed keys compare equal, the later push wins
// (§4.3). As with EndArray, the completed top-level Value is returned
// once the closing frame was the outermost one.
func (b *Builder) EndObject() (Value, error) {
	top := b.top()
	if top == nil || top.kind == frameArray {
		return Value{}, fmt.Errorf("%w: EndObject outside an object", ErrProtocol)
	}
	if top.kind == frameObjectExpectValue {
		return Value{}, fmt.Errorf("%w: EndObject while a value is still pending", ErrProtocol)
	}
	pairs := sortAndDedupePairs(top.pairs)
	v := Value{
		Kind:  KindObject,
		Pairs: pairs,
		size:  entrySize + pairSize(pairs),
	}
	return b.close(v)
}

func pairSize(pairs []Pair) uint32 {
	var n uint32
	for _, p := range pairs {
		n += entrySize*2 + uint32(len(p.Key)) + p.Value.size
	}
	return n
}

// close attaches v to the parent frame (if any) and pops the stack, or
// finalizes the document if the stack is now empty.
func (b *Builder) close(v Value) (Value, error) {
	b.stack = b.stack[:len(b.stack)-1]
	parent := b.top()
	if parent == nil {
		b.done = true
		b.root = v
		return v, nil
	}
	switch parent.kind {
	case frameArray:
		parent.elems = append(parent.elems, v)
		parent.size += entrySize + v.size
	case frameObjectExpectValue:
		parent.pairs = append(parent.pairs, Pair{Key: parent.pendingKey, Value: v, order: parent.order})
		parent.order++
		parent.pendingKey = nil
		parent.size += entrySize*2 + v.size
		parent.kind = frameObjectExpectKey
	default:
		return Value{}, fmt.Errorf("%w: nested composite closed into a key-expecting object", ErrProtocol)
	}
	return Value{}, nil
}

// Root returns the completed top-level Value once the Builder has
// finished (i.e. after the outermost composite's End* call). Root panics if called before the document is complete —
// that would be an invariant breach in the caller, not a protocol
// violation in data it received (§7).
func (b *Builder) Root() Value {
	if !b.done {
		panic("semidoc: Builder.Root called before document is complete")
	}
	return b.root
}

// Push dispatches v to whichever of Value/Elem is legal in the current
// frame, so a caller driving the Builder from a token stream that
// doesn't itself track array-vs-object context (see Parse) doesn't have
// to either.
func (b *Builder) Push(v Value) error {
	top := b.top()
	if top == nil {
		return fmt.Errorf("%w: Push at the top level (use WrapScalar for a bare scalar document)", ErrProtocol)
	}
	switch top.kind {
	case frameArray:
		return b.Elem(v)
	case frameObjectExpectValue:
		return b.Value(v)
	default:
		return fmt.Errorf("%w: Push while object expects a key", ErrProtocol)
	}
}

// WrapScalar builds the one-element, IS_SCALAR-marked array that
// represents a bare top-level scalar (§3 "Scalar marker", §4.4 "Scalars
// at the top level are wrapped in a one-element array with IS_SCALAR
// set"), mirroring jsonb_in_scalar's direct-scalar path. It is a plain
// function over v and does not involve a Builder.
func WrapScalar(v Value) Value {
	return Value{
		Kind:   KindArray,
		Elems:  []Value{v},
		Scalar: true,
		size:   entrySize + entrySize + v.size,
	}
}

func sortAndDedupePairs(pairs []Pair) []Pair {
	if len(pairs) == 0 {
		return pairs
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if c := compareKeyOrder(pairs[i].Key, pairs[j].Key); c != 0 {
			return c < 0
		}
		// Tie-break: higher push order (the later push) sorts first,
		// so the first survivor of an equal-key run below is the
		// latest push — "later wins" (§4.3).
		return pairs[i].order > pairs[j].order
	})
	out := pairs[:1]
	for _, p := range pairs[1:] {
		last := &out[len(out)-1]
		if compareKeyOrder(last.Key, p.Key) == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}
