package semidoc

// Cursor is a stack-based forward iterator over a packed Container: an
// alternative to WalkContainer that keeps its own explicit frame stack
// instead of recursing, so traversal can be paused, resumed, or
// abandoned mid-container without unwinding Go's call stack, and stack
// usage is bounded independent of nesting depth. For the same
// Container, Cursor and WalkContainer produce the identical Event
// sequence (§4.6).
//
// A Cursor is positioned just before the outermost container's
// EventBeginArray/EventBeginObject when returned by NewCursor.
type Cursor struct {
	stack []cursorFrame
}

type objSubstate uint8

const (
	wantKey objSubstate = iota
	wantValue
)

type cursorFrame struct {
	c        Container
	es       []entry
	n        int
	isObject bool
	begun    bool
	idx      int
	sub      objSubstate
}

// NewCursor validates c and returns a Cursor positioned at its start.
func NewCursor(c Container) (*Cursor, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	cur := &Cursor{}
	cur.push(c)
	return cur, nil
}

func (cur *Cursor) push(c Container) {
	h := c.header()
	cur.stack = append(cur.stack, cursorFrame{
		c:        c,
		es:       c.entries(),
		n:        int(h.count()),
		isObject: h.isObject(),
	})
}

func (cur *Cursor) pop() {
	cur.stack = cur.stack[:len(cur.stack)-1]
}

// Next returns the next Event in the stream. The second return value is
// false once the outermost container's closing event has already been
// returned; every later call returns a zero Event, false and a nil error.
//
// When skipNested is true, a nested container encountered as an array
// element or object value is not descended into: it is reported as a
// single EventElem/EventValue carrying a KindBinary Value whose Bin
// field is that nested container's raw bytes, and traversal continues
// with the next sibling. This mirrors JsonbIteratorNext's skipNested
// parameter, and lets a caller that only needs direct children (for
// example a single-level containment probe) avoid descending into
// subtrees it is about to discard anyway. skipNested is consulted fresh
// on every call: a Cursor can walk some siblings flat and others in
// full.
func (cur *Cursor) Next(skipNested bool) (Event, bool, error) {
	if len(cur.stack) == 0 {
		return Event{}, false, nil
	}
	top := &cur.stack[len(cur.stack)-1]

	if !top.begun {
		top.begun = true
		if top.isObject {
			return Event{Kind: EventBeginObject, Count: top.n}, true, nil
		}
		return Event{Kind: EventBeginArray, Count: top.n, Scalar: top.c.header().isScalar()}, true, nil
	}

	if top.isObject {
		return cur.nextObject(top, skipNested)
	}
	return cur.nextArray(top, skipNested)
}

func (cur *Cursor) nextObject(top *cursorFrame, skipNested bool) (Event, bool, error) {
	if top.idx >= top.n {
		cur.pop()
		return Event{Kind: EventEndObject}, true, nil
	}
	if top.sub == wantKey {
		key := top.c.child(top.es, top.idx)
		top.sub = wantValue
		return Event{Kind: EventKey, Key: key}, true, nil
	}
	ve := top.es[top.n+top.idx]
	vp := top.c.child(top.es, top.n+top.idx)
	top.idx++
	top.sub = wantKey
	if ve.isNest() {
		if !skipNested {
			cur.push(Container(vp))
			return cur.Next(false)
		}
		return Event{Kind: EventValue, Value: Value{Kind: KindBinary, Bin: vp}}, true, nil
	}
	return Event{Kind: EventValue, Value: scalarValue(ve, vp)}, true, nil
}

func (cur *Cursor) nextArray(top *cursorFrame, skipNested bool) (Event, bool, error) {
	if top.idx >= top.n {
		cur.pop()
		return Event{Kind: EventEndArray}, true, nil
	}
	ee := top.es[top.idx]
	ep := top.c.child(top.es, top.idx)
	top.idx++
	if ee.isNest() {
		if !skipNested {
			cur.push(Container(ep))
			return cur.Next(false)
		}
		return Event{Kind: EventElem, Value: Value{Kind: KindBinary, Bin: ep}}, true, nil
	}
	return Event{Kind: EventElem, Value: scalarValue(ee, ep)}, true, nil
}
