package semidoc

import "fmt"

// Walk performs a recursive depth-first traversal directly over an
// unpacked Value tree, invoking visit once per Event in the canonical
// order (§4.5). It is the in-memory-tree counterpart to Cursor's
// packed-byte iteration: useful when a tree is already in memory, for
// example when nesting a previously-packed subtree (a KindBinary Value)
// before the whole thing is handed to Compact.
//
// The root must be an array or an object, matching Compact's own
// requirement that a bare top-level scalar first be wrapped with
// WrapScalar.
//
// A KindBinary child is already packed; Walk descends into it with
// WalkContainer rather than decoding it first, so the two traversal
// strategies still agree on exactly the same Event sequence for it.
//
// visit returning a non-nil error aborts the walk immediately, and that
// error is returned from Walk unchanged.
func Walk(v Value, visit func(Event) error) error {
	if v.Kind != KindArray && v.Kind != KindObject {
		return fmt.Errorf("%w: container root must be an array or object", ErrDomain)
	}
	return walkValue(v, visit)
}

func walkValue(v Value, visit func(Event) error) error {
	switch v.Kind {
	case KindObject:
		n := len(v.Pairs)
		if err := visit(Event{Kind: EventBeginObject, Count: n}); err != nil {
			return err
		}
		for _, p := range v.Pairs {
			if err := visit(Event{Kind: EventKey, Key: p.Key}); err != nil {
				return err
			}
			if err := walkObjectValue(p.Value, visit); err != nil {
				return err
			}
		}
		return visit(Event{Kind: EventEndObject})
	case KindArray:
		n := len(v.Elems)
		if err := visit(Event{Kind: EventBeginArray, Count: n, Scalar: v.Scalar}); err != nil {
			return err
		}
		for _, elem := range v.Elems {
			if err := walkArrayElem(elem, visit); err != nil {
				return err
			}
		}
		return visit(Event{Kind: EventEndArray})
	default:
		panic("semidoc: walkValue called on a non-composite value")
	}
}

// walkObjectValue emits the event(s) for one pair's value: a composite
// produces its own Begin/End pair, a scalar produces a single
// EventValue.
func walkObjectValue(v Value, visit func(Event) error) error {
	switch v.Kind {
	case KindArray, KindObject:
		return walkValue(v, visit)
	case KindBinary:
		return WalkContainer(Container(v.Bin), visit)
	default:
		return visit(Event{Kind: EventValue, Value: v})
	}
}

// walkArrayElem is walkObjectValue's array-element counterpart: the
// same three-way split, but a scalar produces an EventElem instead of
// an EventValue.
func walkArrayElem(v Value, visit func(Event) error) error {
	switch v.Kind {
	case KindArray, KindObject:
		return walkValue(v, visit)
	case KindBinary:
		return WalkContainer(Container(v.Bin), visit)
	default:
		return visit(Event{Kind: EventElem, Value: v})
	}
}

// WalkContainer performs the same recursive depth-first traversal as
// Walk, but directly over a packed Container's bytes rather than an
// unpacked Value tree: it never materializes a Value tree, slicing
// scalar payloads in place and handing them to visit as a Value whose
// byte fields alias the Container.
//
// WalkContainer recurses into nested containers by re-slicing c, one
// stack frame per level of Go call stack — appropriate for the moderate
// nesting depths this format targets. Cursor provides an iterative
// alternative for callers that need to bound stack growth or pause and
// resume mid-traversal.
func WalkContainer(c Container, visit func(Event) error) error {
	if err := c.validate(); err != nil {
		return err
	}
	return walkContainer(c, visit)
}

func walkContainer(c Container, visit func(Event) error) error {
	h := c.header()
	es := c.entries()
	if h.isObject() {
		n := int(h.count())
		if err := visit(Event{Kind: EventBeginObject, Count: n}); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			key := c.child(es, i)
			if err := visit(Event{Kind: EventKey, Key: key}); err != nil {
				return err
			}
			ve := es[n+i]
			vp := c.child(es, n+i)
			if ve.isNest() {
				if err := walkContainer(Container(vp), visit); err != nil {
					return err
				}
				continue
			}
			if err := visit(Event{Kind: EventValue, Value: scalarValue(ve, vp)}); err != nil {
				return err
			}
		}
		return visit(Event{Kind: EventEndObject})
	}

	n := int(h.count())
	if err := visit(Event{Kind: EventBeginArray, Count: n, Scalar: h.isScalar()}); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		ee := es[i]
		ep := c.child(es, i)
		if ee.isNest() {
			if err := walkContainer(Container(ep), visit); err != nil {
				return err
			}
			continue
		}
		if err := visit(Event{Kind: EventElem, Value: scalarValue(ee, ep)}); err != nil {
			return err
		}
	}
	return visit(Event{Kind: EventEndArray})
}

// scalarValue decodes a non-nested entry's payload into a Value. The
// returned Value's Str/Numeric fields alias payload; callers that must
// retain them past the enclosing visit call need to copy.
func scalarValue(e entry, payload []byte) Value {
	switch {
	case e.isNull():
		return Null()
	case e.isBool():
		return Bool(e.isTrue())
	case e.isString():
		return String(payload)
	case e.isNumeric():
		return Numeric(payload)
	default:
		panic("semidoc: scalarValue called on a nested entry")
	}
}
