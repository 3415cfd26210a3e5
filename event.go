package semidoc

// EventKind identifies one step of the canonical event stream emitted
// by both Walk and Cursor. The two readers are built very differently —
// Walk recurses directly over an unpacked Value tree (or, via
// WalkContainer, over a Container's packed bytes), Cursor maintains an
// explicit frame stack over packed bytes and never recurses — but for
// the same tree/Container they must produce byte-identical sequences of
// Events (§4.5, §4.6: "two iterator models, one event stream").
type EventKind uint8

const (
	// EventBeginArray/EventEndArray bracket an array's elements.
	EventBeginArray EventKind = iota
	EventEndArray
	// EventBeginObject/EventEndObject bracket an object's pairs.
	EventBeginObject
	EventEndObject
	// EventKey precedes the value of one object pair and carries the
	// pair's key in Event.Key. It is never emitted for array elements.
	EventKey
	// EventValue carries a scalar that is the value half of an object
	// pair. Composite values produce their own EventBegin*/EventEnd*
	// pair instead, immediately after the EventKey that introduces them
	// — except under Cursor.Next(skipNested=true), which reports a
	// composite value as one EventValue carrying a KindBinary Value.
	EventValue
	// EventElem carries a scalar array element. As with EventValue,
	// composite elements produce their own Begin/End pair instead, or
	// one KindBinary EventElem under Cursor.Next(skipNested=true).
	EventElem
)

// Event is one step of the stream. Exactly the fields relevant to Kind
// are meaningful:
//
//	EventBeginArray/EventBeginObject: Count, Scalar (array only)
//	EventKey:                         Key
//	EventValue, EventElem:            Value
type Event struct {
	Kind   EventKind
	Key    []byte
	Value  Value
	Count  int
	Scalar bool // EventBeginArray only: the container is a scalar wrapper
}
