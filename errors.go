package semidoc

import (
	"errors"
	"fmt"
)

// Errors returned by this package fall into three categories a caller
// can test for with errors.Is. A fourth category named in the design —
// invariant breaches, i.e. bugs in this package or in a Resolver
// implementation rather than anything a caller did wrong — is never
// returned as an error; it panics instead, since there is no sensible
// recovery for a corrupted internal assumption (§7).
var (
	// ErrProtocol marks a push event illegal in a Builder's current
	// state.
	ErrProtocol = errors.New("semidoc: illegal operation for current state")

	// ErrDomain marks a value or operation outside the domain this
	// container format can represent: a root that is not a composite,
	// a string longer than MaxStringLen, a malformed packed buffer
	// handed to a reader, and similar.
	ErrDomain = errors.New("semidoc: value outside representable domain")

	// ErrResolution marks an opaque Numeric payload that could not be
	// interpreted because Compare was given no resolver. Errors returned
	// by a NumericResolver itself are passed through as they are.
	ErrResolution = errors.New("semidoc: numeric resolution failed")
)

// ErrStringTooLong is ErrDomain specialized to an oversized string or
// object key.
var ErrStringTooLong = fmt.Errorf("%w: string exceeds maximum length", ErrDomain)

// ErrMalformed is ErrDomain specialized to a packed buffer that fails a
// structural sanity check (short buffer, entry count overflow, and the
// like) when handed to a reader that did not itself produce it.
var ErrMalformed = fmt.Errorf("%w: malformed container", ErrDomain)
