package session

import "errors"

// Fatal operation errors.  Per-leaf problems go to the report instead.
var (
	ErrNoSelection    = errors.New("nothing is selected")
	ErrMultiSelection = errors.New("more than one node is selected")
	ErrWrongKind      = errors.New("selection contains no text")
	ErrNoPayload      = errors.New("nothing has been copied")

	// ErrStoreUnavailable reports a payload store failure other than
	// an absent payload.
	ErrStoreUnavailable = errors.New("payload store unavailable")
)
