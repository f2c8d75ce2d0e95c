package expiry

import "errors"

// ErrUnparseableExpiry marks expiry text with no recognizable date. It is
// reported alongside an indeterminate verdict, never instead of one.
var ErrUnparseableExpiry = errors.New("unparseable expiry date")
