package scoring

import "errors"

// ErrEmptyQuery marks a blank query. It is never returned by Match; blank
// queries simply do not match.
var ErrEmptyQuery = errors.New("empty certification query")
