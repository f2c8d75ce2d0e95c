package badge

import "errors"

// ErrBadgeUnavailable is returned when a badge page cannot be fetched or does
// not look like a badge page.
var ErrBadgeUnavailable = errors.New("badge unavailable")
