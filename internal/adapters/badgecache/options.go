// Package badgecache keeps recently extracted badges keyed by URL.
package badgecache

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithMaxSize sets the maximum number of badges to keep.
// If maxSize > 0: bounded mode, oldest entry evicted first.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(c *Cache) {
		c.maxSize = maxSize
	}
}
