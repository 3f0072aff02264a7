package hzip

import (
	"github.com/chronos-tachyon/assert"
)

// DefaultBufferSize is the size of a File's internal byte buffer unless
// WithBufferSize says otherwise.
const DefaultBufferSize = 1 << 20

// Option configures a File.
type Option func(*options)

type options struct {
	bufferSize int
	owned      bool
}

func defaultOptions() options {
	return options{bufferSize: DefaultBufferSize}
}

func (o *options) apply(opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithBufferSize sets the size of the internal buffer that whole bytes are
// staged in before being written to, or after being read from, the
// underlying stream.  n must be positive.
func WithBufferSize(n int) Option {
	assert.Assertf(n > 0, "buffer size %d must be positive", n)
	return func(o *options) {
		o.bufferSize = n
	}
}

// WithOwnership makes Close also close the underlying stream, if it
// implements io.Closer.  Files returned by Open always own their stream.
func WithOwnership(owned bool) Option {
	return func(o *options) {
		o.owned = owned
	}
}
