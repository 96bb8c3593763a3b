package castor

import (
	"github.com/hupe1980/castor/internal/mem"
)

type options struct {
	capacity int
	ops      ElementOps
	alloc    mem.Allocator
	logger   *Logger
}

// Option configures container construction.
//
// Options exist to avoid exploding the constructor surface; a zero-option
// construction yields an unallocated container with shallow element semantics.
type Option func(*options)

// WithCapacity configures the initial slot count.
//
// A positive capacity allocates the buffer eagerly during construction; zero
// (the default) defers allocation until the first growth.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithElementOps configures deep-copy/deep-release hooks for elements that
// reference external resources.
//
// If nil is passed (the default), elements are treated as plain bytes: copies
// are bitwise and no release is performed.
func WithElementOps(ops ElementOps) Option {
	return func(o *options) {
		o.ops = ops
	}
}

// WithAllocator configures the buffer allocator.
//
// If nil is passed, mem.Default is used.
func WithAllocator(a mem.Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = mem.Default()
		}
		o.alloc = a
	}
}

// WithLogger configures a logger for growth and copy diagnostics.
// Pass nil to disable logging (the default).
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

func applyOptions(optFns ...Option) options {
	opts := options{
		alloc:  mem.Default(),
		logger: NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
