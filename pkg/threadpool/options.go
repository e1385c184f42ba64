package threadpool

import "github.com/rs/zerolog"

// PanicHandler is called on the worker's thread after a job panics.
type PanicHandler func(workerID int, recovered any)

// Option configures a ThreadPool.
type Option func(*options)

type options struct {
	logger       zerolog.Logger
	panicHandler PanicHandler
	id           string
}

// WithLogger sets the logger used by the pool and its workers.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPanicHandler registers a callback invoked whenever a job panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.panicHandler = h
	}
}

// WithID overrides the generated pool instance ID.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}
