package threadpool

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroSize is returned by New when asked for a pool without workers.
	ErrZeroSize = errors.New("threadpool: size must be greater than zero")
	// ErrPoolClosed is returned by Execute once Close has been called.
	ErrPoolClosed = errors.New("threadpool: pool is closed")
	// ErrNilJob is returned by Execute when given a nil job.
	ErrNilJob = errors.New("threadpool: nil job")
)

// PoolCreationError describes why New refused to build a pool.
type PoolCreationError struct {
	Size int
	Err  error
}

func (e *PoolCreationError) Error() string {
	return fmt.Sprintf("%v (requested %d)", e.Err, e.Size)
}

func (e *PoolCreationError) Unwrap() error {
	return e.Err
}
