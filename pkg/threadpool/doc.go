// Package threadpool runs jobs on a fixed set of workers, each locked to its own
// OS thread, fed from one unbounded FIFO queue.
//
//	pool, err := threadpool.New(4)
//	if err != nil {
//	    return err // errors.Is(err, threadpool.ErrZeroSize)
//	}
//	defer pool.Close()
//
//	for _, conn := range conns {
//	    if err := pool.ExecuteFunc(func() { handle(conn) }); err != nil {
//	        return err // errors.Is(err, threadpool.ErrPoolClosed)
//	    }
//	}
//
// Close stops intake, waits for every queued job to finish and joins every worker.
// A job that panics is recovered and logged; its worker keeps running.
package threadpool
