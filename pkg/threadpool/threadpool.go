package threadpool

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/benmeehan/threadpool/pkg/channel"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ThreadPool executes jobs on a fixed set of workers, each bound to its own OS thread.
// Jobs are queued without limit while every worker is busy.
type ThreadPool struct {
	id       string
	workers  []*Worker
	sender   *channel.Sender[Job]
	receiver *channel.Receiver[Job]
	logger   zerolog.Logger

	closeOnce sync.Once

	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
	exited    atomic.Int64
}

// Stats is a point-in-time view of pool activity.
type Stats struct {
	Workers   int   `json:"workers"`
	Busy      int   `json:"busy"`
	Queued    int   `json:"queued"`
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Panicked  int64 `json:"panicked"`
	Exited    int64 `json:"exited"`
}

// New creates a pool with size workers. It returns a *PoolCreationError wrapping
// ErrZeroSize when size is not positive, without starting anything.
// The returned pool must be released with Close.
func New(size int, opts ...Option) (*ThreadPool, error) {
	if size <= 0 {
		return nil, &PoolCreationError{Size: size, Err: ErrZeroSize}
	}

	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.New().String()
	}

	sender, receiver := channel.New[Job]()
	p := &ThreadPool{
		id:       o.id,
		workers:  make([]*Worker, 0, size),
		sender:   sender,
		receiver: receiver,
		logger:   o.logger.With().Str("pool_id", o.id).Logger(),
	}

	hooks := workerHooks{
		onPanic: func(workerID int, recovered any) {
			p.panicked.Add(1)
			if o.panicHandler != nil {
				o.panicHandler(workerID, recovered)
			}
		},
		onDone: func() {
			p.completed.Add(1)
		},
		onExit: func(int) {
			p.exited.Add(1)
		},
	}

	for i := 0; i < size; i++ {
		p.workers = append(p.workers, newWorker(i, receiver, p.logger, hooks))
	}
	for _, w := range p.workers {
		<-w.ready
	}

	p.logger.Info().Int("size", size).Msg("Thread pool started")
	return p, nil
}

// Execute queues job and returns without waiting for it to run.
// It fails with ErrPoolClosed once Close has been called.
func (p *ThreadPool) Execute(job Job) error {
	if job == nil {
		return ErrNilJob
	}
	if f, ok := job.(JobFunc); ok && f == nil {
		return ErrNilJob
	}

	p.submitted.Add(1)
	if err := p.sender.Send(job); err != nil {
		p.submitted.Add(-1)
		p.logger.Warn().Err(err).Msg("Job submitted after shutdown")
		return fmt.Errorf("%w: %w", ErrPoolClosed, err)
	}
	return nil
}

// ExecuteFunc queues f as a job.
func (p *ThreadPool) ExecuteFunc(f func()) error {
	return p.Execute(JobFunc(f))
}

// Close stops accepting jobs, lets the workers drain everything already queued,
// and waits for every worker thread to exit. It is safe to call more than once.
// Close must not be called from inside a job.
func (p *ThreadPool) Close() {
	p.closeOnce.Do(func() {
		p.logger.Info().Int("queued", p.receiver.Len()).Msg("Shutting down thread pool")

		// Closing the sender first lets workers fall out of Recv once the queue is empty.
		p.sender.Close()
		for _, w := range p.workers {
			w.Join()
			p.logger.Debug().Int("worker_id", w.ID()).Msg("Worker joined")
		}
		if dropped := p.receiver.Close(); dropped > 0 {
			p.logger.Error().Int("dropped", dropped).Msg("Queued jobs discarded at shutdown")
		}

		p.logger.Info().
			Int64("completed", p.completed.Load()).
			Int64("panicked", p.panicked.Load()).
			Int64("exited", p.exited.Load()).
			Msg("Thread pool stopped")
	})
}

// ID returns the pool instance ID used in log output.
func (p *ThreadPool) ID() string {
	return p.id
}

// Size returns the number of workers.
func (p *ThreadPool) Size() int {
	return len(p.workers)
}

// Workers returns the workers in creation order.
func (p *ThreadPool) Workers() []*Worker {
	out := make([]*Worker, len(p.workers))
	copy(out, p.workers)
	return out
}

// Stats returns current counters.
func (p *ThreadPool) Stats() Stats {
	busy := 0
	for _, w := range p.workers {
		if w.State() == StateBusy {
			busy++
		}
	}
	return Stats{
		Workers:   len(p.workers),
		Busy:      busy,
		Queued:    p.receiver.Len(),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		Exited:    p.exited.Load(),
	}
}
