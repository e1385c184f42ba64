package threadpool

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"

	"github.com/benmeehan/threadpool/pkg/channel"
	"github.com/rs/zerolog"
)

// WorkerState is the lifecycle state of a Worker.
type WorkerState int32

const (
	StateStarting WorkerState = iota
	StateIdle
	StateBusy
	StateStopped
)

func (s WorkerState) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// workerHooks lets the owning pool observe job outcomes.
type workerHooks struct {
	onPanic func(workerID int, recovered any)
	onDone  func()
	onExit  func(workerID int)
}

// Worker runs jobs taken from a shared receiver on its own OS thread.
type Worker struct {
	id       int
	receiver *channel.Receiver[Job]
	logger   zerolog.Logger
	hooks    workerHooks
	state    atomic.Int32
	restarts atomic.Int64

	ready chan struct{}
	done  chan struct{}
}

// NewWorker starts a worker that consumes jobs from receiver until the channel is
// closed and drained.
func NewWorker(id int, receiver *channel.Receiver[Job], logger zerolog.Logger) *Worker {
	return newWorker(id, receiver, logger, workerHooks{})
}

func newWorker(id int, receiver *channel.Receiver[Job], logger zerolog.Logger, hooks workerHooks) *Worker {
	w := &Worker{
		id:       id,
		receiver: receiver,
		logger:   logger.With().Int("worker_id", id).Logger(),
		hooks:    hooks,
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}

	go w.run()

	return w
}

// run locks the goroutine to its thread and enters the job loop. The thread is
// never unlocked, so the runtime tears it down when the goroutine ends.
func (w *Worker) run() {
	runtime.LockOSThread()

	w.state.Store(int32(StateIdle))
	close(w.ready)
	w.logger.Debug().Msg("Worker started")

	w.loop()
}

// restart continues the job loop on a fresh thread after a job ended the
// previous goroutine with runtime.Goexit.
func (w *Worker) restart() {
	runtime.LockOSThread()

	w.restarts.Add(1)
	w.state.Store(int32(StateIdle))
	w.logger.Warn().Msg("Worker restarted on a new thread")

	w.loop()
}

// loop receives and runs jobs until the channel is closed and drained.
func (w *Worker) loop() {
	drained := false
	defer func() {
		if !drained {
			// A job called runtime.Goexit and this goroutine is unwinding.
			go w.restart()
			return
		}
		w.state.Store(int32(StateStopped))
		close(w.done)
	}()

	for {
		job, ok := w.receiver.Recv()
		if !ok {
			w.logger.Debug().Msg("Job channel closed, worker exiting")
			drained = true
			return
		}

		w.state.Store(int32(StateBusy))
		w.execute(job)
		w.state.Store(int32(StateIdle))
	}
}

// execute runs one job, recovering any panic so the worker keeps serving.
func (w *Worker) execute(job Job) {
	finished := false
	defer func() {
		r := recover()
		switch {
		case r != nil:
			w.logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Job panicked, worker continues")
			if w.hooks.onPanic != nil {
				w.hooks.onPanic(w.id, r)
			}
		case !finished:
			w.logger.Error().Msg("Job exited its goroutine, worker will be replaced")
			if w.hooks.onExit != nil {
				w.hooks.onExit(w.id)
			}
			return
		}
		if w.hooks.onDone != nil {
			w.hooks.onDone()
		}
	}()

	job.Run()
	finished = true
}

// ID returns the worker's index in its pool.
func (w *Worker) ID() int {
	return w.id
}

// State returns the worker's current lifecycle state.
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// Restarts returns how many times the worker moved to a new thread after a job
// exited its goroutine.
func (w *Worker) Restarts() int64 {
	return w.restarts.Load()
}

// Join blocks until the worker's thread has exited.
func (w *Worker) Join() {
	<-w.done
}
