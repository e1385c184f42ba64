package threadpool

// Job is a single unit of work executed once on one worker.
type Job interface {
	Run()
}

// JobFunc adapts an ordinary function to the Job interface.
type JobFunc func()

// Run calls f.
func (f JobFunc) Run() {
	f()
}
