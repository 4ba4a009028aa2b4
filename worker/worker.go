package worker

import (
	"runtime"

	"github.com/getsentry/sentry-go"
)

var workerQueue = make(chan func(), runtime.NumCPU()*4)

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for f := range workerQueue {
		run(f)
	}
}

// run runs a single job. A panicking job is reported and does not take the worker down with it.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues f to run outside of the calling goroutine. It is used for work that may block, such as
// relaying the remote events of a player, so that packet processing never waits on it.
func Submit(f func()) {
	workerQueue <- f
}
