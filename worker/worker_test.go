package worker

import (
	"testing"
	"time"
)

func TestSubmit(t *testing.T) {
	done := make(chan int, 1)
	Submit(func() { done <- 7 })

	select {
	case v := <-done:
		if v != 7 {
			t.Fatalf("unexpected value %d", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("job did not run")
	}
}

func TestPanickingJobDoesNotStopWorkers(t *testing.T) {
	Submit(func() { panic("boom") })

	done := make(chan struct{})
	Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("workers stopped after a panicking job")
	}
}
