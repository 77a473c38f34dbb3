// cmd/rover/main_test.go
package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tamzrod/rover-ranging/internal/poller"
	"github.com/tamzrod/rover-ranging/internal/ranging"
	"github.com/tamzrod/rover-ranging/internal/status"
)

type recordingWriter struct {
	mu      sync.Mutex
	results []poller.Result
}

func (w *recordingWriter) Write(res poller.Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.results = append(w.results, res)
	return nil
}

type recordingStatus struct {
	mu    sync.Mutex
	snaps []status.Snapshot
}

func (w *recordingStatus) WriteStatus(s status.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snaps = append(w.snaps, s)
	return nil
}

func (w *recordingStatus) all() []status.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]status.Snapshot(nil), w.snaps...)
}

func TestOrchestrate_TracksStatus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan poller.Result)
	dw := &recordingWriter{}
	sw := &recordingStatus{}

	done := make(chan struct{})
	go func() {
		orchestrate(ctx, "r1", in, dw, sw, true)
		close(done)
	}()

	in <- poller.Result{Reading: ranging.Reading{Centimeters: 120}, Attempts: 1}
	in <- poller.Result{Err: &ranging.TimeoutError{Phase: ranging.EchoEnd}, Attempts: 1}
	// consecutive failures count up
	in <- poller.Result{Err: &ranging.TimeoutError{Phase: ranging.EchoEnd}, Attempts: 1}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("orchestrate did not return")
	}

	snaps := sw.all()
	if len(snaps) < 4 {
		t.Fatalf("expected start + 3 updates, got %d", len(snaps))
	}
	if snaps[0].Health != status.HealthUnknown {
		t.Fatalf("start snapshot must be unknown: %+v", snaps[0])
	}
	if snaps[1].Health != status.HealthOK || snaps[1].LastDistance != 120 {
		t.Fatalf("unexpected OK snapshot: %+v", snaps[1])
	}
	last := snaps[len(snaps)-1]
	if last.Health != status.HealthError || last.LastErrorCode != ranging.CodeEchoEndTimeout ||
		last.ConsecutiveFailures != 2 || last.LastDistance != 120 {
		t.Fatalf("unexpected error snapshot: %+v", last)
	}

	if len(dw.results) != 3 {
		t.Fatalf("expected 3 data writes, got %d", len(dw.results))
	}
}

func TestOrchestrate_StatusDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan poller.Result)
	dw := &recordingWriter{}

	done := make(chan struct{})
	go func() {
		orchestrate(ctx, "r1", in, dw, nil, false)
		close(done)
	}()

	in <- poller.Result{Attempts: 1}
	in <- poller.Result{Attempts: 1}
	cancel()
	<-done

	if len(dw.results) != 2 {
		t.Fatalf("expected 2 data writes, got %d", len(dw.results))
	}
}
