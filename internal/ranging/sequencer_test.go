// internal/ranging/sequencer_test.go
package ranging

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// ---- fake hardware ----

// fakeTimer advances its counter by step on every read unless counterAt is set.
// Captured values are scripted per polarity.
type fakeTimer struct {
	ops      []string
	reads    int
	counter  uint16
	step     uint16
	polarity Polarity

	// counterAt, when set, overrides the counter for the n-th read since reset.
	counterAt func(n int) uint16

	captures map[Polarity]uint16

	// value of the counter when each capture was read
	readAtCapture []uint16

	mu       sync.Mutex
	inFlight bool
	overlap  bool
}

func (f *fakeTimer) ResetCounter() {
	f.mu.Lock()
	if f.inFlight {
		f.overlap = true
	}
	f.inFlight = true
	f.mu.Unlock()

	f.ops = append(f.ops, "reset")
	f.counter = 0
	f.reads = 0
}

func (f *fakeTimer) ReadCounter() uint16 {
	f.reads++
	if f.counterAt != nil {
		f.counter = f.counterAt(f.reads)
	} else {
		f.counter += f.step
	}
	return f.counter
}

func (f *fakeTimer) SetEdgePolarity(p Polarity) {
	f.ops = append(f.ops, "polarity:"+p.String())
	f.polarity = p
}

func (f *fakeTimer) ReadCapturedValue() uint16 {
	f.ops = append(f.ops, "capture:"+f.polarity.String())
	f.readAtCapture = append(f.readAtCapture, f.counter)
	if f.polarity == Falling {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}
	return f.captures[f.polarity]
}

type fakeTrigger struct {
	timer *fakeTimer
	fired int
}

func (t *fakeTrigger) FireTrigger() {
	t.fired++
	t.timer.ops = append(t.timer.ops, "trigger")
}

func newFake(step uint16, start, end uint16) (*fakeTimer, *fakeTrigger) {
	ft := &fakeTimer{
		step: step,
		captures: map[Polarity]uint16{
			Rising:  start,
			Falling: end,
		},
	}
	return ft, &fakeTrigger{timer: ft}
}

func newSequencer(t *testing.T, ft *fakeTimer, tr *fakeTrigger, opts ...Option) *Sequencer {
	t.Helper()
	s, err := New(Hardware{Timer: ft, Trigger: tr}, opts...)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return s
}

// ---- tests ----

func TestNew_RequiresHardware(t *testing.T) {
	if _, err := New(Hardware{Trigger: &fakeTrigger{}}); err == nil {
		t.Fatalf("expected error for missing timer")
	}
	if _, err := New(Hardware{Timer: &fakeTimer{}}); err == nil {
		t.Fatalf("expected error for missing trigger")
	}
	if _, err := New(Hardware{Timer: &fakeTimer{}, Trigger: &fakeTrigger{}}, WithEchoEndBudget(nil)); err == nil {
		t.Fatalf("expected error for nil budget")
	}
}

func TestMeasure_Sequence(t *testing.T) {
	ft, tr := newFake(10, 1000, 6636)
	s := newSequencer(t, ft, tr)

	r, err := s.Measure()
	if err != nil {
		t.Fatalf("Measure err=%v", err)
	}

	want := []string{
		"reset",
		"polarity:rising",
		"trigger",
		"capture:rising",
		"polarity:falling",
		"capture:falling",
	}
	if len(ft.ops) != len(want) {
		t.Fatalf("ops mismatch: got=%v want=%v", ft.ops, want)
	}
	for i := range want {
		if ft.ops[i] != want[i] {
			t.Fatalf("op %d: got=%s want=%s (all=%v)", i, ft.ops[i], want[i], ft.ops)
		}
	}

	if tr.fired != 1 {
		t.Fatalf("expected 1 trigger, got %d", tr.fired)
	}
	if r.Start != 1000 || r.End != 6636 || r.Pulse != 5636 {
		t.Fatalf("unexpected reading: %+v", r)
	}
	if r.Centimeters != 966 {
		t.Fatalf("expected 966 cm, got %d", r.Centimeters)
	}
}

func TestMeasure_RisingCaptureReadAtThreshold(t *testing.T) {
	ft, tr := newFake(1, 0, 0)
	s := newSequencer(t, ft, tr, WithEchoStartBudget(Iterations(20000)), WithEchoEndBudget(Iterations(40000)))

	if _, err := s.Measure(); err != nil {
		t.Fatalf("Measure err=%v", err)
	}
	if ft.readAtCapture[0] != EchoStartThreshold {
		t.Fatalf("rising capture read at counter %d, want %d", ft.readAtCapture[0], EchoStartThreshold)
	}
}

func TestMeasure_WrappedPulse(t *testing.T) {
	ft, tr := newFake(10, 60000, 100)
	s := newSequencer(t, ft, tr)

	r, err := s.Measure()
	if err != nil {
		t.Fatalf("Measure err=%v", err)
	}
	if r.Pulse != 5636 {
		t.Fatalf("expected pulse 5636, got %d", r.Pulse)
	}
	if got := s.MeasureDistance(); got != 966 {
		t.Fatalf("MeasureDistance: got=%d want=966", got)
	}
}

func TestMeasure_EchoStartTimeout(t *testing.T) {
	// counter never moves: threshold 5000 is never reached
	ft, tr := newFake(0, 1, 2)
	s := newSequencer(t, ft, tr)

	_, err := s.Measure()
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	var te *TimeoutError
	if !errors.As(err, &te) || te.Phase != EchoStart {
		t.Fatalf("expected echo-start timeout, got %v", err)
	}
	if te.Code() != CodeEchoStartTimeout {
		t.Fatalf("unexpected code %#x", te.Code())
	}
	if ft.reads != DefaultPollBudget {
		t.Fatalf("expected %d counter reads, got %d", DefaultPollBudget, ft.reads)
	}
	for _, op := range ft.ops {
		if op == "capture:rising" || op == "polarity:falling" {
			t.Fatalf("cycle continued after timeout: %v", ft.ops)
		}
	}

	if got := s.MeasureDistance(); got != Sentinel {
		t.Fatalf("MeasureDistance: got=%#x want=%#x", got, Sentinel)
	}
}

func TestMeasure_EchoEndTimeout(t *testing.T) {
	ft, tr := newFake(0, 1, 2)
	// start wait succeeds on the first read, then the counter stalls
	ft.counterAt = func(n int) uint16 {
		return 5000
	}
	s := newSequencer(t, ft, tr)

	_, err := s.Measure()
	var te *TimeoutError
	if !errors.As(err, &te) || te.Phase != EchoEnd {
		t.Fatalf("expected echo-end timeout, got %v", err)
	}
	if te.Code() != CodeEchoEndTimeout {
		t.Fatalf("unexpected code %#x", te.Code())
	}

	if got := s.MeasureDistance(); got != 0xFFFF {
		t.Fatalf("MeasureDistance: got=%#x want=0xFFFF", got)
	}
}

func TestMeasure_EchoEndBaselineTakenAtPolaritySwitch(t *testing.T) {
	ft, tr := newFake(0, 100, 200)

	// read 1: start threshold reached at 40000 (a non-zero start time)
	// read 2: baseline at the polarity switch, 40000
	// read 3+: +1000 per read; 40000+30000 wraps to 4464
	ft.counterAt = func(n int) uint16 {
		if n <= 2 {
			return 40000
		}
		return uint16(40000 + uint32(n-2)*1000)
	}
	s := newSequencer(t, ft, tr)

	if _, err := s.Measure(); err != nil {
		t.Fatalf("Measure err=%v", err)
	}

	// 30 reads after the baseline are needed for a 30000-tick advance
	if ft.reads != 2+30 {
		t.Fatalf("expected %d counter reads, got %d", 32, ft.reads)
	}
	// 40000+30000 wrapped past MaxCounter
	if got, want := ft.readAtCapture[1], uint16(4464); got != want {
		t.Fatalf("falling capture read at counter %d, want %d", got, want)
	}
}

func TestMeasure_ConsecutiveCallsIdentical(t *testing.T) {
	ft, tr := newFake(7, 61000, 1200)
	s := newSequencer(t, ft, tr)

	first, err := s.Measure()
	if err != nil {
		t.Fatalf("first Measure err=%v", err)
	}
	firstReads := ft.reads

	second, err := s.Measure()
	if err != nil {
		t.Fatalf("second Measure err=%v", err)
	}

	if first != second {
		t.Fatalf("readings differ: %+v vs %+v", first, second)
	}
	if ft.reads != firstReads {
		t.Fatalf("counter reads differ: %d vs %d", firstReads, ft.reads)
	}
}

func TestMeasure_SerializesConcurrentCalls(t *testing.T) {
	ft, tr := newFake(50, 10, 20)
	s := newSequencer(t, ft, tr)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, _ = s.Measure()
			}
		}()
	}
	wg.Wait()

	if ft.overlap {
		t.Fatalf("measurement cycles overlapped")
	}
}

func TestMeasure_WallClockBudget(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}

	ft, tr := newFake(0, 1, 2)
	s := newSequencer(t, ft, tr, WithEchoStartBudget(WallClock{Timeout: 50 * time.Millisecond, Now: clock}))

	_, err := s.Measure()
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if ft.reads > 60 {
		t.Fatalf("wall clock budget polled too long: %d reads", ft.reads)
	}
}
