package source

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/soocke/fps-meter-go/domain/capture"
)

// recordingSink counts boundary marks and keeps batch reports.
type recordingSink struct {
	mu      sync.Mutex
	marks   int
	reports []report
}

type report struct {
	frames  int
	elapsed float64
}

func (r *recordingSink) MarkFrameBoundary() {
	r.mu.Lock()
	r.marks++
	r.mu.Unlock()
}

func (r *recordingSink) ReportFrame(n int, ms float64) {
	r.mu.Lock()
	r.reports = append(r.reports, report{n, ms})
	r.mu.Unlock()
}

func (r *recordingSink) snapshot() (int, []report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.marks, append([]report(nil), r.reports...)
}

// manualSource only emits frames when the test asks it to.
type manualSource struct {
	sink    Sink
	started int
	stopped int
}

func (m *manualSource) Name() string { return "manual" }
func (m *manualSource) Start(_ context.Context, s Sink) error {
	if m.sink != nil {
		return ErrRunning
	}
	m.sink = s
	m.started++
	return nil
}
func (m *manualSource) Stop() { m.sink = nil; m.stopped++ }

func TestTicker_MarksFrames(t *testing.T) {
	tk := NewTicker(200)
	sink := &recordingSink{}
	if err := tk.Start(context.Background(), sink); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tk.Start(context.Background(), sink); !errors.Is(err, ErrRunning) {
		t.Fatalf("expected ErrRunning on double start, got %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	tk.Stop()
	marks, _ := sink.snapshot()
	if marks < 3 {
		t.Fatalf("expected several boundary marks, got %d", marks)
	}
	time.Sleep(20 * time.Millisecond)
	if again, _ := sink.snapshot(); again != marks {
		t.Fatalf("ticker kept marking after Stop: %d -> %d", marks, again)
	}
	if tk.Running() {
		t.Fatalf("ticker should report stopped")
	}
}

func TestTicker_StopsOnContextCancel(t *testing.T) {
	tk := NewTicker(0)
	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordingSink{}
	if err := tk.Start(ctx, sink); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
	time.Sleep(20 * time.Millisecond)
	before, _ := sink.snapshot()
	time.Sleep(40 * time.Millisecond)
	if after, _ := sink.snapshot(); after != before {
		t.Fatalf("ticker kept running after cancel")
	}
	tk.Stop()
}

func TestBatch_FlushReportsCountAndElapsed(t *testing.T) {
	inner := &manualSource{}
	b := NewBatch(inner, time.Hour)
	clock := time.Unix(100, 0)
	b.now = func() time.Time { return clock }
	sink := &recordingSink{}
	if err := b.Start(context.Background(), sink); err != nil {
		t.Fatalf("start: %v", err)
	}
	if inner.started != 1 {
		t.Fatalf("inner source should be started")
	}
	for i := 0; i < 30; i++ {
		inner.sink.MarkFrameBoundary()
	}
	inner.sink.ReportFrame(5, 99)
	inner.sink.ReportFrame(-2, 99)
	clock = clock.Add(500 * time.Millisecond)
	b.flush(sink)
	clock = clock.Add(250 * time.Millisecond)
	b.flush(sink)
	b.Stop()

	marks, reports := sink.snapshot()
	if marks != 0 {
		t.Fatalf("batch must not forward per-frame marks, got %d", marks)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %+v", reports)
	}
	if reports[0] != (report{35, 500}) || reports[1] != (report{0, 250}) {
		t.Fatalf("unexpected reports %+v", reports)
	}
	if inner.stopped != 1 {
		t.Fatalf("inner source should be stopped")
	}
	if b.Name() != "batch/manual" {
		t.Fatalf("unexpected name %q", b.Name())
	}
}

func TestBatch_PeriodicFlush(t *testing.T) {
	b := NewBatch(NewTicker(500), 30*time.Millisecond)
	sink := &recordingSink{}
	if err := b.Start(context.Background(), sink); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(120 * time.Millisecond)
	b.Stop()
	_, reports := sink.snapshot()
	if len(reports) < 2 {
		t.Fatalf("expected periodic reports, got %+v", reports)
	}
	for _, r := range reports {
		if r.elapsed <= 0 {
			t.Fatalf("elapsed must be positive: %+v", r)
		}
	}
}

type fakeCaptureService struct {
	mu       sync.Mutex
	listener capture.FrameListener
	running  bool
	starts   int
	stops    int
}

func (f *fakeCaptureService) Start()                             { f.mu.Lock(); f.running = true; f.starts++; f.mu.Unlock() }
func (f *fakeCaptureService) Stop()                              { f.mu.Lock(); f.running = false; f.stops++; f.mu.Unlock() }
func (f *fakeCaptureService) Running() bool                      { f.mu.Lock(); defer f.mu.Unlock(); return f.running }
func (f *fakeCaptureService) LatestFrame() capture.FrameSnapshot { return capture.FrameSnapshot{} }
func (f *fakeCaptureService) SetRegion(image.Rectangle)          {}
func (f *fakeCaptureService) Stats() capture.Stats               { return capture.Stats{} }
func (f *fakeCaptureService) SetFrameListener(fn capture.FrameListener) {
	f.mu.Lock()
	f.listener = fn
	f.mu.Unlock()
}
func (f *fakeCaptureService) emit() {
	f.mu.Lock()
	fn := f.listener
	f.mu.Unlock()
	if fn != nil {
		fn(capture.FrameSnapshot{})
	}
}

var _ capture.Service = (*fakeCaptureService)(nil)

func TestCapture_ForwardsFrames(t *testing.T) {
	svc := &fakeCaptureService{}
	c := NewCapture(svc)
	sink := &recordingSink{}
	if err := c.Start(context.Background(), sink); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(context.Background(), sink); !errors.Is(err, ErrRunning) {
		t.Fatalf("expected ErrRunning, got %v", err)
	}
	svc.emit()
	svc.emit()
	c.Stop()
	svc.emit()
	marks, _ := sink.snapshot()
	if marks != 2 {
		t.Fatalf("expected 2 marks, got %d", marks)
	}
	if svc.Running() || svc.starts != 1 || svc.stops < 1 {
		t.Fatalf("unexpected lifecycle starts=%d stops=%d running=%v", svc.starts, svc.stops, svc.Running())
	}
}
