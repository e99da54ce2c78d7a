package schedule

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// passRecorder collects pass invocations behind a mutex; timer-fired
// passes run on their own goroutines.
type passRecorder struct {
	mu       sync.Mutex
	frameIDs []int
	listRuns int
	reports  []string
	frameErr error
	listErr  error
}

func (r *passRecorder) passes() Passes {
	return Passes{
		FramePass: func(id int) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.frameIDs = append(r.frameIDs, id)
			return r.frameErr
		},
		ListPass: func() error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.listRuns++
			return r.listErr
		},
		Report: func(msg string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.reports = append(r.reports, msg)
		},
	}
}

func (r *passRecorder) snapshot() ([]int, int, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.frameIDs...), r.listRuns, append([]string(nil), r.reports...)
}

func TestCoalescing(t *testing.T) {
	rec := &passRecorder{}
	s := New(rec.passes())
	s.SetDelays(10*time.Millisecond, 30*time.Millisecond, time.Millisecond)
	defer s.Stop()

	s.RecordDirty(1)
	s.RecordDirty(2)
	s.RecordDirty(3)

	time.Sleep(100 * time.Millisecond)

	frames, lists, _ := rec.snapshot()
	if len(frames) != 1 {
		t.Fatalf("frame pass ran %d times, want 1 (coalesced)", len(frames))
	}
	if frames[0] != 3 {
		t.Errorf("frame pass saw id %d, want the last dirty id 3", frames[0])
	}
	if lists != 1 {
		t.Errorf("list pass ran %d times, want 1", lists)
	}
}

func TestSeparateWindows(t *testing.T) {
	rec := &passRecorder{}
	s := New(rec.passes())
	s.SetDelays(5*time.Millisecond, 200*time.Millisecond, time.Millisecond)
	defer s.Stop()

	// Edits spaced wider than the frame window but inside the list
	// window: several frame passes, one trailing list pass.
	s.RecordDirty(1)
	time.Sleep(30 * time.Millisecond)
	s.RecordDirty(2)
	time.Sleep(30 * time.Millisecond)

	frames, lists, _ := rec.snapshot()
	if len(frames) != 2 {
		t.Errorf("frame pass ran %d times, want 2", len(frames))
	}
	if lists != 0 {
		t.Errorf("list pass ran %d times before its window elapsed, want 0", lists)
	}

	time.Sleep(250 * time.Millisecond)
	_, lists, _ = rec.snapshot()
	if lists != 1 {
		t.Errorf("list pass ran %d times, want exactly 1", lists)
	}
}

func TestImmediateRefresh(t *testing.T) {
	rec := &passRecorder{}
	s := New(rec.passes())
	s.SetDelays(time.Hour, time.Hour, time.Hour)
	defer s.Stop()

	s.RecordDirty(7)
	s.ImmediateRefresh()

	frames, lists, _ := rec.snapshot()
	if len(frames) != 1 || frames[0] != 0 {
		t.Errorf("frames = %v, want one full-refresh pass (id 0)", frames)
	}
	if lists != 1 {
		t.Errorf("list pass ran %d times, want 1", lists)
	}

	// The pending debounced tasks were cancelled, not deferred.
	time.Sleep(20 * time.Millisecond)
	frames, lists, _ = rec.snapshot()
	if len(frames) != 1 || lists != 1 {
		t.Error("cancelled tasks should never fire after an immediate refresh")
	}
}

func TestDebounceInput(t *testing.T) {
	rec := &passRecorder{}
	s := New(rec.passes())
	s.SetDelays(time.Millisecond, time.Millisecond, 20*time.Millisecond)
	defer s.Stop()

	var mu sync.Mutex
	commits := map[string]int{}
	commit := func(field string) func() {
		return func() {
			mu.Lock()
			commits[field]++
			mu.Unlock()
		}
	}

	// Same pair re-debounces; distinct pairs run independently.
	s.DebounceInput(1, "title", commit("title"))
	s.DebounceInput(1, "title", commit("title"))
	s.DebounceInput(1, "title", commit("title"))
	s.DebounceInput(1, "notes", commit("notes"))

	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if commits["title"] != 1 {
		t.Errorf("title committed %d times, want 1", commits["title"])
	}
	if commits["notes"] != 1 {
		t.Errorf("notes committed %d times, want 1", commits["notes"])
	}
}

func TestFlush(t *testing.T) {
	rec := &passRecorder{}
	s := New(rec.passes())
	s.SetDelays(time.Hour, time.Hour, time.Hour)
	defer s.Stop()

	committed := false
	s.DebounceInput(1, "title", func() { committed = true })
	s.RecordDirty(1)

	s.Flush()

	frames, lists, _ := rec.snapshot()
	if !committed {
		t.Error("flush should run pending input commits")
	}
	if len(frames) != 1 || lists != 1 {
		t.Errorf("flush should run both passes once, frames = %v lists = %d", frames, lists)
	}

	// Nothing left armed after a flush.
	s.Flush()
	frames, lists, _ = rec.snapshot()
	if len(frames) != 1 || lists != 1 {
		t.Error("second flush should be a no-op")
	}
}

func TestStop(t *testing.T) {
	rec := &passRecorder{}
	s := New(rec.passes())
	s.SetDelays(30*time.Millisecond, 30*time.Millisecond, 30*time.Millisecond)

	s.RecordDirty(1)
	s.Stop()
	s.RecordDirty(2)

	time.Sleep(100 * time.Millisecond)

	frames, lists, _ := rec.snapshot()
	if len(frames) != 0 || lists != 0 {
		t.Errorf("no pass should run after stop, frames = %v lists = %d", frames, lists)
	}
}

func TestFailureEscalation(t *testing.T) {
	rec := &passRecorder{}
	s := New(rec.passes())
	defer s.Stop()

	err := errors.New("boom")
	s.CountFailure(err)
	s.CountFailure(err)
	if _, _, reports := rec.snapshot(); len(reports) != 0 {
		t.Fatalf("reported before the threshold: %v", reports)
	}
	if s.ConsecutiveFailures() != 2 {
		t.Errorf("failures = %d, want 2", s.ConsecutiveFailures())
	}

	s.CountFailure(err)
	_, _, reports := rec.snapshot()
	if len(reports) != 1 {
		t.Fatalf("reports = %v, want exactly one recovery notice", reports)
	}
	if s.ConsecutiveFailures() != 0 {
		t.Errorf("failures should reset after reporting, got %d", s.ConsecutiveFailures())
	}
}

func TestFailingPassesEscalate(t *testing.T) {
	rec := &passRecorder{frameErr: errors.New("frame broken"), listErr: errors.New("list broken")}
	s := New(rec.passes())
	defer s.Stop()

	// Each immediate refresh runs two failing passes.
	s.ImmediateRefresh()
	s.ImmediateRefresh()

	_, _, reports := rec.snapshot()
	if len(reports) != 1 {
		t.Errorf("reports = %v, want one after the third consecutive failure", reports)
	}
	if s.ConsecutiveFailures() != 1 {
		t.Errorf("failures = %d, want 1 (the fourth failure restarts the streak)", s.ConsecutiveFailures())
	}
}

func TestSuccessResetsStreak(t *testing.T) {
	rec := &passRecorder{}
	s := New(rec.passes())
	defer s.Stop()

	s.CountFailure(errors.New("x"))
	s.CountFailure(errors.New("x"))
	s.ImmediateRefresh()

	if s.ConsecutiveFailures() != 0 {
		t.Errorf("a successful pass should reset the streak, got %d", s.ConsecutiveFailures())
	}
	if _, _, reports := rec.snapshot(); len(reports) != 0 {
		t.Errorf("no report expected, got %v", reports)
	}
}
