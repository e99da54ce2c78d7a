// Package schedule coalesces mutation side effects into a bounded
// number of refresh passes per logical change.
//
// Two named debounce channels share one dirty signal per edit: the
// frame channel runs a short-delay pass (aggregate stats, persist,
// single-record view patch) and the list channel a longer trailing
// pass (full list regeneration). Re-arming a channel replaces its
// pending task rather than queuing another, so only the most recent
// scheduled pass in a coalescing window executes.
package schedule

import (
	"fmt"
	"sync"
	"time"
)

// Default debounce windows.
const (
	DefaultFrameDelay = 16 * time.Millisecond
	DefaultListDelay  = 500 * time.Millisecond
	DefaultInputDelay = 300 * time.Millisecond
)

// maxConsecutiveFailures is the escalation threshold: after this many
// consecutive pass failures the user is shown a recovery notice and
// the counter resets. No pass is retried automatically.
const maxConsecutiveFailures = 3

// Passes are the work a scheduler drives. FramePass receives the id of
// the most recently edited record (0 for a full refresh with no single
// dirty record). Both may return an error, which is caught and counted
// rather than propagated.
type Passes struct {
	FramePass func(recordID int) error
	ListPass  func() error

	// Report surfaces the escalated recovery notice. Nil disables
	// reporting.
	Report func(msg string)
}

// Scheduler owns the two debounce channels plus the per-(record,
// field) input pre-debounce.
type Scheduler struct {
	passes Passes

	frameDelay time.Duration
	listDelay  time.Duration
	inputDelay time.Duration

	mu       sync.Mutex
	frame    *pending
	list     *pending
	inputs   map[inputKey]*pending
	failures int
	stopped  bool

	// runMu serializes pass execution so a timer-fired pass never
	// interleaves with a synchronous one.
	runMu sync.Mutex
}

type inputKey struct {
	id    int
	field string
}

// pending is one armed task: at most one exists per channel, and
// re-arming replaces it.
type pending struct {
	timer *time.Timer
	run   func()
}

// New returns a scheduler with default windows.
func New(passes Passes) *Scheduler {
	return &Scheduler{
		passes:     passes,
		frameDelay: DefaultFrameDelay,
		listDelay:  DefaultListDelay,
		inputDelay: DefaultInputDelay,
		inputs:     make(map[inputKey]*pending),
	}
}

// SetDelays overrides the debounce windows. Zero values keep defaults.
func (s *Scheduler) SetDelays(frame, list, input time.Duration) {
	if frame > 0 {
		s.frameDelay = frame
	}
	if list > 0 {
		s.listDelay = list
	}
	if input > 0 {
		s.inputDelay = input
	}
}

// RecordDirty signals one logical edit scoped to a record. Both
// channels re-arm; earlier un-run passes are cancelled.
func (s *Scheduler) RecordDirty(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.arm(&s.frame, s.frameDelay, func() { s.runFrame(id) })
	s.arm(&s.list, s.listDelay, s.runList)
}

// ImmediateRefresh runs both passes synchronously, bypassing the
// debounce windows. Pending tasks are cancelled: they would only
// repeat the work.
func (s *Scheduler) ImmediateRefresh() {
	s.mu.Lock()
	s.cancel(s.frame)
	s.cancel(s.list)
	s.frame, s.list = nil, nil
	s.mu.Unlock()

	s.runFrame(0)
	s.runList()
}

// DebounceInput defers a raw input commit per (record, field) pair so
// validation and citation work do not run on every keystroke. Each
// call for the same pair resets the timer. Discrete control changes
// should call the commit directly instead.
func (s *Scheduler) DebounceInput(id int, field string, commit func()) {
	key := inputKey{id, field}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if prev, ok := s.inputs[key]; ok {
		prev.timer.Stop()
	}
	p := &pending{run: func() {
		s.mu.Lock()
		delete(s.inputs, key)
		s.mu.Unlock()
		commit()
	}}
	p.timer = time.AfterFunc(s.inputDelay, p.run)
	s.inputs[key] = p
}

// Flush runs every pending task now, synchronously, in input → frame →
// list order. CLI commands call it before exit so a short-lived
// process never drops a scheduled persist.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	var runs []func()
	for key, p := range s.inputs {
		p.timer.Stop()
		runs = append(runs, p.run)
		delete(s.inputs, key)
	}
	if s.frame != nil {
		s.frame.timer.Stop()
		runs = append(runs, s.frame.run)
		s.frame = nil
	}
	if s.list != nil {
		s.list.timer.Stop()
		runs = append(runs, s.list.run)
		s.list = nil
	}
	s.mu.Unlock()

	for _, run := range runs {
		run()
	}
}

// Stop cancels everything pending and refuses further arming.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.cancel(s.frame)
	s.cancel(s.list)
	s.frame, s.list = nil, nil
	for key, p := range s.inputs {
		p.timer.Stop()
		delete(s.inputs, key)
	}
}

// Gate returns the mutex that serializes pass execution. Mutation
// entry points lock it around their critical sections so a timer-fired
// pass never reads a half-applied edit.
func (s *Scheduler) Gate() sync.Locker { return &s.runMu }

// CountFailure records a swallowed operational error (e.g. a not-found
// update) against the consecutive-failure threshold.
func (s *Scheduler) CountFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteFailureLocked(err)
}

// ConsecutiveFailures reports the current failure streak.
func (s *Scheduler) ConsecutiveFailures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}

// arm implements compare-and-replace on a channel's single pending
// task slot: the previous timer is stopped and a fresh one takes its
// place (last-write-wins coalescing, not queuing). A fired timer
// clears the slot before running so Flush never repeats its pass.
// Callers hold s.mu.
func (s *Scheduler) arm(slot **pending, delay time.Duration, run func()) {
	s.cancel(*slot)
	p := &pending{run: run}
	p.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if *slot == p {
			*slot = nil
		}
		s.mu.Unlock()
		run()
	})
	*slot = p
}

func (s *Scheduler) cancel(p *pending) {
	if p != nil {
		p.timer.Stop()
	}
}

func (s *Scheduler) runFrame(id int) {
	s.runPass(func() error {
		if s.passes.FramePass == nil {
			return nil
		}
		return s.passes.FramePass(id)
	})
}

func (s *Scheduler) runList() {
	s.runPass(func() error {
		if s.passes.ListPass == nil {
			return nil
		}
		return s.passes.ListPass()
	})
}

// runPass executes one pass with failure containment: an error or
// panic is counted, never propagated, and a success resets the streak.
func (s *Scheduler) runPass(f func() error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("refresh pass panic: %v", r)
			}
		}()
		return f()
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.noteFailureLocked(err)
		return
	}
	s.failures = 0
}

func (s *Scheduler) noteFailureLocked(err error) {
	s.failures++
	if s.failures >= maxConsecutiveFailures {
		if s.passes.Report != nil {
			s.passes.Report("something went wrong repeatedly; please restart refdeck")
		}
		s.failures = 0
	}
}
