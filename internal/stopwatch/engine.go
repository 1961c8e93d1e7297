// Package stopwatch implements the pause/resume timer used to record time
// spent on a task. The engine's state transitions are pure functions of an
// injected clock; periodic sampling for display is optional and owned by the
// engine so it is always released on Stop, Reset, Finish or Close.
package stopwatch

import (
	"sync"
	"time"

	"github.com/sadopc/activity/internal/model"
)

type State int

const (
	Idle State = iota
	Running
	Paused
	Finished
)

var stateNames = map[State]string{
	Idle:     "IDLE",
	Running:  "RUNNING",
	Paused:   "PAUSED",
	Finished: "FINISHED",
}

func (s State) String() string {
	return stateNames[s]
}

// DefaultTickInterval is the display refresh cadence used by WithTick when
// no interval is given.
const DefaultTickInterval = 10 * time.Millisecond

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithTick registers fn to receive the total elapsed time every interval
// while the engine is running. fn runs on the engine's ticker goroutine and
// must not call Start, Stop, Reset, Finish or Close.
func WithTick(interval time.Duration, fn func(total time.Duration)) Option {
	return func(e *Engine) {
		if interval <= 0 {
			interval = DefaultTickInterval
		}
		e.tickEvery = interval
		e.onTick = fn
	}
}

// Engine accumulates elapsed time over start/stop cycles. Each tracked task
// gets its own Engine; engines share no state.
type Engine struct {
	mu  sync.Mutex
	now func() time.Time

	state      State
	hasStarted bool
	startTime  time.Time
	previous   time.Duration
	current    time.Duration
	intervals  []model.Interval

	tickEvery time.Duration
	onTick    func(time.Duration)
	ticker    *ticker
}

type ticker struct {
	done   chan struct{}
	exited chan struct{}
}

func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now, state: Idle}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resume seeds an engine with the intervals of an existing session so that
// further tracking appends to it.
func Resume(intervals []model.Interval, opts ...Option) *Engine {
	e := New(opts...)
	for _, iv := range intervals {
		e.previous += iv.Duration()
	}
	e.intervals = append([]model.Interval(nil), intervals...)
	e.hasStarted = true
	e.state = Paused
	return e
}

// Start begins a new interval. It is a no-op unless the engine is idle or
// paused.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle && e.state != Paused {
		return
	}
	e.state = Running
	e.hasStarted = true
	e.startTime = e.now()
	e.current = 0
	e.startTickerLocked()
}

// Stop closes the running interval. Calling Stop while not running records
// nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	t := e.stopLocked()
	e.mu.Unlock()
	t.wait()
}

// Toggle stops a running engine and starts a paused or idle one.
func (e *Engine) Toggle() {
	if e.IsRunning() {
		e.Stop()
		return
	}
	e.Start()
}

// Reset discards all recorded time and returns the engine to Idle.
func (e *Engine) Reset() {
	e.mu.Lock()
	t := e.releaseTickerLocked()
	e.state = Idle
	e.hasStarted = false
	e.startTime = time.Time{}
	e.previous = 0
	e.current = 0
	e.intervals = nil
	e.mu.Unlock()
	t.wait()
}

// Finish stops the engine for good and returns the recorded intervals.
// Later calls to Start are ignored.
func (e *Engine) Finish() []model.Interval {
	e.mu.Lock()
	t := e.stopLocked()
	e.state = Finished
	out := append([]model.Interval(nil), e.intervals...)
	e.mu.Unlock()
	t.wait()
	return out
}

// Close releases the ticker without recording the running interval.
func (e *Engine) Close() {
	e.mu.Lock()
	t := e.releaseTickerLocked()
	e.mu.Unlock()
	t.wait()
}

func (e *Engine) stopLocked() *ticker {
	if e.state != Running {
		return nil
	}
	t := e.releaseTickerLocked()
	end := e.now()
	if end.Before(e.startTime) {
		end = e.startTime
	}
	e.intervals = append(e.intervals, model.Interval{Start: e.startTime, End: end})
	e.previous += end.Sub(e.startTime)
	e.current = 0
	e.startTime = time.Time{}
	e.state = Paused
	return t
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == Running
}

func (e *Engine) HasStarted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasStarted
}

// Intervals returns a copy of the completed intervals.
func (e *Engine) Intervals() []model.Interval {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.Interval(nil), e.intervals...)
}

// PreviousElapsed is the sum of all completed intervals.
func (e *Engine) PreviousElapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.previous
}

// CurrentElapsed is the length of the running interval, or zero.
func (e *Engine) CurrentElapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked()
}

// TotalElapsed increases while running and is frozen otherwise.
func (e *Engine) TotalElapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.previous + e.currentLocked()
}

func (e *Engine) currentLocked() time.Duration {
	if e.state != Running {
		return 0
	}
	if d := e.now().Sub(e.startTime); d > e.current {
		e.current = d
	}
	return e.current
}

func (e *Engine) startTickerLocked() {
	if e.onTick == nil || e.ticker != nil {
		return
	}
	t := &ticker{done: make(chan struct{}), exited: make(chan struct{})}
	e.ticker = t
	go e.runTicker(t, e.tickEvery, e.onTick)
}

func (e *Engine) runTicker(t *ticker, every time.Duration, fn func(time.Duration)) {
	defer close(t.exited)
	tk := time.NewTicker(every)
	defer tk.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-tk.C:
		}
		e.mu.Lock()
		select {
		case <-t.done:
			e.mu.Unlock()
			return
		default:
		}
		total := e.previous + e.currentLocked()
		e.mu.Unlock()
		fn(total)
	}
}

func (e *Engine) releaseTickerLocked() *ticker {
	t := e.ticker
	if t == nil {
		return nil
	}
	e.ticker = nil
	close(t.done)
	return t
}

// wait blocks until the ticker goroutine has exited. Safe on nil.
func (t *ticker) wait() {
	if t == nil {
		return
	}
	<-t.exited
}
