package app

import (
	"context"
	"sync"
	"time"
)

// DefaultPerQuestion is the time allowance granted per question.
const DefaultPerQuestion = 30 * time.Second

// warningDivisor puts the warning threshold at 20% of the total budget.
const warningDivisor = 5

// TickerFunc starts a ticker and returns its channel and a stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func defaultTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// TimerTick is the observable state after a tick.
type TimerTick struct {
	Remaining int
	Warning   bool
	Expired   bool
}

// Timer counts a quiz budget down in whole seconds and fires onExpire exactly once.
type Timer struct {
	mu        sync.Mutex
	total     int
	remaining int
	expired   bool
	stopped   bool
	stopOnce  sync.Once
	done      chan struct{}
	newTicker TickerFunc

	onTick   func(TimerTick)
	onExpire func()
}

// NewTimer creates a stopped-until-Run countdown of total, truncated to whole seconds.
// Either callback may be nil; callbacks run without the timer lock held.
func NewTimer(total time.Duration, onTick func(TimerTick), onExpire func(), newTicker TickerFunc) *Timer {
	if newTicker == nil {
		newTicker = defaultTicker
	}
	secs := int(total / time.Second)
	if secs < 0 {
		secs = 0
	}
	return &Timer{
		total:     secs,
		remaining: secs,
		done:      make(chan struct{}),
		newTicker: newTicker,
		onTick:    onTick,
		onExpire:  onExpire,
	}
}

// Total returns the budget in seconds.
func (t *Timer) Total() int { return t.total }

// Remaining returns the seconds left.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Warning reports whether remaining time is at or below 20% of the budget.
func (t *Timer) Warning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.warningLocked()
}

func (t *Timer) warningLocked() bool {
	return t.remaining*warningDivisor <= t.total
}

// Tick advances the countdown by one second. It returns false once the timer has
// expired or been stopped; such ticks have no effect.
func (t *Timer) Tick() (TimerTick, bool) {
	t.mu.Lock()
	if t.stopped || t.expired {
		t.mu.Unlock()
		return TimerTick{}, false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	tick := TimerTick{Remaining: t.remaining, Warning: t.warningLocked()}
	if t.remaining == 0 {
		t.expired = true
		tick.Expired = true
	}
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(tick)
	}
	if tick.Expired {
		t.stop()
		if t.onExpire != nil {
			t.onExpire()
		}
	}
	return tick, true
}

// Stop cancels the countdown. Later ticks are ignored and expiry never fires.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.stop()
}

func (t *Timer) stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

// Run drives Tick once per second until expiry, Stop, or ctx cancellation.
func (t *Timer) Run(ctx context.Context) {
	c, stop := t.newTicker(time.Second)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case <-c:
			if _, ok := t.Tick(); !ok {
				return
			}
		}
	}
}
