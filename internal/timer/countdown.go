package timer

import (
	"sync"
	"time"
)

// Countdown counts down a fixed number of ticks and fires a callback
// when time runs out. It drives the per-question timer: the owner of
// the active question starts one and MUST stop it before starting a
// replacement (question change, session end), so a stale countdown can
// never advance a session it no longer belongs to.
//
// After Stop returns, neither callback will fire again.
type Countdown struct {
	interval time.Duration
	seconds  int
	onTick   func(remaining int)
	onExpire func()

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a countdown of the given number of seconds. interval is
// the tick cadence (one second in production; tests shorten it).
// onTick may be nil; onExpire fires once when the countdown reaches
// zero without being stopped.
func New(seconds int, interval time.Duration, onTick func(remaining int), onExpire func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		interval: interval,
		seconds:  seconds,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the countdown goroutine. Call at most once.
func (c *Countdown) Start() {
	go c.run()
}

func (c *Countdown) run() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	remaining := c.seconds
	for remaining > 0 {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			remaining--
			if c.onTick != nil {
				c.onTick(remaining)
			}
		}
	}

	// Expiry races with Stop: a countdown stopped exactly at zero must
	// still not fire.
	select {
	case <-c.stop:
		return
	default:
	}
	if c.onExpire != nil {
		c.onExpire()
	}
}

// Stop cancels the countdown and waits for its goroutine to exit.
// Idempotent and safe to call on a countdown that already expired.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}
