// Package notify holds the single-slot status message shown after an
// asynchronous operation completes. At most one message is visible at a
// time; a newer message replaces the current one and restarts the
// countdown, it is never queued behind it.
package notify

import (
	"sync"
	"time"
)

type Kind int

const (
	Success Kind = iota
	Error
)

// DefaultTTL matches the toast timeout of the storefront UI.
const DefaultTTL = 3500 * time.Millisecond

type Message struct {
	Text string
	Kind Kind
}

type Channel struct {
	mu       sync.Mutex
	ttl      time.Duration
	current  *Message
	timer    *time.Timer
	onChange func(*Message)
}

func New(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{ttl: ttl}
}

// SetListener registers the observer told about every change, including
// the nil sent when a message expires or is dismissed.
func (c *Channel) SetListener(fn func(*Message)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Channel) Notify(text string, kind Kind) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	msg := &Message{Text: text, Kind: kind}
	c.current = msg
	c.timer = time.AfterFunc(c.ttl, func() {
		c.expire(msg)
	})
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
}

func (c *Channel) Successf(text string) { c.Notify(text, Success) }
func (c *Channel) Errorf(text string)  { c.Notify(text, Error) }

// Current returns the visible message, or nil.
func (c *Channel) Current() *Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Dismiss clears the message immediately and cancels the countdown.
func (c *Channel) Dismiss() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(nil)
	}
}

// expire clears the slot only if msg is still the visible message; a
// replacement issued after the timer fired but before we took the lock
// must win.
func (c *Channel) expire(msg *Message) {
	c.mu.Lock()
	if c.current != msg {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.timer = nil
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(nil)
	}
}
