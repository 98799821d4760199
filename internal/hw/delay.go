package hw

import "time"

// Delayer pauses execution. Delays are uninterruptible and have no side
// effects beyond consuming time.
type Delayer interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a function to Delayer.
type DelayFunc func(d time.Duration)

// Delay calls f(d).
func (f DelayFunc) Delay(d time.Duration) { f(d) }

// NoDelay returns immediately.
type NoDelay struct{}

// Delay implements Delayer.
func (NoDelay) Delay(time.Duration) {}

// Sleep delays with time.Sleep. Hosted machines use it.
type Sleep struct{}

// Delay implements Delayer.
func (Sleep) Delay(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// Spin burns a calibrated number of loop iterations per millisecond.
// It is the only option on bare metal before a timer is programmed.
type Spin struct {
	// IterationsPerMillisecond defaults to 1000 when zero.
	IterationsPerMillisecond int
}

var spinSink int

// Delay implements Delayer.
func (s Spin) Delay(d time.Duration) {
	per := s.IterationsPerMillisecond
	if per <= 0 {
		per = 1000
	}
	n := int(d.Milliseconds()) * per
	x := 0
	for i := 0; i < n; i++ {
		x += i
	}
	spinSink = x
}
