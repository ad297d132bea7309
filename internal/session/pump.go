package session

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// DefaultTicksPerSecond drives PollTick at the cadence the capture loop
// was designed for: nominally one tick per millisecond, with the bounded
// device read providing the real pacing.
const DefaultTicksPerSecond = 1000

// Pump cooperatively drives a session's PollTick from its own scheduling
// loop, decoupled from whatever front end started the recording. Each
// iteration performs exactly one bounded device read; no other blocking
// work runs on the pump.
type Pump struct {
	session *Session
	limiter *rate.Limiter
}

// NewPump creates a pump ticking at ticksPerSecond (DefaultTicksPerSecond
// when <= 0).
func NewPump(s *Session, ticksPerSecond int) *Pump {
	if ticksPerSecond <= 0 {
		ticksPerSecond = DefaultTicksPerSecond
	}
	return &Pump{
		session: s,
		limiter: rate.NewLimiter(rate.Limit(ticksPerSecond), 1),
	}
}

// Run polls until ctx is canceled or the session leaves Recording.
// Cancellation and a stopped session both return nil; a device failure is
// returned after the session has already torn itself down to Idle.
func (p *Pump) Run(ctx context.Context) error {
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil
		}
		switch err := p.session.PollTick(); {
		case err == nil:
		case errors.Is(err, ErrNotRecording):
			return nil
		default:
			return err
		}
	}
}
