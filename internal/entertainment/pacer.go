package entertainment

import (
	"context"

	"golang.org/x/time/rate"
)

// FrameRate is the cadence Hue Entertainment streams run at.
const FrameRate = 20 // Hz

// Pacer throttles a stream of outbound Frame calls to FrameRate, so a
// renderer pushing updates faster than the protocol allows is smoothed out
// rather than flooding the Zigbee radio.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer builds a pacer ticking at FrameRate with a one-frame burst
// allowance.
func NewPacer() *Pacer {
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(FrameRate), 1)}
}

// Wait blocks until the next frame slot is available or ctx is canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
