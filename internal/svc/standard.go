package svc

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RunFunc is the simple body a StandardService wraps: do work until ctx is
// canceled, or return an error to trigger the retry policy.
type RunFunc func(ctx context.Context) error

// StandardService adapts a RunFunc into a ServiceFunc: it waits for a Start
// request, reports Starting/Running/Stopped/Failed as it goes, restarts the
// inner function on error according to policy, and stops cleanly as soon as
// a Stop request arrives.
func StandardService(name string, inner RunFunc, policy Policy) ServiceFunc {
	return func(ctx context.Context, id uuid.UUID, cmd <-chan ServiceState, events chan<- Event) {
		if !waitFor(ctx, cmd, Running) {
			return
		}

		var attempt uint32
		for {
			events <- Event{ID: id, State: Starting}
			events <- Event{ID: id, State: Running}

			runCtx, cancel := context.WithCancel(ctx)
			errCh := make(chan error, 1)
			go func() { errCh <- inner(runCtx) }()

			select {
			case <-ctx.Done():
				cancel()
				<-errCh
				return

			case target := <-cmd:
				cancel()
				<-errCh
				if target == Stopped {
					events <- Event{ID: id, State: Stopped}
					return
				}

			case err := <-errCh:
				cancel()
				if err == nil {
					events <- Event{ID: id, State: Stopped}
					return
				}
				log.Warn().Str("service", name).Err(err).Uint32("attempt", attempt).Msg("service exited with error")
				if !policy.ShouldRetry(attempt) {
					events <- Event{ID: id, State: Failed}
					return
				}
				attempt++
				if sleepErr := policy.Sleep(ctx); sleepErr != nil {
					events <- Event{ID: id, State: Stopped}
					return
				}
			}
		}
	}
}

// waitFor blocks until cmd delivers target, ctx is canceled (returns false),
// or the channel closes (returns false).
func waitFor(ctx context.Context, cmd <-chan ServiceState, target ServiceState) bool {
	for {
		select {
		case v, ok := <-cmd:
			if !ok {
				return false
			}
			if v == target {
				return true
			}
		case <-ctx.Done():
			return false
		}
	}
}
