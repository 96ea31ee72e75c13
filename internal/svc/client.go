package svc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/z2hue/bridge/internal/model"
)

// Client is a cloneable handle for talking to a running Manager. Every
// method suspends until the Manager's own goroutine has processed the
// request and replied.
type Client struct {
	control chan<- request
}

// Register adds a new service under name, starting its goroutine
// immediately in the Registered state; it will not begin real work until
// Start is called. Fails with a ServiceAlreadyExists error if name is taken.
func (c *Client) Register(ctx context.Context, name string, fn ServiceFunc) (uuid.UUID, error) {
	reply := make(chan registerReply, 1)
	req := &registerRequest{name: name, fn: fn, reply: reply}
	if err := c.send(ctx, req); err != nil {
		return uuid.UUID{}, err
	}
	select {
	case r := <-reply:
		return r.id, r.err
	case <-ctx.Done():
		return uuid.UUID{}, ctx.Err()
	}
}

// Start requests the service transition to Running.
func (c *Client) Start(ctx context.Context, h Handle) error {
	reply := make(chan error, 1)
	req := &startRequest{handle: h, reply: reply}
	if err := c.send(ctx, req); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop requests the service transition to Stopped. Idempotent: a no-op if
// already Stopped.
func (c *Client) Stop(ctx context.Context, h Handle) error {
	reply := make(chan error, 1)
	req := &stopRequest{handle: h, reply: reply}
	if err := c.send(ctx, req); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the last observed state of the service.
func (c *Client) Status(ctx context.Context, h Handle) (ServiceState, error) {
	reply := make(chan statusReply, 1)
	req := &statusRequest{handle: h, reply: reply}
	if err := c.send(ctx, req); err != nil {
		return 0, err
	}
	select {
	case r := <-reply:
		return r.state, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// List returns every registered service's id and name.
func (c *Client) List(ctx context.Context) ([]ListEntry, error) {
	reply := make(chan []ListEntry, 1)
	req := &listRequest{reply: reply}
	if err := c.send(ctx, req); err != nil {
		return nil, err
	}
	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops every registered service, waiting up to ShutdownTimeout in
// total for them to report Stopped before forcing an abort, then terminates
// the Manager's main loop.
func (c *Client) Shutdown(ctx context.Context) error {
	reply := make(chan struct{}, 1)
	req := &shutdownRequest{reply: reply}
	if err := c.send(ctx, req); err != nil {
		return err
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) send(ctx context.Context, req request) error {
	select {
	case c.control <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollInterval bounds how often WaitForState/WaitForMultiple re-check state
// against Status, since (unlike the Manager's own goroutine) a Client has no
// direct access to the event stream.
const pollInterval = 10 * time.Millisecond

// WaitForState polls h's status until it reaches expected, returning
// ServiceFailed immediately if the service reports Failed first.
func WaitForState(ctx context.Context, c *Client, h Handle, expected ServiceState) error {
	for {
		state, err := c.Status(ctx, h)
		if err != nil {
			return err
		}
		if state == expected {
			return nil
		}
		if state == Failed {
			return model.ServiceFailed()
		}
		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WaitForMultiple polls every handle in hs until each has reached target,
// returning ServiceFailed as soon as any reports Failed.
func WaitForMultiple(ctx context.Context, c *Client, hs []Handle, target ServiceState) error {
	remaining := append([]Handle(nil), hs...)
	for len(remaining) > 0 {
		next := remaining[:0]
		for _, h := range remaining {
			state, err := c.Status(ctx, h)
			if err != nil {
				return err
			}
			if state == Failed {
				return model.ServiceFailed()
			}
			if state != target {
				next = append(next, h)
			}
		}
		remaining = next
		if len(remaining) == 0 {
			break
		}
		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
