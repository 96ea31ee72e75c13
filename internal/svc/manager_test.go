package svc

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T) (*Manager, *Client, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := New(ctx)
	go func() {
		if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			t.Logf("manager exited: %v", err)
		}
	}()
	return m, m.Client(), ctx
}

func noopRun(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestRegisterDuplicateNameFails(t *testing.T) {
	_, c, ctx := newTestManager(t)

	if _, err := c.Register(ctx, "http", StandardService("http", noopRun, NoRetry())); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := c.Register(ctx, "http", StandardService("http", noopRun, NoRetry())); err == nil {
		t.Fatal("expected ServiceAlreadyExists on duplicate name")
	}
}

func TestStartThenStatusRunning(t *testing.T) {
	_, c, ctx := newTestManager(t)

	id, err := c.Register(ctx, "z2m", StandardService("z2m", noopRun, NoRetry()))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Start(ctx, ByID(id)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := WaitForState(ctx, c, ByID(id), Running); err != nil {
		t.Fatalf("wait for running: %v", err)
	}
	state, err := c.Status(ctx, ByID(id))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if state != Running {
		t.Errorf("status = %s, want running", state)
	}
}

func TestWaitForMultipleReturnsOnAllRunning(t *testing.T) {
	_, c, ctx := newTestManager(t)

	a, _ := c.Register(ctx, "a", StandardService("a", noopRun, NoRetry()))
	b, _ := c.Register(ctx, "b", StandardService("b", noopRun, NoRetry()))
	c.Start(ctx, ByID(a))
	c.Start(ctx, ByID(b))

	if err := WaitForMultiple(ctx, c, []Handle{ByID(a), ByID(b)}, Running); err != nil {
		t.Fatalf("wait for multiple: %v", err)
	}
}

func TestWaitForMultipleShortCircuitsOnFailed(t *testing.T) {
	_, c, ctx := newTestManager(t)

	failing := func(ctx context.Context) error { return errors.New("boom") }
	a, _ := c.Register(ctx, "a", StandardService("a", noopRun, NoRetry()))
	b, _ := c.Register(ctx, "b", StandardService("b", failing, NoRetry()))
	c.Start(ctx, ByID(a))
	c.Start(ctx, ByID(b))

	err := WaitForMultiple(ctx, c, []Handle{ByID(a), ByID(b)}, Running)
	if err == nil {
		t.Fatal("expected ServiceFailed")
	}
}

func TestShutdownStopsCooperatingServices(t *testing.T) {
	_, c, ctx := newTestManager(t)

	a, _ := c.Register(ctx, "a", StandardService("a", noopRun, NoRetry()))
	b, _ := c.Register(ctx, "b", StandardService("b", noopRun, NoRetry()))
	c.Start(ctx, ByID(a))
	c.Start(ctx, ByID(b))
	if err := WaitForMultiple(ctx, c, []Handle{ByID(a), ByID(b)}, Running); err != nil {
		t.Fatalf("wait running: %v", err)
	}

	start := time.Now()
	if err := c.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if elapsed := time.Since(start); elapsed > ShutdownTimeout {
		t.Errorf("shutdown took %s, want under %s", elapsed, ShutdownTimeout)
	}
}

func TestShutdownAbortsHungService(t *testing.T) {
	_, c, ctx := newTestManager(t)

	cooperative := func(ctx context.Context) error { <-ctx.Done(); return nil }
	hung := func(ctx context.Context) error {
		select {} // never returns, never observes ctx
	}

	a, _ := c.Register(ctx, "a", StandardService("a", cooperative, NoRetry()))
	b, _ := c.Register(ctx, "b", StandardService("b", cooperative, NoRetry()))
	h, _ := c.Register(ctx, "hung", StandardService("hung", hung, NoRetry()))
	c.Start(ctx, ByID(a))
	c.Start(ctx, ByID(b))
	c.Start(ctx, ByID(h))
	if err := WaitForMultiple(ctx, c, []Handle{ByID(a), ByID(b), ByID(h)}, Running); err != nil {
		t.Fatalf("wait running: %v", err)
	}

	start := time.Now()
	if err := c.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < ShutdownTimeout {
		t.Errorf("shutdown returned after %s, want at least %s (waiting out the hung service)", elapsed, ShutdownTimeout)
	}
	if elapsed > ShutdownTimeout+time.Second {
		t.Errorf("shutdown took %s, want close to %s", elapsed, ShutdownTimeout)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, e := range list {
		if e.Name == "hung" {
			t.Error("hung service should have been removed from the registry on abort")
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	_, c, ctx := newTestManager(t)

	id, _ := c.Register(ctx, "a", StandardService("a", noopRun, NoRetry()))
	c.Start(ctx, ByID(id))
	if err := WaitForState(ctx, c, ByID(id), Running); err != nil {
		t.Fatalf("wait running: %v", err)
	}
	if err := c.Stop(ctx, ByID(id)); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	if err := WaitForState(ctx, c, ByID(id), Stopped); err != nil {
		t.Fatalf("wait stopped: %v", err)
	}
	if err := c.Stop(ctx, ByID(id)); err != nil {
		t.Fatalf("second stop should be a no-op, got: %v", err)
	}
}

func TestStatusUnknownServiceNotFound(t *testing.T) {
	_, c, ctx := newTestManager(t)
	if _, err := c.Status(ctx, ByName("nope")); err == nil {
		t.Error("expected ServiceNotFound for an unregistered name")
	}
}

func TestRetryPolicyExhaustionFails(t *testing.T) {
	_, c, ctx := newTestManager(t)

	alwaysFails := func(ctx context.Context) error { return errors.New("nope") }
	id, _ := c.Register(ctx, "flaky", StandardService("flaky", alwaysFails, LimitRetry(2, time.Millisecond)))
	c.Start(ctx, ByID(id))

	if err := WaitForState(ctx, c, ByID(id), Failed); err != nil {
		t.Fatalf("wait for failed: %v", err)
	}
}
