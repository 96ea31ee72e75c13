package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/z2hue/bridge/internal/model"
)

func TestHandleEventStreamSendsGreetingAndAddEvents(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/eventstream/clip/v2", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		f.server.router.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)

	sceneID := model.NewID()
	if err := f.store.Add(model.ResourceLink{RType: model.RTScene, RID: sceneID}, model.Of(model.Scene{})); err != nil {
		t.Fatalf("add: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, ": hi") {
		t.Errorf("missing SSE greeting, body=%q", body)
	}
	if !strings.Contains(body, `"kind":"add"`) {
		t.Errorf("missing add event in stream, body=%q", body)
	}
	if !strings.Contains(body, sceneID.String()) {
		t.Errorf("stream missing added resource id, body=%q", body)
	}
}
