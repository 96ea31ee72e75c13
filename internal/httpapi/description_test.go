package httpapi

import (
	"net/http"
	"strings"
	"testing"
)

func TestHandleDescriptionServesUPnPDocument(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/description.xml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("content-type = %q, want application/xml", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "001788fffeaabbcc") {
		t.Errorf("description missing bridge id, body=%q", body)
	}
	if !strings.Contains(body, "BSB002") {
		t.Errorf("description missing model id, body=%q", body)
	}
}
