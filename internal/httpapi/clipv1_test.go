package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestHandleV1LightsListsByID(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/testkey/lights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var out map[string]v1Light
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	l, ok := out[f.lightID.String()]
	if !ok {
		t.Fatalf("light %s missing from listing", f.lightID)
	}
	if l.Name != "Lamp" {
		t.Errorf("name = %q, want Lamp", l.Name)
	}
	if l.State.ColorMode != "xy" {
		t.Errorf("colormode = %q, want xy", l.State.ColorMode)
	}
}

func TestHandleV1LightStateScalesBrightnessToDeviceRange(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/api/testkey/lights/"+f.lightID.String()+"/state", `{"on":true,"bri":127}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}

	var entries []V1Success
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	foundOn, foundBri := false, false
	prefix := "/lights/" + f.lightID.String() + "/state"
	for _, e := range entries {
		if v, ok := e.Success[prefix+"/on"]; ok {
			foundOn = true
			if v != true {
				t.Errorf("on = %v, want true", v)
			}
		}
		if _, ok := e.Success[prefix+"/bri"]; ok {
			foundBri = true
		}
	}
	if !foundOn || !foundBri {
		t.Errorf("entries = %+v, missing on/bri success keys", entries)
	}

	l, err := getLight(f, f.lightID)
	if err != nil {
		t.Fatalf("getLight: %v", err)
	}
	wantPct := 127.0 * 100.0 / 254.0
	if l.Dimming.Brightness != wantPct {
		t.Errorf("brightness = %v, want %v", l.Dimming.Brightness, wantPct)
	}

	call, ok := f.pub.last()
	if !ok {
		t.Fatal("expected a z2m publish call")
	}
	if call.Update.Brightness == nil || *call.Update.Brightness != 127 {
		t.Errorf("forwarded brightness = %v, want 127 (device-native range)", call.Update.Brightness)
	}
}

func TestHandleV1GroupActionFansOutAndReportsGroupPrefix(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/api/testkey/groups/"+f.roomID.String()+"/action", `{"on":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}

	var entries []V1Success
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	prefix := "/groups/" + f.roomID.String() + "/action"
	if len(entries) != 1 || entries[0].Success[prefix+"/on"] != true {
		t.Errorf("entries = %+v, want single %s/on=true", entries, prefix)
	}

	l, err := getLight(f, f.lightID)
	if err != nil {
		t.Fatalf("getLight: %v", err)
	}
	if !l.On.On {
		t.Error("member light was not turned on by group action")
	}
}

func TestHandleV1ConfigReportsBridgeIdentity(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/testkey/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var cfg v1Config
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.BridgeID != "001788fffeaabbcc" {
		t.Errorf("bridgeid = %q, want 001788fffeaabbcc", cfg.BridgeID)
	}
	if cfg.ModelID != "BSB002" {
		t.Errorf("modelid = %q, want BSB002", cfg.ModelID)
	}
	if cfg.APIVersion != "1.68.0" {
		t.Errorf("apiversion = %q, want 1.68.0", cfg.APIVersion)
	}
}
