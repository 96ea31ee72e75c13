package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/z2hue/bridge/internal/model"
)

func TestHandleGetOneReturnsEncodedRecord(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/clip/v2/resource/light/"+f.lightID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}

	var reply V2Reply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if len(reply.Data) != 1 {
		t.Fatalf("data len = %d, want 1", len(reply.Data))
	}

	var fields map[string]any
	if err := json.Unmarshal(reply.Data[0], &fields); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if fields["id"] != f.lightID.String() {
		t.Errorf("id = %v, want %s", fields["id"], f.lightID)
	}
	if fields["type"] != "light" {
		t.Errorf("type = %v, want light", fields["type"])
	}
}

func TestHandleGetOneUnknownIDNotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/clip/v2/resource/light/"+model.NewID().String(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPutLightScalesBrightnessAndForwardsToZ2M(t *testing.T) {
	f := newFixture(t)

	body := `{"on":{"on":true},"dimming":{"brightness":50}}`
	rec := f.do(http.MethodPut, "/clip/v2/resource/light/"+f.lightID.String(), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}

	l, err := getLight(f, f.lightID)
	if err != nil {
		t.Fatalf("getLight: %v", err)
	}
	if !l.On.On {
		t.Error("light not turned on")
	}
	if l.Dimming.Brightness != 50 {
		t.Errorf("brightness = %v, want 50", l.Dimming.Brightness)
	}

	call, ok := f.pub.last()
	if !ok {
		t.Fatal("expected a z2m publish call")
	}
	if call.Topic != "zigbee2mqtt/Lamp" {
		t.Errorf("topic = %q, want zigbee2mqtt/Lamp", call.Topic)
	}
	if call.Update.Brightness == nil || *call.Update.Brightness != 50*254.0/100.0 {
		t.Errorf("forwarded brightness = %v, want %v", call.Update.Brightness, 50*254.0/100.0)
	}
	if call.Update.On == nil || !call.Update.On.On {
		t.Error("forwarded on = false, want true")
	}
}

func TestPutNonWritableResourceTypeRejected(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPut, "/clip/v2/resource/room/"+f.roomID.String(), `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPutGroupedLightFansOutToMemberLights(t *testing.T) {
	f := newFixture(t)

	body := `{"on":{"on":true},"dimming":{"brightness":75}}`
	rec := f.do(http.MethodPut, "/clip/v2/resource/grouped_light/"+f.glID.String(), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}

	l, err := getLight(f, f.lightID)
	if err != nil {
		t.Fatalf("getLight: %v", err)
	}
	if !l.On.On || l.Dimming.Brightness != 75 {
		t.Errorf("light = %+v, want on=true brightness=75", l)
	}

	call, ok := f.pub.last()
	if !ok {
		t.Fatal("expected a z2m publish call from fan-out")
	}
	if call.Topic != "zigbee2mqtt/Lamp" {
		t.Errorf("topic = %q, want zigbee2mqtt/Lamp", call.Topic)
	}
}

func getLight(f *fixture, id uuid.UUID) (model.Light, error) {
	rec, err := f.store.GetResource(model.RTLight, id)
	if err != nil {
		return model.Light{}, err
	}
	return model.As[model.Light](rec.Obj)
}
