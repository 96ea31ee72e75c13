package httpapi

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/z2hue/bridge/internal/model"
	"github.com/z2hue/bridge/internal/store"
)

type fakePublisher struct {
	mu    sync.Mutex
	calls []publishCall
}

type publishCall struct {
	Topic  string
	Update model.DeviceUpdate
}

func (f *fakePublisher) PublishDeviceUpdate(topic string, update model.DeviceUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, publishCall{Topic: topic, Update: update})
	return nil
}

func (f *fakePublisher) last() (publishCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return publishCall{}, false
	}
	return f.calls[len(f.calls)-1], true
}

// fixture wires one Room containing one Device/Light pair plus the room's
// GroupedLight, with a z2m topic recorded in the light's AuxData.
type fixture struct {
	store   *store.Store
	server  *Server
	pub     *fakePublisher
	lightID uuid.UUID
	roomID  uuid.UUID
	glID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.New(nil)
	if err := s.Init("001788fffeaabbcc"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	lightID := model.NewID()
	deviceID := model.NewID()
	roomID := model.NewID()
	glID := model.NewID()

	lightLink := model.ResourceLink{RType: model.RTLight, RID: lightID}
	deviceLink := model.ResourceLink{RType: model.RTDevice, RID: deviceID}
	glLink := model.ResourceLink{RType: model.RTGroupedLight, RID: glID}

	if err := s.Add(deviceLink, model.Of(model.Device{
		Metadata: model.Metadata{Name: "Lamp"},
		Services: []model.ResourceLink{lightLink},
	})); err != nil {
		t.Fatalf("add device: %v", err)
	}
	if err := s.Add(lightLink, model.Of(model.Light{
		Owner:    deviceLink,
		Metadata: model.Metadata{Name: "Lamp"},
		On:       model.On{On: false},
		Dimming:  model.Dimming{Brightness: 0},
		ColorMode: model.ColorModeXY,
		Color:    &model.LightColor{XY: model.XY{X: 0.4, Y: 0.4}},
	})); err != nil {
		t.Fatalf("add light: %v", err)
	}
	s.AuxSet(lightLink, model.AuxData{}.WithTopic("zigbee2mqtt/Lamp"))

	if err := s.Add(model.ResourceLink{RType: model.RTRoom, RID: roomID}, model.Of(model.Room{
		Metadata: model.Metadata{Name: "Living room"},
		Children: []model.ResourceLink{deviceLink},
		Services: []model.ResourceLink{glLink},
	})); err != nil {
		t.Fatalf("add room: %v", err)
	}
	if err := s.Add(glLink, model.Of(model.GroupedLight{
		Owner: model.ResourceLink{RType: model.RTRoom, RID: roomID},
	})); err != nil {
		t.Fatalf("add grouped_light: %v", err)
	}

	pub := &fakePublisher{}
	srv := New("127.0.0.1", 0, s, pub, "001788fffeaabbcc")

	return &fixture{store: s, server: srv, pub: pub, lightID: lightID, roomID: roomID, glID: glID}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.server.router.ServeHTTP(rec, req)
	return rec
}
