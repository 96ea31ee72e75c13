package model

import (
	"encoding/json"
	"testing"
)

func TestResourceJSONRoundTrip(t *testing.T) {
	light := Light{
		Owner:     NewLink(RTDevice),
		Metadata:  Metadata{Name: "Lamp", Archetype: "sultan_bulb"},
		On:        On{On: true},
		Dimming:   Dimming{Brightness: 42},
		ColorMode: ColorModeXY,
		Color:     &LightColor{XY: XY{X: 0.31, Y: 0.32}},
	}
	res := Of(light)

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("Unmarshal probe: %v", err)
	}
	var tag string
	if err := json.Unmarshal(probe["type"], &tag); err != nil {
		t.Fatalf("Unmarshal type tag: %v", err)
	}
	if tag != string(RTLight) {
		t.Errorf("type tag = %q, want %q", tag, RTLight)
	}

	var out Resource
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	got, err := As[Light](out)
	if err != nil {
		t.Fatalf("As[Light]: %v", err)
	}
	if got.Metadata.Name != "Lamp" || got.Dimming.Brightness != 42 || !got.On.On {
		t.Errorf("round-tripped light = %+v", got)
	}
	if got.Color == nil || got.Color.XY.X != 0.31 {
		t.Errorf("round-tripped color = %+v", got.Color)
	}
}

func TestAsWrongType(t *testing.T) {
	res := Of(Room{Metadata: Metadata{Name: "Den"}})
	if _, err := As[Light](res); !Is(err, ErrWrongType) {
		t.Errorf("As[Light] on a Room = %v, want WrongType", err)
	}
}

func TestFromTagAndJSONUnknownType(t *testing.T) {
	if _, err := FromTagAndJSON(ResourceType("not_a_real_type"), []byte(`{}`)); err == nil {
		t.Error("expected an error for an unknown resource type")
	}
}

func TestDeterministicIDStable(t *testing.T) {
	a := DeterministicID(RTBridge, "001788fffeaabbcc")
	b := DeterministicID(RTBridge, "001788fffeaabbcc")
	if a != b {
		t.Errorf("DeterministicID not stable across calls: %s != %s", a, b)
	}

	c := DeterministicID(RTBridgeHome, "001788fffeaabbcc")
	if a == c {
		t.Error("DeterministicID collided across resource types sharing a seed")
	}
}
