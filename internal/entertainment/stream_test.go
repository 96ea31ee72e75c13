package entertainment

import (
	"bytes"
	"testing"

	"github.com/z2hue/bridge/internal/model"
)

func TestFrameCounterMonotonic(t *testing.T) {
	s := New(0)
	for i := 0; i < 5; i++ {
		s.Frame(nil)
	}
	if s.Counter() != 5 {
		t.Errorf("counter = %d, want 5", s.Counter())
	}
}

func TestResetAndSegmentMappingDoNotAdvanceCounter(t *testing.T) {
	s := New(3)
	s.Reset()
	s.SegmentMapping([]uint16{1, 2, 3})
	if s.Counter() != 3 {
		t.Errorf("counter = %d, want 3 (unaffected by reset/segment-map)", s.Counter())
	}
}

func TestFirstFrameBytes(t *testing.T) {
	s := New(0)
	msg := s.Frame(nil)
	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x04}
	if !bytes.Equal(msg.Data, want) {
		t.Errorf("first frame data = % x, want % x", msg.Data, want)
	}
	if s.Counter() != 1 {
		t.Errorf("counter after first frame = %d, want 1", s.Counter())
	}

	reset := s.Reset()
	wantReset := []byte{0x00, 0x01, 0x01, 0x00, 0x00, 0x00}
	if !bytes.Equal(reset.Data, wantReset) {
		t.Errorf("reset data = % x, want % x", reset.Data, wantReset)
	}
}

func TestFrameMessageShape(t *testing.T) {
	s := New(0)
	msg := s.Frame([]LightRecord{{Addr: 1, Brightness: 0xFFFF, XY: model.XY{X: 0.5, Y: 0.5}}})
	if msg.Cluster != Cluster {
		t.Errorf("cluster = %#x, want %#x", msg.Cluster, Cluster)
	}
	if msg.Command != CmdFrame {
		t.Errorf("command = %d, want %d", msg.Command, CmdFrame)
	}
	if !msg.DDR {
		t.Error("expected default response disabled (DDR=true)")
	}
	if len(msg.Data) != 6+7 {
		t.Fatalf("data length = %d, want 13", len(msg.Data))
	}
}

func TestHueEntStartRoundTrip(t *testing.T) {
	members := []uint16{0x0001, 0x0002, 0x00AB}
	data := make([]byte, 2+2*len(members))
	data[0] = 0x00
	data[1] = byte(len(members))
	for i, m := range members {
		data[2+2*i] = byte(m)
		data[3+2*i] = byte(m >> 8)
	}

	got, err := ParseHueEntStart(data)
	if err != nil {
		t.Fatalf("ParseHueEntStart: %v", err)
	}
	if int(got.Count) != len(members) {
		t.Errorf("count = %d, want %d", got.Count, len(members))
	}
	for i, m := range members {
		if got.Members[i] != m {
			t.Errorf("member %d = %#x, want %#x", i, got.Members[i], m)
		}
	}
}

func TestHueEntStartLengthMismatch(t *testing.T) {
	data := []byte{0x00, 0x02, 0x01, 0x00} // count says 2 members, only 1 present
	if _, err := ParseHueEntStart(data); err == nil {
		t.Error("expected a length-mismatch error")
	}
}

func TestHueEntFrameParse(t *testing.T) {
	s := New(7)
	msg := s.Frame([]LightRecord{
		{Addr: 0x0042, Brightness: 0xABCD, XY: model.XY{X: 0.4, Y: 0.41}},
	})

	got, err := ParseHueEntFrame(msg.Data)
	if err != nil {
		t.Fatalf("ParseHueEntFrame: %v", err)
	}
	if got.Counter != 7 {
		t.Errorf("counter = %d, want 7", got.Counter)
	}
	if len(got.Lights) != 1 {
		t.Fatalf("lights = %d, want 1", len(got.Lights))
	}
	if got.Lights[0].Addr != 0x0042 {
		t.Errorf("addr = %#x, want 0x42", got.Lights[0].Addr)
	}
	if got.Lights[0].Brightness != 0xABCD {
		t.Errorf("brightness = %#x, want 0xABCD", got.Lights[0].Brightness)
	}
}
