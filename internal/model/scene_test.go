package model

import "testing"

func TestSceneMetadataSubtractAddAssignRoundTrip(t *testing.T) {
	appA := "appdata-a"
	appB := "appdata-b"
	imgA := NewLink(RTPublicImage)
	imgB := NewLink(RTPublicImage)

	cases := []struct {
		name string
		a, b SceneMetadata
		want SceneMetadata
	}{
		{"all fields differ", SceneMetadata{Name: "A", AppData: &appA, Image: &imgA}, SceneMetadata{Name: "B", AppData: &appB, Image: &imgB}, SceneMetadata{Name: "B", AppData: &appB, Image: &imgB}},
		{"identical", SceneMetadata{Name: "Same", AppData: &appA, Image: &imgA}, SceneMetadata{Name: "Same", AppData: &appA, Image: &imgA}, SceneMetadata{Name: "Same", AppData: &appA, Image: &imgA}},
		// An update cannot express clearing an optional field, so a's values stay.
		{"b clears optional fields", SceneMetadata{Name: "A", AppData: &appA, Image: &imgA}, SceneMetadata{Name: "A"}, SceneMetadata{Name: "A", AppData: &appA, Image: &imgA}},
		{"only name differs", SceneMetadata{Name: "A"}, SceneMetadata{Name: "B"}, SceneMetadata{Name: "B"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			upd := c.a.Subtract(c.b)
			got := c.a
			got.AddAssign(upd)

			if got.Name != c.want.Name {
				t.Errorf("Name = %q, want %q", got.Name, c.want.Name)
			}
			if !stringPtrEqual(got.AppData, c.want.AppData) {
				t.Errorf("AppData = %v, want %v", got.AppData, c.want.AppData)
			}
			if !linkPtrEqual(got.Image, c.want.Image) {
				t.Errorf("Image = %v, want %v", got.Image, c.want.Image)
			}
		})
	}
}

func TestSceneMetadataSubtractOmitsUnchangedFields(t *testing.T) {
	app := "same-appdata"
	a := SceneMetadata{Name: "Same", AppData: &app}
	b := SceneMetadata{Name: "Same", AppData: &app}

	upd := a.Subtract(b)
	if upd.Name != nil {
		t.Errorf("Name diff = %v, want nil (unchanged)", upd.Name)
	}
	if upd.AppData != nil {
		t.Errorf("AppData diff = %v, want nil (unchanged)", upd.AppData)
	}
}

func TestSceneUpdateWithRecallAction(t *testing.T) {
	tests := []struct {
		status *SceneStatus
		want   *SceneStatusUpdate
	}{
		{nil, nil},
		{&SceneStatus{Active: SceneInactive}, nil},
		{&SceneStatus{Active: SceneStatic}, ptr(SceneRecallActive)},
		{&SceneStatus{Active: SceneDynamicPalette}, ptr(SceneRecallDynamicPalette)},
	}

	for _, tc := range tests {
		upd := SceneUpdate{}.WithRecallAction(tc.status)
		switch {
		case tc.want == nil && upd.Recall != nil:
			t.Errorf("status %+v: got recall %+v, want none", tc.status, upd.Recall)
		case tc.want != nil:
			if upd.Recall == nil || upd.Recall.Action == nil || *upd.Recall.Action != *tc.want {
				t.Errorf("status %+v: got recall %+v, want action %v", tc.status, upd.Recall, *tc.want)
			}
		}
	}
}

func ptr[T any](v T) *T { return &v }
