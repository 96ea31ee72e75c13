package store

import (
	"github.com/google/uuid"

	"github.com/z2hue/bridge/internal/model"
)

// TryUpdate applies fn to the typed view of resource id and, on success,
// synthesizes and broadcasts the derived Update event for it. The whole
// operation (lookup, mutation, delta synthesis, broadcast) runs under the
// store's single lock, so every successful mutation produces at most one
// event and subscribers see a total order consistent with applied
// mutations.
func TryUpdate[T model.Variant](s *Store, id uuid.UUID, fn func(*T) error) error {
	s.mu.Lock()

	obj, ok := s.res[id]
	if !ok {
		s.mu.Unlock()
		return model.NotFound(id)
	}
	typed, err := model.As[T](obj)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if err := fn(&typed); err != nil {
		s.mu.Unlock()
		return err
	}

	updated := model.Of(typed)
	s.res[id] = updated

	delta, err := generateUpdate(updated)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if delta != nil {
		s.bus.Publish(model.NewUpdateEvent(id, *delta))
	}
	s.mu.Unlock()
	return nil
}

// Update is TryUpdate for mutations that cannot themselves fail.
func Update[T model.Variant](s *Store, id uuid.UUID, fn func(*T)) error {
	return TryUpdate[T](s, id, func(v *T) error {
		fn(v)
		return nil
	})
}

// generateUpdate synthesizes the derived delta event for a post-mutation
// resource, per §4.1:
//   - Light: brightness, on, and the color branch selected by color_mode.
//   - GroupedLight: brightness and on.
//   - Scene: a recall action derived from status.active.
//   - Room: no event.
//   - anything else: UpdateUnsupported.
func generateUpdate(obj model.Resource) (*model.Update, error) {
	switch v := obj.Data.(type) {
	case model.Light:
		brightness := v.Dimming.Brightness
		upd := model.LightUpdate{
			On:      &model.On{On: v.On.On},
			Dimming: &model.DimmingUpdate{Brightness: &brightness},
		}
		switch v.ColorMode {
		case model.ColorModeColorTemp:
			if v.ColorTemperature != nil {
				mirek := v.ColorTemperature.Mirek
				upd.ColorTemperature = &model.ColorTemperatureUpdate{Mirek: &mirek}
			}
		case model.ColorModeXY:
			if v.Color != nil {
				xy := v.Color.XY
				upd.Color = &model.ColorUpdate{XY: &xy}
			}
		}
		return &model.Update{Light: &upd}, nil

	case model.GroupedLight:
		brightness := v.Dimming.Brightness
		upd := model.GroupedLightUpdate{
			On:      &model.On{On: v.On.On},
			Dimming: &model.DimmingUpdate{Brightness: &brightness},
		}
		return &model.Update{GroupedLight: &upd}, nil

	case model.Scene:
		upd := model.SceneUpdate{}.WithRecallAction(v.Status)
		return &model.Update{Scene: &upd}, nil

	case model.Room:
		return nil, nil

	default:
		return nil, model.UpdateUnsupported(obj.Type())
	}
}
