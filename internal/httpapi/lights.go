package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/model"
	"github.com/z2hue/bridge/internal/store"
)

// putLight applies a LightUpdate to the store and, when the target device
// has a z2m topic on record, forwards a translated DeviceUpdate southbound.
func (s *Server) putLight(w http.ResponseWriter, id uuid.UUID, body []byte) {
	var upd model.LightUpdate
	if err := json.Unmarshal(body, &upd); err != nil {
		writeJSON(w, http.StatusBadRequest, v2Error("invalid light update body"))
		return
	}

	err := store.Update(s.store, id, func(l *model.Light) { applyLightUpdate(l, upd) })
	if err != nil {
		writeJSON(w, statusForError(err), v2Error(err.Error()))
		return
	}

	s.forwardToZ2M(model.ResourceLink{RType: model.RTLight, RID: id}, deviceUpdateFromLight(upd))

	writeJSON(w, http.StatusOK, v2Data(idOnlyRecord(id)))
}

// putGroupedLight applies a GroupedLightUpdate to the aggregate resource and
// fans the same delta out to every child Light of the Room that owns it, each
// forwarded southbound individually. A grouped light owned by anything other
// than a Room (a Zone, the bridge home) has only its aggregate updated.
func (s *Server) putGroupedLight(w http.ResponseWriter, id uuid.UUID, body []byte) {
	var upd model.GroupedLightUpdate
	if err := json.Unmarshal(body, &upd); err != nil {
		writeJSON(w, http.StatusBadRequest, v2Error("invalid grouped_light update body"))
		return
	}

	err := store.Update(s.store, id, func(g *model.GroupedLight) { applyGroupedLightUpdate(g, upd) })
	if err != nil {
		writeJSON(w, statusForError(err), v2Error(err.Error()))
		return
	}

	for _, childID := range s.groupMemberLights(id) {
		lightUpd := model.LightUpdate{On: upd.On, Dimming: upd.Dimming}
		if uerr := store.Update(s.store, childID, func(l *model.Light) { applyLightUpdate(l, lightUpd) }); uerr != nil {
			log.Warn().Err(uerr).Str("light", childID.String()).Msg("grouped_light fan-out failed for member light")
			continue
		}
		s.forwardToZ2M(model.ResourceLink{RType: model.RTLight, RID: childID}, deviceUpdateFromLight(lightUpd))
	}

	writeJSON(w, http.StatusOK, v2Data(idOnlyRecord(id)))
}

// groupMemberLights finds the owning Room's child Device links and returns
// the Light resource each exposes, by walking Device.Services.
func (s *Server) groupMemberLights(groupedLightID uuid.UUID) []uuid.UUID {
	rec, err := s.store.GetResource(model.RTGroupedLight, groupedLightID)
	if err != nil {
		return nil
	}
	gl, err := model.As[model.GroupedLight](rec.Obj)
	if err != nil {
		return nil
	}

	room, err := s.store.GetResource(model.RTRoom, gl.Owner.RID)
	if err != nil {
		return nil
	}
	roomVal, err := model.As[model.Room](room.Obj)
	if err != nil {
		return nil
	}
	return s.roomMemberLights(roomVal)
}

// roomMemberLights walks a Room's child Device links and returns the Light
// resource each exposes, via Device.Services.
func (s *Server) roomMemberLights(room model.Room) []uuid.UUID {
	var lights []uuid.UUID
	for _, child := range room.Children {
		if child.RType != model.RTDevice {
			continue
		}
		dev, err := s.store.GetResource(model.RTDevice, child.RID)
		if err != nil {
			continue
		}
		devVal, err := model.As[model.Device](dev.Obj)
		if err != nil {
			continue
		}
		for _, svc := range devVal.Services {
			if svc.RType == model.RTLight {
				lights = append(lights, svc.RID)
			}
		}
	}
	return lights
}

func (s *Server) forwardToZ2M(link model.ResourceLink, upd model.DeviceUpdate) {
	if s.publisher == nil {
		return
	}
	aux, err := s.store.AuxGet(link)
	if err != nil || aux.Topic == nil {
		return
	}
	if err := s.publisher.PublishDeviceUpdate(*aux.Topic, upd); err != nil {
		log.Error().Err(err).Str("topic", *aux.Topic).Msg("failed to publish device update to z2m")
	}
}

func applyLightUpdate(l *model.Light, upd model.LightUpdate) {
	if upd.On != nil {
		l.On = *upd.On
	}
	if upd.Dimming != nil && upd.Dimming.Brightness != nil {
		l.Dimming.Brightness = *upd.Dimming.Brightness
	}
	if upd.ColorTemperature != nil && upd.ColorTemperature.Mirek != nil {
		if l.ColorTemperature == nil {
			l.ColorTemperature = &model.ColorTemperature{}
		}
		l.ColorTemperature.Mirek = *upd.ColorTemperature.Mirek
		l.ColorTemperature.MirekValid = true
		l.ColorMode = model.ColorModeColorTemp
	}
	if upd.Color != nil && upd.Color.XY != nil {
		if l.Color == nil {
			l.Color = &model.LightColor{}
		}
		l.Color.XY = *upd.Color.XY
		l.ColorMode = model.ColorModeXY
	}
}

func applyGroupedLightUpdate(g *model.GroupedLight, upd model.GroupedLightUpdate) {
	if upd.On != nil {
		g.On = *upd.On
	}
	if upd.Dimming != nil && upd.Dimming.Brightness != nil {
		g.Dimming.Brightness = *upd.Dimming.Brightness
	}
}

// deviceUpdateFromLight translates the PUT-able subset of Light into the
// southbound DeviceUpdate z2m expects, scaling brightness from CLIP's
// [0, 100] percentage to z2m's [0, 254] device range.
func deviceUpdateFromLight(upd model.LightUpdate) model.DeviceUpdate {
	var out model.DeviceUpdate
	if upd.On != nil {
		out.On = upd.On
	}
	if upd.Dimming != nil && upd.Dimming.Brightness != nil {
		scaled := *upd.Dimming.Brightness * 254.0 / 100.0
		out.Brightness = &scaled
	}
	if upd.ColorTemperature != nil && upd.ColorTemperature.Mirek != nil {
		mirek := *upd.ColorTemperature.Mirek
		out.ColorTempMirek = &mirek
	}
	if upd.Color != nil && upd.Color.XY != nil {
		xy := *upd.Color.XY
		out.ColorXY = &xy
	}
	return out
}

func idOnlyRecord(id uuid.UUID) json.RawMessage {
	data, _ := json.Marshal(struct {
		ID uuid.UUID `json:"id"`
	}{ID: id})
	return data
}
