package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/z2hue/bridge/internal/model"
	"github.com/z2hue/bridge/internal/store"
)

// v1LightState is the legacy {"state": {...}} shape nested inside a v1 light
// listing; bri is z2m's native [0, 254] range rather than CLIP v2's percent.
type v1LightState struct {
	On        bool        `json:"on"`
	Bri       uint8       `json:"bri"`
	CT        *int        `json:"ct,omitempty"`
	XY        *[2]float64 `json:"xy,omitempty"`
	ColorMode string      `json:"colormode,omitempty"`
	Reachable bool        `json:"reachable"`
}

type v1Light struct {
	State     v1LightState `json:"state"`
	Type      string       `json:"type"`
	Name      string       `json:"name"`
	ModelID   string       `json:"modelid"`
	UniqueID  string       `json:"uniqueid"`
	SWVersion string       `json:"swversion"`
}

// v1LightStateUpdate is the PUT body accepted by .../lights/{id}/state and,
// fields shared with it, .../groups/{id}/action.
type v1LightStateUpdate struct {
	On  *bool       `json:"on,omitempty"`
	Bri *uint8      `json:"bri,omitempty"`
	CT  *int        `json:"ct,omitempty"`
	XY  *[2]float64 `json:"xy,omitempty"`
}

func v1Err(msg string) []V1Success {
	return []V1Success{{Success: map[string]any{"error": msg}}}
}

func brightnessToV1(pct float64) uint8 {
	v := pct * 254.0 / 100.0
	switch {
	case v < 0:
		return 0
	case v > 254:
		return 254
	default:
		return uint8(v)
	}
}

func renderV1Light(id uuid.UUID, l model.Light) v1Light {
	out := v1Light{
		Type:      "Extended color light",
		Name:      l.Metadata.Name,
		UniqueID:  id.String(),
		ModelID:   model.HueBridgeV2ModelID,
		SWVersion: model.DefaultSoftwareVersion,
		State: v1LightState{
			On:        l.On.On,
			Bri:       brightnessToV1(l.Dimming.Brightness),
			Reachable: true,
		},
	}
	switch l.ColorMode {
	case model.ColorModeColorTemp:
		out.State.ColorMode = "ct"
		if l.ColorTemperature != nil {
			mirek := l.ColorTemperature.Mirek
			out.State.CT = &mirek
		}
	case model.ColorModeXY:
		out.State.ColorMode = "xy"
		if l.Color != nil {
			xy := [2]float64{l.Color.XY.X, l.Color.XY.Y}
			out.State.XY = &xy
		}
	}
	return out
}

func (s *Server) handleV1Lights(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]v1Light)
	for _, rec := range s.store.GetResourcesByType(model.RTLight) {
		l, err := model.As[model.Light](rec.Obj)
		if err != nil {
			continue
		}
		out[rec.ID.String()] = renderV1Light(rec.ID, l)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleV1Light(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, v1Err("invalid id"))
		return
	}
	l, err := store.Get[model.Light](s.store, model.ResourceLink{RType: model.RTLight, RID: id})
	if err != nil {
		writeJSON(w, statusForError(err), v1Err(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, renderV1Light(id, l))
}

func (s *Server) handleV1LightState(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, v1Err("invalid id"))
		return
	}

	var body v1LightStateUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, v1Err("invalid body"))
		return
	}
	defer r.Body.Close()

	upd, touched := v1StateToLightUpdate(body)

	if err := store.Update(s.store, id, func(l *model.Light) { applyLightUpdate(l, upd) }); err != nil {
		writeJSON(w, statusForError(err), v1Err(err.Error()))
		return
	}
	s.forwardToZ2M(model.ResourceLink{RType: model.RTLight, RID: id}, deviceUpdateFromLight(upd))

	prefix := "/lights/" + id.String() + "/state"
	writeJSON(w, http.StatusOK, v1Entries(prefix, touched))
}

// v1StateToLightUpdate translates a legacy v1 state body into the v2
// LightUpdate shape shared with the CLIP v2 PUT path, returning the
// touched-attribute map (in v1 property names) for the success reply.
func v1StateToLightUpdate(body v1LightStateUpdate) (model.LightUpdate, map[string]any) {
	var upd model.LightUpdate
	touched := make(map[string]any)

	if body.On != nil {
		upd.On = &model.On{On: *body.On}
		touched["on"] = *body.On
	}
	if body.Bri != nil {
		pct := float64(*body.Bri) * 100.0 / 254.0
		upd.Dimming = &model.DimmingUpdate{Brightness: &pct}
		touched["bri"] = *body.Bri
	}
	if body.CT != nil {
		ct := *body.CT
		upd.ColorTemperature = &model.ColorTemperatureUpdate{Mirek: &ct}
		touched["ct"] = ct
	}
	if body.XY != nil {
		xy := model.XY{X: body.XY[0], Y: body.XY[1]}
		upd.Color = &model.ColorUpdate{XY: &xy}
		touched["xy"] = *body.XY
	}
	return upd, touched
}

type v1GroupAction struct {
	On  bool  `json:"on"`
	Bri uint8 `json:"bri"`
}

type v1Group struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Lights []string      `json:"lights"`
	Action v1GroupAction `json:"action"`
}

// roomGroupedLight returns the grouped_light link a Room exposes, if any.
func roomGroupedLight(room model.Room) (uuid.UUID, bool) {
	for _, link := range room.Services {
		if link.RType == model.RTGroupedLight {
			return link.RID, true
		}
	}
	return uuid.Nil, false
}

func (s *Server) renderV1Group(room model.Room) v1Group {
	g := v1Group{Name: room.Metadata.Name, Type: "Room"}

	if glID, ok := roomGroupedLight(room); ok {
		if gl, err := store.Get[model.GroupedLight](s.store, model.ResourceLink{RType: model.RTGroupedLight, RID: glID}); err == nil {
			g.Action = v1GroupAction{On: gl.On.On, Bri: brightnessToV1(gl.Dimming.Brightness)}
		}
	}
	for _, lightID := range s.roomMemberLights(room) {
		g.Lights = append(g.Lights, lightID.String())
	}
	return g
}

func (s *Server) handleV1Groups(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]v1Group)
	for _, rec := range s.store.GetResourcesByType(model.RTRoom) {
		room, err := model.As[model.Room](rec.Obj)
		if err != nil {
			continue
		}
		out[rec.ID.String()] = s.renderV1Group(room)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleV1GroupAction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, v1Err("invalid id"))
		return
	}

	room, err := store.Get[model.Room](s.store, model.ResourceLink{RType: model.RTRoom, RID: id})
	if err != nil {
		writeJSON(w, statusForError(err), v1Err(err.Error()))
		return
	}
	groupedLightID, ok := roomGroupedLight(room)
	if !ok {
		writeJSON(w, http.StatusNotFound, v1Err("room has no grouped_light"))
		return
	}

	var body v1LightStateUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, v1Err("invalid body"))
		return
	}
	defer r.Body.Close()

	lightUpd, touched := v1StateToLightUpdate(body)
	groupUpd := model.GroupedLightUpdate{On: lightUpd.On, Dimming: lightUpd.Dimming}

	glErr := store.Update(s.store, groupedLightID, func(g *model.GroupedLight) { applyGroupedLightUpdate(g, groupUpd) })
	if glErr != nil {
		writeJSON(w, statusForError(glErr), v1Err(glErr.Error()))
		return
	}
	for _, childID := range s.roomMemberLights(room) {
		if err := store.Update(s.store, childID, func(l *model.Light) { applyLightUpdate(l, lightUpd) }); err == nil {
			s.forwardToZ2M(model.ResourceLink{RType: model.RTLight, RID: childID}, deviceUpdateFromLight(lightUpd))
		}
	}

	prefix := "/groups/" + id.String() + "/action"
	writeJSON(w, http.StatusOK, v1Entries(prefix, touched))
}

type v1Config struct {
	Name            string `json:"name"`
	BridgeID        string `json:"bridgeid"`
	ModelID         string `json:"modelid"`
	APIVersion      string `json:"apiversion"`
	SoftwareVersion string `json:"swversion"`
}

func (s *Server) handleV1Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, v1Config{
		Name:            "z2hue bridge",
		BridgeID:        s.bridgeID,
		ModelID:         model.HueBridgeV2ModelID,
		APIVersion:      model.DefaultAPIVersion,
		SoftwareVersion: model.DefaultSoftwareVersion,
	})
}
