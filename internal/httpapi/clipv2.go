package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode CLIP response")
	}
}

// encodeRecord renders a resource record as CLIP v2's flat {id, type, ...}
// JSON shape.
func encodeRecord(rec model.ResourceRecord) (json.RawMessage, error) {
	data, err := json.Marshal(rec.Obj)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	idJSON, err := json.Marshal(rec.ID)
	if err != nil {
		return nil, err
	}
	fields["id"] = idJSON
	return json.Marshal(fields)
}

func statusForError(err error) int {
	kind, ok := model.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case model.ErrNotFound, model.ErrAuxNotFound:
		return http.StatusNotFound
	case model.ErrWrongType, model.ErrUpdateUnsupported:
		return http.StatusBadRequest
	case model.ErrFull:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	var items []json.RawMessage
	for _, ty := range model.AllResourceTypes() {
		for _, rec := range s.store.GetResourcesByType(ty) {
			enc, err := encodeRecord(rec)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, v2Error(err.Error()))
				return
			}
			items = append(items, enc)
		}
	}
	writeJSON(w, http.StatusOK, v2Data(items...))
}

func (s *Server) handleListByType(w http.ResponseWriter, r *http.Request) {
	ty := model.ResourceType(mux.Vars(r)["type"])
	var items []json.RawMessage
	for _, rec := range s.store.GetResourcesByType(ty) {
		enc, err := encodeRecord(rec)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, v2Error(err.Error()))
			return
		}
		items = append(items, enc)
	}
	writeJSON(w, http.StatusOK, v2Data(items...))
}

func (s *Server) handleGetOne(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ty := model.ResourceType(vars["type"])
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, v2Error("invalid id"))
		return
	}

	rec, err := s.store.GetResource(ty, id)
	if err != nil {
		writeJSON(w, statusForError(err), v2Error(err.Error()))
		return
	}
	enc, err := encodeRecord(rec)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, v2Error(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, v2Data(enc))
}

func (s *Server) handlePutOne(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ty := model.ResourceType(vars["type"])
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, v2Error("invalid id"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, v2Error("failed to read request body"))
		return
	}
	defer r.Body.Close()

	switch ty {
	case model.RTLight:
		s.putLight(w, id, body)
	case model.RTGroupedLight:
		s.putGroupedLight(w, id, body)
	default:
		writeJSON(w, http.StatusBadRequest, v2Error("resource type does not accept writes"))
	}
}
