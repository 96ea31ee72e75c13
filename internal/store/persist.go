package store

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/z2hue/bridge/internal/model"
)

// Persister is the snapshot backend the Store writes through on every Add,
// Delete and AuxSet and reads from on startup. The only production implementation is
// FilePersister (state.yaml); tests typically pass nil to disable
// persistence entirely.
type Persister interface {
	Save(res map[uuid.UUID]model.Resource, aux map[uuid.UUID]model.AuxData) error
	Load() (map[uuid.UUID]model.Resource, map[uuid.UUID]model.AuxData, error)
}

// snapshot is the on-disk shape: a (resources, aux) tuple, matching §6's
// "persisted state ... content: serialized tuple (res_map, aux_map)". Keys
// are stringified UUIDs: yaml.v3 has no TextMarshaler hook for map keys, so
// uuid.UUID (a plain [16]byte) would otherwise serialize as an opaque byte
// array instead of the familiar hyphenated form.
type snapshot struct {
	Resources map[string]model.Resource `yaml:"resources"`
	Aux       map[string]model.AuxData  `yaml:"aux"`
}

// FilePersister snapshots the store to a single YAML file, written via a
// temp file and renamed into place so that partial writes are never
// observable.
type FilePersister struct {
	path string
}

// NewFilePersister targets the snapshot at path (conventionally state.yaml).
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Save writes res and aux to a temp file in the same directory as the target
// and atomically renames it into place.
func (p *FilePersister) Save(res map[uuid.UUID]model.Resource, aux map[uuid.UUID]model.AuxData) error {
	snap := snapshot{
		Resources: make(map[string]model.Resource, len(res)),
		Aux:       make(map[string]model.AuxData, len(aux)),
	}
	for id, obj := range res {
		snap.Resources[id.String()] = obj
	}
	for id, a := range aux {
		snap.Aux[id.String()] = a
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return model.SerializationError(err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return model.IOError(err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return model.IOError(err)
	}
	return nil
}

// Load reads back a snapshot written by Save. A missing file is treated as
// an empty store, so first-run startup doesn't need special-casing.
func (p *FilePersister) Load() (map[uuid.UUID]model.Resource, map[uuid.UUID]model.AuxData, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return make(map[uuid.UUID]model.Resource), make(map[uuid.UUID]model.AuxData), nil
	}
	if err != nil {
		return nil, nil, model.IOError(err)
	}

	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, nil, model.SerializationError(err)
	}

	res := make(map[uuid.UUID]model.Resource, len(snap.Resources))
	for idStr, obj := range snap.Resources {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, nil, model.SerializationError(err)
		}
		res[id] = obj
	}
	aux := make(map[uuid.UUID]model.AuxData, len(snap.Aux))
	for idStr, a := range snap.Aux {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, nil, model.SerializationError(err)
		}
		aux[id] = a
	}
	return res, aux, nil
}

// EnsureDir creates the parent directory of path if needed.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
