package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Update is the tagged union of derived deltas generate_update can produce.
// Exactly one field is non-nil.
type Update struct {
	Light        *LightUpdate        `json:"light,omitempty"`
	GroupedLight *GroupedLightUpdate `json:"grouped_light,omitempty"`
	Scene        *SceneUpdate        `json:"scene,omitempty"`
}

// EventBlockKind discriminates the EventBlock variants.
type EventBlockKind string

const (
	EventAdd    EventBlockKind = "add"
	EventUpdate EventBlockKind = "update"
	EventDelete EventBlockKind = "delete"
)

// EventBlock is the tagged variant broadcast to every store subscriber.
// Exactly one of Resource/Delta/Link is populated, selected by Kind.
type EventBlock struct {
	Kind     EventBlockKind  `json:"kind"`
	ID       uuid.UUID       `json:"id,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"` // EventAdd
	Delta    *Update         `json:"delta,omitempty"`    // EventUpdate
	Link     *ResourceLink   `json:"link,omitempty"`     // EventDelete
}

// NewAddEvent serializes obj as the payload of an Add event.
func NewAddEvent(id uuid.UUID, obj Resource) (EventBlock, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return EventBlock{}, SerializationError(err)
	}
	return EventBlock{Kind: EventAdd, ID: id, Resource: data}, nil
}

// NewUpdateEvent wraps a derived delta as an Update event.
func NewUpdateEvent(id uuid.UUID, delta Update) EventBlock {
	return EventBlock{Kind: EventUpdate, ID: id, Delta: &delta}
}

// NewDeleteEvent announces the removal of link.
func NewDeleteEvent(link ResourceLink) EventBlock {
	return EventBlock{Kind: EventDelete, Link: &link}
}
