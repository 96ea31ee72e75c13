package model

import "github.com/google/uuid"

// ResourceRecord pairs a resource with its identifier, the shape returned by
// the store's read-only accessors.
type ResourceRecord struct {
	ID  uuid.UUID
	Obj Resource
}
