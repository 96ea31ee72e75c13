package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds surfaced by the core. Adapters map these to HTTP status codes
// and JSON error strings; none of them are raised for programmer mistakes
// (those panic instead, per the store's own documentation).
type Error struct {
	Kind ErrorKind
	// Detail carries the kind-specific payload (an id, a link, a type pair).
	ID       uuid.UUID
	Link     ResourceLink
	Expected ResourceType
	Actual   ResourceType
	Bits     uint16
	msg      string
}

// ErrorKind discriminates the Error variants.
type ErrorKind int

const (
	ErrNotFound ErrorKind = iota
	ErrAuxNotFound
	ErrWrongType
	ErrUpdateUnsupported
	ErrFull
	ErrServiceNotFound
	ErrServiceAlreadyExists
	ErrServiceFailed
	ErrShutdown
	ErrHueZigbeeDecode
	ErrHueZigbeeUnknownFlags
	ErrIO
	ErrSerialization
)

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("resource not found: %s", e.ID)
	case ErrAuxNotFound:
		return fmt.Sprintf("aux data not found for %s/%s", e.Link.RType, e.Link.RID)
	case ErrWrongType:
		return fmt.Sprintf("wrong resource type: expected %s, got %s", e.Expected, e.Actual)
	case ErrUpdateUnsupported:
		return fmt.Sprintf("update unsupported for resource type %s", e.Actual)
	case ErrFull:
		return fmt.Sprintf("no free slots left for resource type %s", e.Actual)
	case ErrServiceNotFound:
		return fmt.Sprintf("service not found: %s", e.msg)
	case ErrServiceAlreadyExists:
		return fmt.Sprintf("service already exists: %s", e.msg)
	case ErrServiceFailed:
		return "service failed"
	case ErrShutdown:
		return "manager is shutting down"
	case ErrHueZigbeeDecode:
		return fmt.Sprintf("hue zigbee decode error: %s", e.msg)
	case ErrHueZigbeeUnknownFlags:
		return fmt.Sprintf("hue zigbee unknown flags: 0x%04x", e.Bits)
	case ErrIO:
		return fmt.Sprintf("io error: %s", e.msg)
	case ErrSerialization:
		return fmt.Sprintf("serialization error: %s", e.msg)
	default:
		return "unknown error"
	}
}

func NotFound(id uuid.UUID) error { return &Error{Kind: ErrNotFound, ID: id} }

func AuxNotFound(link ResourceLink) error { return &Error{Kind: ErrAuxNotFound, Link: link} }

func WrongType(expected, actual ResourceType) error {
	return &Error{Kind: ErrWrongType, Expected: expected, Actual: actual}
}

func UpdateUnsupported(actual ResourceType) error {
	return &Error{Kind: ErrUpdateUnsupported, Actual: actual}
}

func Full(actual ResourceType) error { return &Error{Kind: ErrFull, Actual: actual} }

func ServiceNotFound(handle string) error { return &Error{Kind: ErrServiceNotFound, msg: handle} }

func ServiceAlreadyExists(name string) error {
	return &Error{Kind: ErrServiceAlreadyExists, msg: name}
}

func ServiceFailed() error { return &Error{Kind: ErrServiceFailed} }

func Shutdown() error { return &Error{Kind: ErrShutdown} }

func HueZigbeeDecodeError(msg string) error { return &Error{Kind: ErrHueZigbeeDecode, msg: msg} }

func HueZigbeeUnknownFlags(bits uint16) error {
	return &Error{Kind: ErrHueZigbeeUnknownFlags, Bits: bits}
}

func IOError(err error) error { return &Error{Kind: ErrIO, msg: err.Error()} }

func SerializationError(err error) error { return &Error{Kind: ErrSerialization, msg: err.Error()} }

// KindOf extracts the ErrorKind from err, if it is (or wraps) a *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is a model *Error of the given kind.
func Is(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
