package model

import (
	"encoding/json"
	"fmt"
)

// Variant is implemented by every concrete resource struct (Light, Room,
// Scene, …). It is the only thing Resource needs from a variant to support
// exhaustive dispatch without inheritance.
type Variant interface {
	ResourceType() ResourceType
}

func (Bridge) ResourceType() ResourceType                     { return RTBridge }
func (BridgeHome) ResourceType() ResourceType                 { return RTBridgeHome }
func (Device) ResourceType() ResourceType                     { return RTDevice }
func (Light) ResourceType() ResourceType                      { return RTLight }
func (GroupedLight) ResourceType() ResourceType                { return RTGroupedLight }
func (Room) ResourceType() ResourceType                       { return RTRoom }
func (Scene) ResourceType() ResourceType                      { return RTScene }
func (Entertainment) ResourceType() ResourceType               { return RTEntertainment }
func (EntertainmentConfiguration) ResourceType() ResourceType { return RTEntertainmentConfiguration }
func (ZigbeeConnectivity) ResourceType() ResourceType          { return RTZigbeeConnectivity }
func (AuthV1) ResourceType() ResourceType                     { return RTAuthV1 }
func (BehaviorScript) ResourceType() ResourceType              { return RTBehaviorScript }
func (BehaviorInstance) ResourceType() ResourceType            { return RTBehaviorInstance }
func (Button) ResourceType() ResourceType                      { return RTButton }
func (DevicePower) ResourceType() ResourceType                 { return RTDevicePower }
func (DeviceSoftwareUpdate) ResourceType() ResourceType         { return RTDeviceSoftwareUpdate }
func (GeofenceClient) ResourceType() ResourceType               { return RTGeofenceClient }
func (Geolocation) ResourceType() ResourceType                  { return RTGeolocation }
func (GroupedLightLevel) ResourceType() ResourceType            { return RTGroupedLightLevel }
func (GroupedMotion) ResourceType() ResourceType                { return RTGroupedMotion }
func (Homekit) ResourceType() ResourceType                      { return RTHomekit }
func (LightLevel) ResourceType() ResourceType                   { return RTLightLevel }
func (Matter) ResourceType() ResourceType                       { return RTMatter }
func (Motion) ResourceType() ResourceType                       { return RTMotion }
func (PrivateGroup) ResourceType() ResourceType                 { return RTPrivateGroup }
func (PublicImage) ResourceType() ResourceType                  { return RTPublicImage }
func (RelativeRotary) ResourceType() ResourceType               { return RTRelativeRotary }
func (SmartScene) ResourceType() ResourceType                   { return RTSmartScene }
func (Taurus) ResourceType() ResourceType                       { return RTTaurus }
func (Temperature) ResourceType() ResourceType                  { return RTTemperature }
func (ZigbeeDeviceDiscovery) ResourceType() ResourceType        { return RTZigbeeDeviceDiscovery }
func (Zone) ResourceType() ResourceType                         { return RTZone }

// Resource is the tagged union over every CLIP v2 resource variant. Invariant
// (§3): resource.Type() must equal link.RType for every link pointing at it.
type Resource struct {
	Data Variant
}

// Of wraps a concrete variant into a Resource.
func Of(v Variant) Resource { return Resource{Data: v} }

// Type returns the resource's type tag.
func (r Resource) Type() ResourceType { return r.Data.ResourceType() }

// newVariant allocates the zero value of the variant named by rtype, used by
// FromTagAndJSON before unmarshaling the payload into it.
func newVariant(rtype ResourceType) (Variant, error) {
	switch rtype {
	case RTBridge:
		return &Bridge{}, nil
	case RTBridgeHome:
		return &BridgeHome{}, nil
	case RTDevice:
		return &Device{}, nil
	case RTLight:
		return &Light{}, nil
	case RTGroupedLight:
		return &GroupedLight{}, nil
	case RTRoom:
		return &Room{}, nil
	case RTScene:
		return &Scene{}, nil
	case RTEntertainment:
		return &Entertainment{}, nil
	case RTEntertainmentConfiguration:
		return &EntertainmentConfiguration{}, nil
	case RTZigbeeConnectivity:
		return &ZigbeeConnectivity{}, nil
	case RTAuthV1:
		return &AuthV1{}, nil
	case RTBehaviorScript:
		return &BehaviorScript{}, nil
	case RTBehaviorInstance:
		return &BehaviorInstance{}, nil
	case RTButton:
		return &Button{}, nil
	case RTDevicePower:
		return &DevicePower{}, nil
	case RTDeviceSoftwareUpdate:
		return &DeviceSoftwareUpdate{}, nil
	case RTGeofenceClient:
		return &GeofenceClient{}, nil
	case RTGeolocation:
		return &Geolocation{}, nil
	case RTGroupedLightLevel:
		return &GroupedLightLevel{}, nil
	case RTGroupedMotion:
		return &GroupedMotion{}, nil
	case RTHomekit:
		return &Homekit{}, nil
	case RTLightLevel:
		return &LightLevel{}, nil
	case RTMatter:
		return &Matter{}, nil
	case RTMotion:
		return &Motion{}, nil
	case RTPrivateGroup:
		return &PrivateGroup{}, nil
	case RTPublicImage:
		return &PublicImage{}, nil
	case RTRelativeRotary:
		return &RelativeRotary{}, nil
	case RTSmartScene:
		return &SmartScene{}, nil
	case RTTaurus:
		return &Taurus{}, nil
	case RTTemperature:
		return &Temperature{}, nil
	case RTZigbeeDeviceDiscovery:
		return &ZigbeeDeviceDiscovery{}, nil
	case RTZone:
		return &Zone{}, nil
	default:
		return nil, fmt.Errorf("model: unknown resource type %q", rtype)
	}
}

// FromTagAndJSON is the symmetric counterpart of MarshalJSON: given an
// explicit type tag (usually from a ResourceLink) and a JSON payload, it
// dispatches to the right variant and decodes into it.
func FromTagAndJSON(rtype ResourceType, payload []byte) (Resource, error) {
	v, err := newVariant(rtype)
	if err != nil {
		return Resource{}, err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return Resource{}, SerializationError(err)
	}
	return Resource{Data: derefVariant(v)}, nil
}

// derefVariant unwraps the pointer newVariant allocates back to a value, so
// that Resource.Data always holds the same (value, not pointer) variant type
// that ResourceType() methods above are defined on.
func derefVariant(v Variant) Variant {
	switch p := v.(type) {
	case *Bridge:
		return *p
	case *BridgeHome:
		return *p
	case *Device:
		return *p
	case *Light:
		return *p
	case *GroupedLight:
		return *p
	case *Room:
		return *p
	case *Scene:
		return *p
	case *Entertainment:
		return *p
	case *EntertainmentConfiguration:
		return *p
	case *ZigbeeConnectivity:
		return *p
	case *AuthV1:
		return *p
	case *BehaviorScript:
		return *p
	case *BehaviorInstance:
		return *p
	case *Button:
		return *p
	case *DevicePower:
		return *p
	case *DeviceSoftwareUpdate:
		return *p
	case *GeofenceClient:
		return *p
	case *Geolocation:
		return *p
	case *GroupedLightLevel:
		return *p
	case *GroupedMotion:
		return *p
	case *Homekit:
		return *p
	case *LightLevel:
		return *p
	case *Matter:
		return *p
	case *Motion:
		return *p
	case *PrivateGroup:
		return *p
	case *PublicImage:
		return *p
	case *RelativeRotary:
		return *p
	case *SmartScene:
		return *p
	case *Taurus:
		return *p
	case *Temperature:
		return *p
	case *ZigbeeDeviceDiscovery:
		return *p
	case *Zone:
		return *p
	default:
		return v
	}
}

// MarshalJSON flattens the variant's fields alongside a top-level "type" tag,
// matching the CLIP v2 wire schema.
func (r Resource) MarshalJSON() ([]byte, error) {
	inner, err := json.Marshal(r.Data)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, err
	}
	tag, err := json.Marshal(r.Type())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag

	return json.Marshal(fields)
}

// UnmarshalJSON reads the "type" discriminant and dispatches through
// FromTagAndJSON.
func (r *Resource) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type ResourceType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	res, err := FromTagAndJSON(probe.Type, data)
	if err != nil {
		return err
	}
	*r = res
	return nil
}

// As type-asserts r's payload to T, returning WrongType if it disagrees.
func As[T Variant](r Resource) (T, error) {
	if v, ok := r.Data.(T); ok {
		return v, nil
	}
	var zero T
	return zero, WrongType(zero.ResourceType(), r.Type())
}
