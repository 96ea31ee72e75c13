package model

import "encoding/json"

// The resource kinds below round-trip through the CLIP v2 JSON schema but
// carry no behavior the store needs to interpret: no derived Update is ever
// synthesized for them, and they never appear on the write path of §4.1.
// Each is still a real, named Go type (not a raw map) so that JSON dispatch
// in Resource stays exhaustive and a missing variant is a compile error.

type AuthV1 struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

type BehaviorScript struct {
	Metadata    Metadata        `json:"metadata" yaml:"metadata"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Configuration json.RawMessage `json:"configuration_schema,omitempty" yaml:"configuration_schema,omitempty"`
}

type BehaviorInstance struct {
	ScriptID    ResourceLink    `json:"script_id" yaml:"script_id"`
	Enabled     bool            `json:"enabled" yaml:"enabled"`
	Configuration json.RawMessage `json:"configuration,omitempty" yaml:"configuration,omitempty"`
}

type Button struct {
	Owner ResourceLink `json:"owner" yaml:"owner"`
	Event *string      `json:"last_event,omitempty" yaml:"last_event,omitempty"`
}

type DevicePower struct {
	Owner        ResourceLink `json:"owner" yaml:"owner"`
	BatteryState string       `json:"battery_state,omitempty" yaml:"battery_state,omitempty"`
	BatteryLevel *int         `json:"battery_level,omitempty" yaml:"battery_level,omitempty"`
}

type DeviceSoftwareUpdate struct {
	Owner ResourceLink `json:"owner" yaml:"owner"`
	State string       `json:"state" yaml:"state"`
}

type GeofenceClient struct {
	Name string `json:"name" yaml:"name"`
}

type Geolocation struct {
	IsConfigured bool `json:"is_configured" yaml:"is_configured"`
}

type GroupedLightLevel struct {
	Owner   ResourceLink `json:"owner" yaml:"owner"`
	LightLevel int       `json:"light_level" yaml:"light_level"`
}

type GroupedMotion struct {
	Owner   ResourceLink `json:"owner" yaml:"owner"`
	Motion  bool         `json:"motion" yaml:"motion"`
}

type Homekit struct {
	Status string `json:"status" yaml:"status"`
}

type LightLevel struct {
	Owner      ResourceLink `json:"owner" yaml:"owner"`
	LightLevel int          `json:"light_level" yaml:"light_level"`
}

type Matter struct {
	MaxFabrics int `json:"max_fabrics" yaml:"max_fabrics"`
}

type Motion struct {
	Owner  ResourceLink `json:"owner" yaml:"owner"`
	Motion bool         `json:"motion" yaml:"motion"`
}

type PrivateGroup struct {
	Children []ResourceLink `json:"children" yaml:"children"`
}

type PublicImage struct {
	URL string `json:"url" yaml:"url"`
}

type RelativeRotary struct {
	Owner ResourceLink `json:"owner" yaml:"owner"`
}

type SmartScene struct {
	Metadata Metadata     `json:"metadata" yaml:"metadata"`
	Group    ResourceLink `json:"group" yaml:"group"`
	State    string       `json:"state" yaml:"state"`
}

type Taurus struct {
	InstallationState string `json:"installation_state,omitempty" yaml:"installation_state,omitempty"`
}

type Temperature struct {
	Owner       ResourceLink `json:"owner" yaml:"owner"`
	Temperature float64      `json:"temperature" yaml:"temperature"`
}

type ZigbeeDeviceDiscovery struct {
	Owner  ResourceLink `json:"owner" yaml:"owner"`
	Status string       `json:"status" yaml:"status"`
}

type Zone struct {
	Children []ResourceLink `json:"children" yaml:"children"`
	Services []ResourceLink `json:"services" yaml:"services"`
	Metadata Metadata       `json:"metadata" yaml:"metadata"`
}
