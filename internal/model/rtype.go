package model

import "github.com/google/uuid"

// ResourceType is the closed enumeration of CLIP v2 resource tags. Every tag
// maps 1-to-1 to a variant of Resource.
type ResourceType string

const (
	RTAuthV1                     ResourceType = "auth_v1"
	RTBehaviorInstance            ResourceType = "behavior_instance"
	RTBehaviorScript              ResourceType = "behavior_script"
	RTBridge                      ResourceType = "bridge"
	RTBridgeHome                  ResourceType = "bridge_home"
	RTButton                      ResourceType = "button"
	RTDevice                      ResourceType = "device"
	RTDevicePower                 ResourceType = "device_power"
	RTDeviceSoftwareUpdate        ResourceType = "device_software_update"
	RTEntertainment               ResourceType = "entertainment"
	RTEntertainmentConfiguration  ResourceType = "entertainment_configuration"
	RTGeofenceClient              ResourceType = "geofence_client"
	RTGeolocation                 ResourceType = "geolocation"
	RTGroupedLight                ResourceType = "grouped_light"
	RTGroupedLightLevel           ResourceType = "grouped_light_level"
	RTGroupedMotion               ResourceType = "grouped_motion"
	RTHomekit                     ResourceType = "homekit"
	RTLight                       ResourceType = "light"
	RTLightLevel                  ResourceType = "light_level"
	RTMatter                      ResourceType = "matter"
	RTMotion                      ResourceType = "motion"
	RTPrivateGroup                ResourceType = "private_group"
	RTPublicImage                 ResourceType = "public_image"
	RTRelativeRotary              ResourceType = "relative_rotary"
	RTRoom                        ResourceType = "room"
	RTScene                       ResourceType = "scene"
	RTSmartScene                  ResourceType = "smart_scene"
	RTTaurus                      ResourceType = "taurus_7455"
	RTTemperature                 ResourceType = "temperature"
	RTZigbeeConnectivity          ResourceType = "zigbee_connectivity"
	RTZigbeeDeviceDiscovery       ResourceType = "zigbee_device_discovery"
	RTZone                        ResourceType = "zone"
)

// AllResourceTypes lists every known tag, primarily useful for "get all
// resources of every type" style CLIP endpoints.
func AllResourceTypes() []ResourceType {
	return []ResourceType{
		RTAuthV1, RTBehaviorInstance, RTBehaviorScript, RTBridge, RTBridgeHome,
		RTButton, RTDevice, RTDevicePower, RTDeviceSoftwareUpdate, RTEntertainment,
		RTEntertainmentConfiguration, RTGeofenceClient, RTGeolocation, RTGroupedLight,
		RTGroupedLightLevel, RTGroupedMotion, RTHomekit, RTLight, RTLightLevel,
		RTMatter, RTMotion, RTPrivateGroup, RTPublicImage, RTRelativeRotary,
		RTRoom, RTScene, RTSmartScene, RTTaurus, RTTemperature,
		RTZigbeeConnectivity, RTZigbeeDeviceDiscovery, RTZone,
	}
}

// ResourceLink is a typed pointer at another resource: a UUID paired with the
// type tag the target is expected to carry. The type tag lets callers
// validate a link without dereferencing it.
type ResourceLink struct {
	RID   uuid.UUID    `json:"rid" yaml:"rid"`
	RType ResourceType `json:"rtype" yaml:"rtype"`
}

// NewLink builds a ResourceLink for a random, user-created resource.
func NewLink(rtype ResourceType) ResourceLink {
	return ResourceLink{RID: NewID(), RType: rtype}
}

// DeterministicLink builds a ResourceLink whose ID is derived from the given
// seed, used for the bridge's own bootstrap resources.
func DeterministicLink(rtype ResourceType, seed string) ResourceLink {
	return ResourceLink{RID: DeterministicID(rtype, seed), RType: rtype}
}
