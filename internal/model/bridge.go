package model

// Bridge is the singleton resource representing the emulated bridge itself.
type Bridge struct {
	Owner    ResourceLink `json:"owner" yaml:"owner"`
	BridgeID string       `json:"bridge_id" yaml:"bridge_id"`
	TimeZone TimeZone     `json:"time_zone" yaml:"time_zone"`
}

// BridgeHome is the singleton root grouping of every device the bridge owns.
type BridgeHome struct {
	Children []ResourceLink `json:"children" yaml:"children"`
	Services []ResourceLink `json:"services" yaml:"services"`
}

// TimeZone carries an IANA timezone name.
type TimeZone struct {
	TimeZone string `json:"time_zone" yaml:"time_zone"`
}

// DeviceProductData describes the vendor/model identity of a device.
type DeviceProductData struct {
	ModelID         string `json:"model_id" yaml:"model_id"`
	ManufacturerName string `json:"manufacturer_name" yaml:"manufacturer_name"`
	ProductName     string `json:"product_name" yaml:"product_name"`
	SoftwareVersion string `json:"software_version" yaml:"software_version"`
}

// HueBridgeV2ProductData returns the product data stamped on the bridge's
// own bootstrap Device resources.
func HueBridgeV2ProductData() DeviceProductData {
	return DeviceProductData{
		ModelID:          HueBridgeV2ModelID,
		ManufacturerName: "Signify Netherlands B.V.",
		ProductName:      "Hue Bridge",
		SoftwareVersion:  DefaultSoftwareVersion,
	}
}

// Identify is a write-only "blink to identify" action stub.
type Identify struct{}

// Device is a physical (or virtual, for the bridge itself) Zigbee node;
// Services lists the resources it exposes (a Light, a ZigbeeConnectivity…).
type Device struct {
	ProductData DeviceProductData `json:"product_data" yaml:"product_data"`
	Metadata    Metadata          `json:"metadata" yaml:"metadata"`
	Services    []ResourceLink    `json:"services" yaml:"services"`
}

// DeviceUpdate is the light-state shape fed southbound to z2m after
// translating a LightUpdate.
type DeviceUpdate struct {
	On               *On      `json:"on,omitempty"`
	Brightness       *float64 `json:"brightness,omitempty"`
	ColorTempMirek   *int     `json:"color_temp,omitempty"`
	ColorXY          *XY      `json:"color_xy,omitempty"`
}

// ZigbeeConnectivityStatus mirrors a device's last-known link state.
type ZigbeeConnectivityStatus string

const (
	ZigbeeStatusConnected        ZigbeeConnectivityStatus = "connected"
	ZigbeeStatusDisconnected     ZigbeeConnectivityStatus = "connectivity_issue"
	ZigbeeStatusUnidirectional   ZigbeeConnectivityStatus = "unidirectional_incoming"
)

// ZigbeeConnectivity reports one device's Zigbee mesh link state.
type ZigbeeConnectivity struct {
	Owner  ResourceLink              `json:"owner" yaml:"owner"`
	Status ZigbeeConnectivityStatus  `json:"status" yaml:"status"`
	MACAddress string                `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
}

// Bridge constants per §6.
const (
	HueBridgeV2ModelID     = "BSB002"
	DefaultSoftwareVersion = "1968096020"
	DefaultAPIVersion      = "1.68.0"
)
