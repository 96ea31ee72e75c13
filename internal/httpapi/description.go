package httpapi

import (
	"fmt"
	"net/http"

	"github.com/z2hue/bridge/internal/model"
)

const descriptionTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion>
    <major>1</major>
    <minor>0</minor>
  </specVersion>
  <URLBase>http://%s/</URLBase>
  <device>
    <deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
    <friendlyName>z2hue bridge (%s)</friendlyName>
    <manufacturer>Signify Netherlands B.V.</manufacturer>
    <manufacturerURL>https://www.philips-hue.com</manufacturerURL>
    <modelDescription>Philips hue Personal Wireless Lighting</modelDescription>
    <modelName>Philips hue bridge 2015</modelName>
    <modelNumber>%s</modelNumber>
    <modelURL>https://www.philips-hue.com</modelURL>
    <serialNumber>%s</serialNumber>
    <UDN>uuid:2f402f80-da50-11e1-9b23-%s</UDN>
  </device>
</root>
`

// handleDescription serves the UPnP device descriptor real Hue bridges
// publish for SSDP-based discovery by Hue apps and voice-assistant bridges.
func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	body := fmt.Sprintf(descriptionTemplate, s.addr, s.bridgeID, model.HueBridgeV2ModelID, s.bridgeID, s.bridgeID)
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
