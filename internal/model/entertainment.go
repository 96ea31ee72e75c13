package model

// EntertainmentSegment is one addressable slice of an Entertainment service
// (for striped/gradient lights, a single light exposes several segments).
type EntertainmentSegment struct {
	Start  int `json:"start" yaml:"start"`
	Length int `json:"length" yaml:"length"`
}

// Entertainment is the per-light service exposing its streaming segments.
type Entertainment struct {
	Owner       ResourceLink           `json:"owner" yaml:"owner"`
	Renderer    bool                   `json:"renderer" yaml:"renderer"`
	Segments    []EntertainmentSegment `json:"segments,omitempty" yaml:"segments,omitempty"`
	MaxStreams  int                    `json:"max_streams" yaml:"max_streams"`
}

// EntertainmentConfigurationStreamProxy names the node relaying the stream.
type EntertainmentConfigurationStreamProxy struct {
	Mode string       `json:"mode" yaml:"mode"`
	Node ResourceLink `json:"node" yaml:"node"`
}

// EntertainmentConfigurationLocations maps a light's entertainment service to
// its 3D position within the configured area.
type EntertainmentConfigurationLocations struct {
	ServiceLocations []EntertainmentServiceLocation `json:"service_locations" yaml:"service_locations"`
}

// EntertainmentServiceLocation is one light's position and its channel IDs.
type EntertainmentServiceLocation struct {
	Service            ResourceLink `json:"service" yaml:"service"`
	Position           [3]float64   `json:"position" yaml:"position"`
	ChannelIDs         []int        `json:"channel_ids" yaml:"channel_ids"`
}

// EntertainmentConfigurationStreamMember is one light participating in an
// active entertainment stream.
type EntertainmentConfigurationStreamMember struct {
	Service  ResourceLink `json:"service" yaml:"service"`
	Index    int          `json:"index" yaml:"index"`
}

// EntertainmentConfiguration groups lights into a streamable area (the
// "entertainment area" concept in the official app).
type EntertainmentConfiguration struct {
	Metadata    Metadata                               `json:"metadata" yaml:"metadata"`
	Name        string                                 `json:"name,omitempty" yaml:"name,omitempty"`
	Status      string                                 `json:"status" yaml:"status"` // "active" | "inactive"
	StreamProxy EntertainmentConfigurationStreamProxy   `json:"stream_proxy" yaml:"stream_proxy"`
	Locations   EntertainmentConfigurationLocations     `json:"locations" yaml:"locations"`
	ActiveStreamer *ResourceLink                        `json:"active_streamer,omitempty" yaml:"active_streamer,omitempty"`
	Channels    []EntertainmentConfigurationStreamMember `json:"channels,omitempty" yaml:"channels,omitempty"`
}
