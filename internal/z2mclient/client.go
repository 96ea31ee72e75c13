// Package z2mclient is the southbound z2m collaborator: an MQTT client that
// discovers Zigbee light devices from zigbee2mqtt's bridge/devices topic,
// mirrors their state into the store, and implements httpapi.Z2MPublisher
// to carry CLIP PUTs back out as z2m "set" commands.
package z2mclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/config"
	"github.com/z2hue/bridge/internal/model"
	"github.com/z2hue/bridge/internal/store"
)

// Client owns the MQTT connection to the zigbee2mqtt broker and the
// topic-to-light index needed to route incoming state messages.
type Client struct {
	mqtt      mqtt.Client
	store     *store.Store
	baseTopic string
	timeout   time.Duration

	mu           sync.RWMutex
	topicToLight map[string]uuid.UUID
}

// New builds a disconnected Client; call Run (or Connect) to bring it up.
func New(cfg config.Z2MConfig, s *store.Store) (*Client, error) {
	broker := strings.TrimSpace(cfg.GetBrokerURL())
	if broker == "" {
		return nil, fmt.Errorf("z2mclient: empty broker url")
	}

	c := &Client{
		store:        s,
		baseTopic:    strings.TrimSuffix(cfg.GetBaseTopic(), "/"),
		timeout:      cfg.GetConnectTimeout(),
		topicToLight: make(map[string]uuid.UUID),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("z2hue-bridge-%d", time.Now().UnixNano())).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetKeepAlive(30 * time.Second).
		SetConnectTimeout(c.timeout).
		SetOrderMatters(false)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.OnConnect = func(mc mqtt.Client) {
		log.Info().Str("broker", broker).Msg("connected to zigbee2mqtt broker")
		c.subscribe()
	}
	opts.OnConnectionLost = func(mc mqtt.Client, err error) {
		log.Warn().Err(err).Msg("zigbee2mqtt connection lost")
	}

	c.mqtt = mqtt.NewClient(opts)
	return c, nil
}

func (c *Client) devicesTopic() string { return c.baseTopic + "/bridge/devices" }
func (c *Client) wildcardTopic() string { return c.baseTopic + "/#" }

func (c *Client) subscribe() {
	if token := c.mqtt.Subscribe(c.devicesTopic(), 0, c.handleDevices); !token.WaitTimeout(5*time.Second) {
		log.Error().Str("topic", c.devicesTopic()).Msg("subscribe timeout")
	} else if err := token.Error(); err != nil {
		log.Error().Err(err).Str("topic", c.devicesTopic()).Msg("subscribe failed")
	}

	if token := c.mqtt.Subscribe(c.wildcardTopic(), 0, c.handleState); !token.WaitTimeout(5*time.Second) {
		log.Error().Str("topic", c.wildcardTopic()).Msg("subscribe timeout")
	} else if err := token.Error(); err != nil {
		log.Error().Err(err).Str("topic", c.wildcardTopic()).Msg("subscribe failed")
	}
}

// Connect dials the broker and blocks until the connection succeeds, the
// configured timeout elapses, or ctx is canceled.
func (c *Client) Connect(ctx context.Context) error {
	token := c.mqtt.Connect()
	done := make(chan struct{})
	go func() {
		token.WaitTimeout(c.timeout)
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("z2mclient: connect: %w", err)
	}
	return nil
}

// Run connects and blocks until ctx is canceled, then disconnects. It
// satisfies svc.RunFunc so the client can run as a managed service.
func (c *Client) Run(ctx context.Context) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	c.Close()
	return nil
}

// Close disconnects from the broker, if connected.
func (c *Client) Close() {
	if c.mqtt != nil && c.mqtt.IsConnectionOpen() {
		c.mqtt.Disconnect(250)
	}
}

// z2mDevice is the subset of a zigbee2mqtt bridge/devices entry this client
// cares about: identity plus whatever exposes flag it as a light.
type z2mDevice struct {
	FriendlyName string         `json:"friendly_name"`
	IEEEAddress  string         `json:"ieee_address"`
	Definition   *z2mDefinition `json:"definition"`
}

type z2mDefinition struct {
	Exposes []z2mExpose `json:"exposes"`
}

type z2mExpose struct {
	Type string `json:"type"`
}

func (d z2mDevice) isLight() bool {
	if d.Definition == nil {
		return false
	}
	for _, exp := range d.Definition.Exposes {
		if exp.Type == "light" {
			return true
		}
	}
	return false
}

// handleDevices discovers light-capable devices from zigbee2mqtt's device
// listing and ensures each has a Device+Light resource pair, keyed by a
// deterministic ID so rediscovery after a reconnect is idempotent.
func (c *Client) handleDevices(_ mqtt.Client, msg mqtt.Message) {
	var devices []z2mDevice
	if err := json.Unmarshal(msg.Payload(), &devices); err != nil {
		log.Error().Err(err).Msg("failed to parse zigbee2mqtt bridge/devices payload")
		return
	}

	for _, d := range devices {
		if d.FriendlyName == "" || !d.isLight() {
			continue
		}
		c.ensureLight(d)
	}
}

func (c *Client) ensureLight(d z2mDevice) {
	lightLink := model.DeterministicLink(model.RTLight, "z2m:"+d.FriendlyName)
	deviceLink := model.DeterministicLink(model.RTDevice, "z2m:"+d.FriendlyName)

	topic := c.baseTopic + "/" + d.FriendlyName

	if _, err := c.store.GetResource(model.RTLight, lightLink.RID); err == nil {
		c.mu.Lock()
		c.topicToLight[topic] = lightLink.RID
		c.mu.Unlock()
		return
	}

	if err := c.store.Add(deviceLink, model.Of(model.Device{
		ProductData: model.DeviceProductData{ManufacturerName: "zigbee2mqtt", ProductName: d.FriendlyName},
		Metadata:    model.Metadata{Name: d.FriendlyName},
		Services:    []model.ResourceLink{lightLink},
	})); err != nil {
		log.Error().Err(err).Str("device", d.FriendlyName).Msg("failed to add discovered device")
		return
	}
	if err := c.store.Add(lightLink, model.Of(model.Light{
		Owner:    deviceLink,
		Metadata: model.Metadata{Name: d.FriendlyName},
	})); err != nil {
		log.Error().Err(err).Str("device", d.FriendlyName).Msg("failed to add discovered light")
		return
	}
	c.store.AuxSet(lightLink, model.AuxData{}.WithTopic(topic))

	c.mu.Lock()
	c.topicToLight[topic] = lightLink.RID
	c.mu.Unlock()

	log.Info().Str("device", d.FriendlyName).Str("topic", topic).Msg("discovered zigbee2mqtt light")
}

// z2mState is zigbee2mqtt's own state-report shape, published on a device's
// base topic whenever its state changes.
type z2mState struct {
	State      string    `json:"state,omitempty"`
	Brightness *int      `json:"brightness,omitempty"`
	ColorTemp  *int      `json:"color_temp,omitempty"`
	Color      *z2mColor `json:"color,omitempty"`
	ColorMode  string    `json:"color_mode,omitempty"`
}

type z2mColor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// handleState mirrors a zigbee2mqtt state report into the corresponding
// Light resource, skipping bridge/* and device-subtopic traffic the topic
// index does not recognize.
func (c *Client) handleState(_ mqtt.Client, msg mqtt.Message) {
	topic := msg.Topic()
	if strings.HasPrefix(topic, c.baseTopic+"/bridge/") {
		return
	}

	c.mu.RLock()
	lightID, ok := c.topicToLight[topic]
	c.mu.RUnlock()
	if !ok {
		return
	}

	var state z2mState
	if err := json.Unmarshal(msg.Payload(), &state); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("failed to parse zigbee2mqtt state payload")
		return
	}

	err := store.Update(c.store, lightID, func(l *model.Light) { applyZ2MState(l, state) })
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("failed to apply zigbee2mqtt state to store")
	}
}

func applyZ2MState(l *model.Light, state z2mState) {
	switch state.State {
	case "ON":
		l.On.On = true
	case "OFF":
		l.On.On = false
	}
	if state.Brightness != nil {
		l.Dimming.Brightness = float64(*state.Brightness) * 100.0 / 254.0
	}
	switch state.ColorMode {
	case "color_temp":
		if state.ColorTemp != nil {
			if l.ColorTemperature == nil {
				l.ColorTemperature = &model.ColorTemperature{}
			}
			l.ColorTemperature.Mirek = *state.ColorTemp
			l.ColorTemperature.MirekValid = true
			l.ColorMode = model.ColorModeColorTemp
		}
	case "xy":
		if state.Color != nil {
			if l.Color == nil {
				l.Color = &model.LightColor{}
			}
			l.Color.XY = model.XY{X: state.Color.X, Y: state.Color.Y}
			l.ColorMode = model.ColorModeXY
		}
	}
}

// z2mSetPayload is the "set" command shape zigbee2mqtt accepts on a
// device's <base>/set topic.
type z2mSetPayload struct {
	State      *string   `json:"state,omitempty"`
	Brightness *int      `json:"brightness,omitempty"`
	ColorTemp  *int      `json:"color_temp,omitempty"`
	Color      *z2mColor `json:"color,omitempty"`
}

// buildSetPayload translates a DeviceUpdate into zigbee2mqtt's native "set"
// command shape.
func buildSetPayload(update model.DeviceUpdate) z2mSetPayload {
	var payload z2mSetPayload

	if update.On != nil {
		state := "OFF"
		if update.On.On {
			state = "ON"
		}
		payload.State = &state
	}
	if update.Brightness != nil {
		b := int(*update.Brightness)
		payload.Brightness = &b
	}
	if update.ColorTempMirek != nil {
		ct := *update.ColorTempMirek
		payload.ColorTemp = &ct
	}
	if update.ColorXY != nil {
		payload.Color = &z2mColor{X: update.ColorXY.X, Y: update.ColorXY.Y}
	}
	return payload
}

// PublishDeviceUpdate implements httpapi.Z2MPublisher: it translates a
// DeviceUpdate into zigbee2mqtt's native "set" command shape and publishes
// it to topic+"/set".
func (c *Client) PublishDeviceUpdate(topic string, update model.DeviceUpdate) error {
	data, err := json.Marshal(buildSetPayload(update))
	if err != nil {
		return err
	}

	setTopic := topic + "/set"
	token := c.mqtt.Publish(setTopic, 0, false, data)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}
