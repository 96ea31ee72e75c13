package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Bridge          BridgeConfig   `yaml:"bridge"`
	Z2M             Z2MConfig      `yaml:"z2m"`
	HTTP            HTTPConfig     `yaml:"http"`
	Entertainment   EntConfig      `yaml:"entertainment"`
	MDNS            MDNSConfig     `yaml:"mdns"`
	State           StateConfig    `yaml:"state"`
	Ledger          LedgerConfig   `yaml:"ledger"`
	Log             LogConfig      `yaml:"log"`
	ShutdownTimeout Duration       `yaml:"shutdown_timeout"`
}

// Default top-level values
const DefaultShutdownTimeout = 5 * time.Second

// GetShutdownTimeout returns the shutdown timeout with default.
func (c *Config) GetShutdownTimeout() time.Duration {
	if c.ShutdownTimeout == 0 {
		return DefaultShutdownTimeout
	}
	return c.ShutdownTimeout.Duration()
}

// BridgeConfig identifies the emulated bridge's network identity.
type BridgeConfig struct {
	// MAC is the address the bridge id and mDNS advertisement are derived
	// from. If empty, the first non-loopback interface's MAC is used.
	MAC  string `yaml:"mac"`
	Name string `yaml:"name"`
}

const DefaultBridgeName = "Philips Hue"

// GetName returns the advertised bridge name with default.
func (c *BridgeConfig) GetName() string {
	if c.Name == "" {
		return DefaultBridgeName
	}
	return c.Name
}

// Z2MConfig contains the zigbee2mqtt southbound connection settings.
type Z2MConfig struct {
	BrokerURL    string   `yaml:"broker_url"`
	Username     string   `yaml:"username"`
	Password     string   `yaml:"password"`
	BaseTopic    string   `yaml:"base_topic"`
	ConnTimeout  Duration `yaml:"connect_timeout"`
}

const (
	DefaultZ2MBrokerURL   = "tcp://localhost:1883"
	DefaultZ2MBaseTopic   = "zigbee2mqtt"
	DefaultZ2MConnTimeout = 10 * time.Second
)

// GetBrokerURL returns the MQTT broker URL with default.
func (c *Z2MConfig) GetBrokerURL() string {
	if c.BrokerURL == "" {
		return DefaultZ2MBrokerURL
	}
	return c.BrokerURL
}

// GetBaseTopic returns the zigbee2mqtt base topic with default.
func (c *Z2MConfig) GetBaseTopic() string {
	if c.BaseTopic == "" {
		return DefaultZ2MBaseTopic
	}
	return c.BaseTopic
}

// GetConnectTimeout returns the broker connect timeout with default.
func (c *Z2MConfig) GetConnectTimeout() time.Duration {
	if c.ConnTimeout == 0 {
		return DefaultZ2MConnTimeout
	}
	return c.ConnTimeout.Duration()
}

// HTTPConfig contains the CLIP v1/v2 HTTP listener settings.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

const (
	DefaultHTTPHost = "0.0.0.0"
	DefaultHTTPPort = 443
)

// GetHost returns the listen host with default.
func (c *HTTPConfig) GetHost() string {
	if c.Host == "" {
		return DefaultHTTPHost
	}
	return c.Host
}

// GetPort returns the listen port with default.
func (c *HTTPConfig) GetPort() int {
	if c.Port == 0 {
		return DefaultHTTPPort
	}
	return c.Port
}

// EntConfig contains Hue Entertainment streaming settings.
type EntConfig struct {
	Enabled   *bool `yaml:"enabled"`
	DTLSPort  int   `yaml:"dtls_port"`
}

const DefaultEntertainmentDTLSPort = 2100

// IsEnabled returns whether entertainment streaming is enabled (defaults to
// true if not set).
func (c *EntConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// GetDTLSPort returns the DTLS listen port with default.
func (c *EntConfig) GetDTLSPort() int {
	if c.DTLSPort == 0 {
		return DefaultEntertainmentDTLSPort
	}
	return c.DTLSPort
}

// MDNSConfig contains _hue._tcp advertisement settings.
type MDNSConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled returns whether mDNS advertisement is enabled (defaults to true
// if not set).
func (c *MDNSConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// StateConfig contains resource-snapshot persistence settings.
type StateConfig struct {
	Path string `yaml:"path"`
}

const DefaultStatePath = "./state.yaml"

// GetPath returns the snapshot path with default.
func (c *StateConfig) GetPath() string {
	if c.Path == "" {
		return DefaultStatePath
	}
	return c.Path
}

// LedgerConfig contains service-manager operational audit log settings.
type LedgerConfig struct {
	Enabled         *bool    `yaml:"enabled"`
	Path            string   `yaml:"path"`
	RetentionPeriod Duration `yaml:"retention_period"`
}

const (
	DefaultLedgerPath            = "./ledger.sqlite"
	DefaultLedgerRetentionPeriod = 30 * 24 * time.Hour
)

// IsEnabled returns whether the ledger is enabled (defaults to true if not
// set).
func (c *LedgerConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// GetPath returns the ledger database path with default.
func (c *LedgerConfig) GetPath() string {
	if c.Path == "" {
		return DefaultLedgerPath
	}
	return c.Path
}

// GetRetentionPeriod returns the retention period with default.
func (c *LedgerConfig) GetRetentionPeriod() time.Duration {
	if c.RetentionPeriod == 0 {
		return DefaultLedgerRetentionPeriod
	}
	return c.RetentionPeriod.Duration()
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"use_json"`
	Colors  bool   `yaml:"colors"`
}

const DefaultLogLevel = "info"

// GetLevel returns the log level with default.
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return DefaultLogLevel
	}
	return c.Level
}

// Duration is a wrapper around time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file.
// Defaults are handled by accessor methods (Get*), not here, keeping
// defaults centralized in one place per config section.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or
// ${VAR:default}.
func expandEnvVars(input string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

// ExpandEnvString expands a single string with environment variables.
func ExpandEnvString(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return expandEnvVars(s)
	}
	return s
}
