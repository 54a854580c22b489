// Package config loads tool settings from defaults, an optional YAML file and
// the Farmware environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/sensor-plot/internal/logic"
)

// Environment variables provided to Farmware by the bot.
const (
	EnvFarmwareURL = "FARMWARE_URL"
	EnvToken       = "FARMWARE_TOKEN"
	EnvOSVersion   = "FARMBOT_OS_VERSION"
	EnvImagesDir   = "IMAGES_DIR"
)

// Command channel transports.
const (
	TransportHTTP = "http"
	TransportMQTT = "mqtt"
)

// Config holds settings for both tools.
type Config struct {
	FarmwareURL string     `yaml:"farmware_url"`
	Token       string     `yaml:"token"`
	OSVersion   string     `yaml:"os_version"`
	ImagesDir   string     `yaml:"images_dir"`
	Pin         int        `yaml:"pin"`
	Transport   string     `yaml:"transport"`
	MQTT        MQTTConfig `yaml:"mqtt"`
	HTTPAddr    string     `yaml:"http_addr"`
}

// MQTTConfig holds broker settings for the mqtt transport.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	DeviceID string `yaml:"device_id"`
	ClientID string `yaml:"client_id"`
}

// MissingConfigError reports a required setting that was not provided.
type MissingConfigError struct {
	Key string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Key)
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OSVersion: "0.0.0",
		Pin:       logic.SoilSensorPin,
		Transport: TransportHTTP,
	}
}

// PinEnv returns the namespaced input variable holding the pin for a
// Farmware, e.g. save_sensor_data_pin.
func PinEnv(farmware string) string {
	return farmware + "_pin"
}

// Load builds the configuration for the named Farmware. path may be empty.
// The result is not validated so callers can apply further overrides; see
// Parse.
func Load(farmware, path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(farmware, getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(farmware string, getenv func(string) string) error {
	if v := getenv(EnvFarmwareURL); v != "" {
		c.FarmwareURL = v
	}
	if v := getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := getenv(EnvOSVersion); v != "" {
		c.OSVersion = v
	}
	if v := getenv(EnvImagesDir); v != "" {
		c.ImagesDir = v
	}
	if v := strings.TrimSpace(getenv(PinEnv(farmware))); v != "" {
		pin, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", PinEnv(farmware), err)
		}
		c.Pin = pin
	}
	return nil
}

// Validate checks settings that do not depend on which tool runs.
func (c Config) Validate() error {
	if c.Pin < 0 {
		return errors.New("pin must be >= 0")
	}
	switch c.Transport {
	case TransportHTTP:
	case TransportMQTT:
		if c.MQTT.Broker == "" {
			return &MissingConfigError{Key: "mqtt.broker"}
		}
		if c.MQTT.DeviceID == "" {
			return &MissingConfigError{Key: "mqtt.device_id"}
		}
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportHTTP, TransportMQTT)
	}
	return nil
}

// RequireAPI checks the settings needed to talk to the bot's API.
func (c Config) RequireAPI() error {
	if c.FarmwareURL == "" {
		return &MissingConfigError{Key: EnvFarmwareURL}
	}
	if c.Token == "" {
		return &MissingConfigError{Key: EnvToken}
	}
	return nil
}

// RequireImagesDir checks the image output directory is set.
func (c Config) RequireImagesDir() error {
	if c.ImagesDir == "" {
		return &MissingConfigError{Key: EnvImagesDir}
	}
	return nil
}

// APIURL returns the base URL for API calls. OS versions after 5 serve the
// API under api/v1/.
func (c Config) APIURL() string {
	if c.MajorVersion() > 5 {
		return c.FarmwareURL + "api/v1/"
	}
	return c.FarmwareURL
}

// APIV1URL returns the api/v1/ base URL regardless of OS version. The save
// tool always posts there.
func (c Config) APIV1URL() string {
	return c.FarmwareURL + "api/v1/"
}

// MajorVersion parses the major component of OSVersion, 0 if unparseable.
func (c Config) MajorVersion() int {
	major, _, _ := strings.Cut(strings.TrimPrefix(c.OSVersion, "v"), ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0
	}
	return n
}
