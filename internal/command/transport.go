package command

import (
	"fmt"

	"github.com/sweeney/sensor-plot/internal/config"
)

// Dial returns the publisher for the configured transport. Over HTTP,
// commands are posted to apiURL+"celery_script".
func Dial(cfg config.Config, apiURL string) (Publisher, error) {
	switch cfg.Transport {
	case config.TransportHTTP:
		if err := cfg.RequireAPI(); err != nil {
			return nil, err
		}
		return NewHTTPPublisher(apiURL, cfg.Token), nil
	case config.TransportMQTT:
		p, err := NewMQTTPublisher(MQTTConfig{
			Broker:   cfg.MQTT.Broker,
			DeviceID: cfg.MQTT.DeviceID,
			Token:    cfg.Token,
			ClientID: cfg.MQTT.ClientID,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
