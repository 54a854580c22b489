package config

import "flag"

// Parse registers the shared flags on fs, parses args, loads the file named
// by -config and the environment, then applies flags that were set
// explicitly. The merged result is validated.
func Parse(farmware string, fs *flag.FlagSet, args []string, getenv func(string) string) (Config, error) {
	path := fs.String("config", "", "YAML config file")
	pin := fs.Int("pin", 0, "sensor pin (default from "+PinEnv(farmware)+", else 59)")
	transport := fs.String("transport", "", "command channel: http or mqtt")
	broker := fs.String("broker", "", "MQTT broker address, e.g. tcp://localhost:1883")
	deviceID := fs.String("device-id", "", "bot device id for MQTT")
	imagesDir := fs.String("images-dir", "", "output directory (default from "+EnvImagesDir+")")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg, err := Load(farmware, *path, getenv)
	if err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pin":
			cfg.Pin = *pin
		case "transport":
			cfg.Transport = *transport
		case "broker":
			cfg.MQTT.Broker = *broker
		case "device-id":
			cfg.MQTT.DeviceID = *deviceID
		case "images-dir":
			cfg.ImagesDir = *imagesDir
		}
	})

	return cfg, cfg.Validate()
}
