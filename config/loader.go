package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPath names an environment variable that points at the config file
const EnvPath = "ZETFLOW_CONFIG"

// ErrNoConfig is returned when none of the search paths holds a config file
var ErrNoConfig = errors.New("no config file found")

var searchPaths = []string{"zetflow.yml", "config.yml"}

// Default returns the built-in configuration, matching the development backend
// reachable from an Android emulator.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: 18080},
		Feed: FeedConfig{
			Endpoint:            "ws://10.0.2.2:8080/ws",
			Topic:               "/topic/gtfs-updates",
			Host:                "/",
			DisconnectTimeoutMS: 5000,
		},
		Trips: TripsConfig{
			BaseURL:          "http://10.0.2.2:8080/api/trip",
			ConnectTimeoutMS: 10_000,
			RequestTimeoutMS: 30_000,
			SocketTimeoutMS:  30_000,
		},
		Logging: LoggingConfig{Level: "info"},
		Export:  ExportConfig{Codespace: "ZET", ValidForMS: 30_000},
	}
}

// LoadAppConfig loads and validates the configuration. An explicit path wins;
// otherwise $ZETFLOW_CONFIG, then zetflow.yml and config.yml in the working directory.
// Keys missing from the file keep their Default values.
func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates YAML config data on top of Default.
func Parse(data []byte) (*AppConfig, error) {
	return build(data, nil)
}

// Override adjusts a configuration before it is validated, e.g. from command-line flags.
type Override func(*AppConfig)

// Load reads the config file the way LoadAppConfig does, falling back to Default
// when no file exists, then applies overrides in order and validates the result.
func Load(path string, overrides ...Override) (*AppConfig, error) {
	data, err := readConfig(path)
	if err != nil && !errors.Is(err, ErrNoConfig) {
		return nil, err
	}
	return build(data, overrides)
}

func build(data []byte, overrides []Override) (*AppConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags on cfg.
func Validate(cfg *AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func readConfig(path string) ([]byte, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return data, nil
	}
	for _, p := range searchPaths {
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
	}
	return nil, ErrNoConfig
}
