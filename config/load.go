package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default returns the configuration matching the reference deployment.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "INFO",
		Server: ServerConfigs{
			Host:           "127.0.0.1",
			Port:           "3012",
			MaxConnections: 100000,
		},
		Metrics: MetricsConfigs{
			Host: "127.0.0.1",
			Port: "9090",
		},
		Chat: ChatConfigs{
			Workers:          4,
			QueueSize:        8192,
			MaxMessageLength: 300,
		},
		Auth: AuthConfigs{
			PBKDF2Iterations: 4096,
		},
		Proximity: ProximityConfigs{
			DegreeWindow: 0.1,
			RadiusKm:     10,
		},
	}
}

// Load reads a TOML configuration file over the defaults. An empty path
// returns the defaults. HOST and PORT environment variables override the
// listen address either way.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		cfg.Server.Host = host
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	return cfg, nil
}
