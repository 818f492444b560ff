package config

import "fmt"

type Configs struct {
	Env string `toml:"env"`

	Server    ServerConfigs    `toml:"server"`
	Metrics   MetricsConfigs   `toml:"metrics"`
	Chat      ChatConfigs      `toml:"chat"`
	Auth      AuthConfigs      `toml:"auth"`
	Proximity ProximityConfigs `toml:"proximity"`
	LogLevel  string           `toml:"log_level"`
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`

	// MaxConnections caps the number of concurrent websocket sessions.
	// Further upgrade requests are refused until a session closes.
	MaxConnections int `toml:"max_connections"`

	// Compression enables zlib compression of websocket payloads.
	Compression bool `toml:"compression"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type MetricsConfigs struct {
	Enable bool   `toml:"enable"`
	Host   string `toml:"host"`
	Port   string `toml:"port"`
}

func (m MetricsConfigs) Address() string {
	return fmt.Sprintf("%s:%s", m.Host, m.Port)
}

type ChatConfigs struct {
	// Workers is the fixed size of the command worker pool.
	Workers int `toml:"workers"`

	// QueueSize is the capacity of the shared command queue. Producers
	// block once the queue is full.
	QueueSize int `toml:"queue_size"`

	// MaxMessageLength is the longest accepted chat payload in bytes.
	// Longer messages are dropped without a response.
	MaxMessageLength int `toml:"max_message_length"`
}

type AuthConfigs struct {
	// PBKDF2Iterations is the iteration count of the password KDF.
	PBKDF2Iterations int `toml:"pbkdf2_iterations"`
}

type ProximityConfigs struct {
	// DegreeWindow is the rectangular pre-filter threshold in degrees of
	// latitude and longitude.
	DegreeWindow float64 `toml:"degree_window"`

	// RadiusKm is the broadcast range in kilometers.
	RadiusKm float64 `toml:"radius_km"`
}
