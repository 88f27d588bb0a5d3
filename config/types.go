package config

import "time"

// ServerConfig contains the local HTTP server configuration
type ServerConfig struct {
	Port        int      `yaml:"port" validate:"gte=0,lte=65535"`
	CORSOrigins []string `yaml:"corsOrigins"`
}

// FeedConfig describes the broker connection and the topic carrying vehicle positions
type FeedConfig struct {
	Endpoint            string `yaml:"endpoint" validate:"required,url"`
	Topic               string `yaml:"topic" validate:"required"`
	Host                string `yaml:"host"`
	HeartbeatMS         int    `yaml:"heartbeatMS" validate:"gte=0"`
	DisconnectTimeoutMS int    `yaml:"disconnectTimeoutMS" validate:"gte=0"`
}

// TripsConfig contains trip detail lookup configuration
type TripsConfig struct {
	BaseURL          string `yaml:"baseURL" validate:"required,url"`
	ConnectTimeoutMS int    `yaml:"connectTimeoutMS" validate:"gt=0"`
	RequestTimeoutMS int    `yaml:"requestTimeoutMS" validate:"gt=0"`
	SocketTimeoutMS  int    `yaml:"socketTimeoutMS" validate:"gte=0"`
}

// LoggingConfig selects the log level and encoder
type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// ExportConfig contains SIRI export settings
type ExportConfig struct {
	Codespace  string `yaml:"codespace"`
	ValidForMS int    `yaml:"validForMS" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Feed    FeedConfig    `yaml:"feed" validate:"required"`
	Trips   TripsConfig   `yaml:"trips" validate:"required"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

// Heartbeat returns the STOMP heart-beat interval; zero disables heart-beating.
func (c FeedConfig) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatMS) * time.Millisecond
}

// DisconnectTimeout bounds the DISCONNECT handshake on teardown.
func (c FeedConfig) DisconnectTimeout() time.Duration {
	return time.Duration(c.DisconnectTimeoutMS) * time.Millisecond
}

func (c TripsConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMS) * time.Millisecond
}

func (c TripsConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

func (c TripsConfig) SocketTimeout() time.Duration {
	return time.Duration(c.SocketTimeoutMS) * time.Millisecond
}

// ValidFor is how long an exported SIRI delivery stays valid.
func (c ExportConfig) ValidFor() time.Duration {
	return time.Duration(c.ValidForMS) * time.Millisecond
}
