package config

import "time"

// Config holds client configuration values.
type Config struct {
	// Server is the origin of the chat page; an https origin selects wss.
	Server         string        `mapstructure:"server" yaml:"server"`
	Room           string        `mapstructure:"room" yaml:"room"`
	User           string        `mapstructure:"user" yaml:"user"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Server:         "http://localhost:8000",
		ConnectTimeout: 10 * time.Second,
		WriteTimeout:   5 * time.Second,
		LogLevel:       "warn",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Server != "" {
		c.Server = other.Server
	}
	if other.Room != "" {
		c.Room = other.Room
	}
	if other.User != "" {
		c.User = other.User
	}
	if other.ConnectTimeout != 0 {
		c.ConnectTimeout = other.ConnectTimeout
	}
	if other.WriteTimeout != 0 {
		c.WriteTimeout = other.WriteTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}
