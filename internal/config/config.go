package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// GracePeriod is how long an empty room survives before it is purged.
	GracePeriod time.Duration `mapstructure:"grace_period" yaml:"grace_period"`
	// SendBuffer is the per-connection outbound event buffer.
	SendBuffer int `mapstructure:"send_buffer" yaml:"send_buffer"`
	// MaxMessageBytes caps a single inbound WebSocket frame.
	MaxMessageBytes int64 `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	// MessageRateLimit caps inbound messages per connection per minute.
	// Zero disables the limit.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`

	// UploadDir is where uploaded media blobs are stored.
	UploadDir string `mapstructure:"upload_dir" yaml:"upload_dir"`
	// MediaDBPath is the sqlite file indexing uploaded media.
	MediaDBPath string `mapstructure:"media_db_path" yaml:"media_db_path"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":5000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		GracePeriod:       5 * time.Second,
		SendBuffer:        16,
		MaxMessageBytes:   1 << 20,
		MessageRateLimit:  0,
		UploadDir:         "uploads",
		MediaDBPath:       "roomcast.db",
	}
}
