package types

import "time"

// Runtime configuration, published retained on config/<service>.

type AnimatorConfig struct {
	Brightness uint8         `json:"brightness"` // 0..MaxBrightness
	Saturation uint8         `json:"saturation"`
	Value      uint8         `json:"value"`
	Interval   time.Duration `json:"interval"`
}

type HeartbeatConfig struct {
	Interval time.Duration `json:"interval"`
}

// Config is everything the persisted record can override.
type Config struct {
	Animator  AnimatorConfig  `json:"animator"`
	Heartbeat HeartbeatConfig `json:"heartbeat"`
	// Source is "default" or "flash".
	Source string `json:"source"`
}

const (
	// MaxBrightness caps the LED duty cycle regardless of configuration.
	MaxBrightness = 64

	DefaultBrightness = 10
	DefaultInterval   = 20 * time.Millisecond
	DefaultHeartbeat  = 1 * time.Second

	SourceDefault = "default"
	SourceFlash   = "flash"
)

// DefaultConfig is used when no valid record is stored.
func DefaultConfig() Config {
	return Config{
		Animator: AnimatorConfig{
			Brightness: DefaultBrightness,
			Saturation: 255,
			Value:      255,
			Interval:   DefaultInterval,
		},
		Heartbeat: HeartbeatConfig{Interval: DefaultHeartbeat},
		Source:    SourceDefault,
	}
}
