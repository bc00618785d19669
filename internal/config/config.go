package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"face-lock/internal/xdg"
)

// ---- Animation Style Presets

// Style names an entry or exit animation.
type Style string

const (
	StyleBounce  Style = "bounce"
	StyleSlideUp Style = "slide-up"
)

// ClockFont names a clock rendering style.
type ClockFont string

const (
	ClockDigital  ClockFont = "digital"
	ClockArtistic ClockFont = "artistic"
)

// Config is the tunable parameter snapshot for one lock session. It is
// loaded once before the controller starts and never mutated afterwards.
type Config struct {
	CameraIndex       int       `json:"camera_index"`
	Tolerance         float64   `json:"tolerance"`
	EnableAnimations  bool      `json:"enable_animations"`
	AnimDurationIn    float64   `json:"anim_duration_in"`
	AnimDurationOut   float64   `json:"anim_duration_out"`
	AnimInStyle       Style     `json:"anim_in_style"`
	AnimOutStyle      Style     `json:"anim_out_style"`
	EnableFace        bool      `json:"enable_face_recognition"`
	EnableFingerprint bool      `json:"enable_fingerprint"`
	ClockFont         ClockFont `json:"clock_font"`
	HintText          string    `json:"hint_text"`
	ShakeIntensity    int       `json:"shake_intensity"`
	DefaultSession    string    `json:"default_session"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CameraIndex:       0,
		Tolerance:         0.6,
		EnableAnimations:  true,
		AnimDurationIn:    0.55,
		AnimDurationOut:   0.60,
		AnimInStyle:       StyleBounce,
		AnimOutStyle:      StyleSlideUp,
		EnableFace:        true,
		EnableFingerprint: true,
		ClockFont:         ClockDigital,
		HintText:          "Use ←/→ to change session. Space for password.",
		ShakeIntensity:    3,
		DefaultSession:    "auto",
	}
}

// Load reads the config file, filling missing keys with defaults. A
// missing or unparseable file yields the defaults: the lock must still
// come up when its configuration is broken. The file may contain //
// comments and trailing commas.
func Load() Config {
	path, err := xdg.ConfigFile()
	if err != nil {
		return Default()
	}
	return LoadFile(path)
}

// LoadFile reads a specific config file path. See Load.
func LoadFile(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return Default()
	}

	cfg.clamp()
	return cfg
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := xdg.ConfigFile()
	if err != nil {
		return fmt.Errorf("getting config file path: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// clamp pins loaded values into their valid ranges.
func (c *Config) clamp() {
	if c.CameraIndex < 0 {
		c.CameraIndex = 0
	}
	if c.Tolerance < 0 {
		c.Tolerance = 0
	}
	if c.Tolerance > 1 {
		c.Tolerance = 1
	}
	if c.AnimDurationIn <= 0 {
		c.AnimDurationIn = Default().AnimDurationIn
	}
	if c.AnimDurationOut <= 0 {
		c.AnimDurationOut = Default().AnimDurationOut
	}
	if c.ShakeIntensity < 0 {
		c.ShakeIntensity = 0
	}
	switch c.AnimInStyle {
	case StyleBounce, StyleSlideUp:
	default:
		c.AnimInStyle = StyleBounce
	}
	switch c.AnimOutStyle {
	case StyleBounce, StyleSlideUp:
	default:
		c.AnimOutStyle = StyleSlideUp
	}
}
