package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port           int    `envconfig:"PORT" default:"3000"`
	Environment    string `envconfig:"ENV" default:"development"`
	MaxImageBytes  int    `envconfig:"MAX_IMAGE_BYTES" default:"10485760"`
	MaxImagePixels int    `envconfig:"MAX_IMAGE_PIXELS" default:"40000000"`
	CORSOrigins    string `envconfig:"CORS_ORIGINS" default:"https://faicial.site"`

	// Database (optional; enables API key auth and usage counters)
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Landmark detector
	Detector          string        `envconfig:"DETECTOR" default:"mock"`
	FacemeshURL       string        `envconfig:"FACEMESH_URL" default:"http://localhost:5005"`
	FacemeshTimeout   time.Duration `envconfig:"FACEMESH_TIMEOUT" default:"30s"`
	DetectorSerialize bool          `envconfig:"DETECTOR_SERIALIZE" default:"false"`

	// Face gate
	FaceGate   string  `envconfig:"FACE_GATE" default:"none"`
	AWSRegion  string  `envconfig:"AWS_REGION" default:"us-east-1"`
	GateMargin float64 `envconfig:"GATE_MARGIN" default:"0.35"`

	// Limits
	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`

	// Report
	ReportFontPath string `envconfig:"REPORT_FONT_PATH"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values envconfig accepts but the service cannot run with.
func (c *Config) Validate() error {
	switch c.Detector {
	case "mock", "facemesh":
	default:
		return fmt.Errorf("unknown DETECTOR %q", c.Detector)
	}
	switch c.FaceGate {
	case "none", "mock", "rekognition":
	default:
		return fmt.Errorf("unknown FACE_GATE %q", c.FaceGate)
	}
	if c.GateMargin < 0 {
		return fmt.Errorf("GATE_MARGIN must be >= 0, got %v", c.GateMargin)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive, got %d", c.MaxImageBytes)
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive, got %d", c.MaxImagePixels)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase reports whether API key auth and usage tracking are enabled.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// AllowedOrigins returns CORS_ORIGINS in the comma separated form fiber's cors middleware expects.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
