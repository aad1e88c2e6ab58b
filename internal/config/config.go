package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port           int    `envconfig:"PORT" default:"3000" validate:"gt=0,lte=65535"`
	Environment    string `envconfig:"ENV" default:"development"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"104857600" validate:"gt=0"`
	ScratchDir     string `envconfig:"SCRATCH_DIR"`

	// Rate limiting (per client IP)
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"30" validate:"gt=0"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m" validate:"gt=0"`

	// Sampler
	MaxFrames            int           `envconfig:"MAX_FRAMES" default:"40" validate:"gte=2"`
	SamplerDecodeTimeout time.Duration `envconfig:"SAMPLER_DECODE_TIMEOUT" default:"30s" validate:"gt=0"`

	// Scoring model
	MinMotionSamples int     `envconfig:"MIN_MOTION_SAMPLES" default:"10" validate:"gte=1"`
	Contamination    float64 `envconfig:"CONTAMINATION" default:"0.25" validate:"gt=0,lte=0.5"`
	RiskThreshold    float64 `envconfig:"RISK_THRESHOLD" default:"40" validate:"gte=0,lte=100"`
	ModelSeed        uint64  `envconfig:"MODEL_SEED" default:"42"`
	ModelEstimators  int     `envconfig:"MODEL_ESTIMATORS" default:"100" validate:"gte=1,lte=1000"`

	// Alerting
	AlertChannel string        `envconfig:"ALERT_CHANNEL" default:"none" validate:"oneof=none smtp formrelay ses"`
	AlertTimeout time.Duration `envconfig:"ALERT_TIMEOUT" default:"10s" validate:"gt=0"`
	AlertFrom    string        `envconfig:"ALERT_FROM" validate:"required_if=AlertChannel smtp,required_if=AlertChannel ses,omitempty,email"`
	AlertTo      string        `envconfig:"ALERT_TO" validate:"required_unless=AlertChannel none,omitempty,email"`

	SMTPHost     string `envconfig:"SMTP_HOST" validate:"required_if=AlertChannel smtp"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587" validate:"gt=0,lte=65535"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPStartTLS bool   `envconfig:"SMTP_STARTTLS" default:"true"`

	FormRelayURL    string `envconfig:"FORM_RELAY_URL" validate:"required_if=AlertChannel formrelay,omitempty,url"`
	FormRelaySecret string `envconfig:"FORM_RELAY_SECRET"`

	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1" validate:"required_if=AlertChannel ses"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and that the selected alert channel has
// everything it needs to deliver.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) AlertsEnabled() bool {
	return c.AlertChannel != "" && c.AlertChannel != "none"
}
