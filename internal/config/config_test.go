package config

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name:    "uses defaults when nothing is set",
			envVars: map[string]string{},
			wantErr: false,
			check: func(c *Config) bool {
				return c.Port == 3000 &&
					c.Environment == "development" &&
					c.MaxFrames == 40 &&
					c.MinMotionSamples == 10 &&
					c.Contamination == 0.25 &&
					c.RiskThreshold == 40 &&
					c.ModelSeed == 42 &&
					c.AlertChannel == "none" &&
					c.AlertTimeout == 10*time.Second &&
					c.SamplerDecodeTimeout == 30*time.Second
			},
		},
		{
			name: "loads scoring overrides",
			envVars: map[string]string{
				"PORT":           "8080",
				"ENV":            "production",
				"MAX_FRAMES":     "25",
				"CONTAMINATION":  "0.15",
				"RISK_THRESHOLD": "45",
			},
			wantErr: false,
			check: func(c *Config) bool {
				return c.Port == 8080 &&
					c.IsProduction() &&
					c.MaxFrames == 25 &&
					c.Contamination == 0.15 &&
					c.RiskThreshold == 45
			},
		},
		{
			name: "loads smtp channel",
			envVars: map[string]string{
				"ALERT_CHANNEL": "smtp",
				"ALERT_FROM":    "soc@example.com",
				"ALERT_TO":      "oncall@example.com",
				"SMTP_HOST":     "smtp.example.com",
				"SMTP_USER":     "soc@example.com",
				"SMTP_PASSWORD": "app-password",
			},
			wantErr: false,
			check: func(c *Config) bool {
				return c.AlertsEnabled() &&
					c.SMTPHost == "smtp.example.com" &&
					c.SMTPPort == 587 &&
					c.SMTPStartTLS
			},
		},
		{
			name: "loads form relay channel",
			envVars: map[string]string{
				"ALERT_CHANNEL":  "formrelay",
				"ALERT_TO":       "oncall@example.com",
				"FORM_RELAY_URL": "https://relay.example.com/submit",
			},
			wantErr: false,
			check: func(c *Config) bool {
				return c.AlertChannel == "formrelay" && c.FormRelayURL == "https://relay.example.com/submit"
			},
		},
		{
			name: "fails when smtp channel has no host",
			envVars: map[string]string{
				"ALERT_CHANNEL": "smtp",
				"ALERT_FROM":    "soc@example.com",
				"ALERT_TO":      "oncall@example.com",
			},
			wantErr: true,
		},
		{
			name: "fails when form relay has no url",
			envVars: map[string]string{
				"ALERT_CHANNEL": "formrelay",
				"ALERT_TO":      "oncall@example.com",
			},
			wantErr: true,
		},
		{
			name: "fails when recipient missing for enabled channel",
			envVars: map[string]string{
				"ALERT_CHANNEL":  "formrelay",
				"FORM_RELAY_URL": "https://relay.example.com/submit",
			},
			wantErr: true,
		},
		{
			name:    "fails on unknown channel",
			envVars: map[string]string{"ALERT_CHANNEL": "pager"},
			wantErr: true,
		},
		{
			name:    "fails on contamination above one half",
			envVars: map[string]string{"CONTAMINATION": "0.7"},
			wantErr: true,
		},
		{
			name:    "fails on threshold above 100",
			envVars: map[string]string{"RISK_THRESHOLD": "120"},
			wantErr: true,
		},
		{
			name:    "fails on single frame cap",
			envVars: map[string]string{"MAX_FRAMES": "1"},
			wantErr: true,
		},
		{
			name:    "fails on malformed duration",
			envVars: map[string]string{"ALERT_TIMEOUT": "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Load() config check failed, got: %+v", cfg)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want bool
	}{
		{"development", "development", true},
		{"production", "production", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Environment: tt.env}
			assert.Equal(t, tt.want, c.IsDevelopment())
		})
	}
}

func TestConfig_AlertsEnabled(t *testing.T) {
	assert.False(t, (&Config{AlertChannel: "none"}).AlertsEnabled())
	assert.False(t, (&Config{}).AlertsEnabled())
	assert.True(t, (&Config{AlertChannel: "ses"}).AlertsEnabled())
}

func TestNewLogger_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production")

	logger.Debug("hidden")
	logger.Info("analysis completed", "verdict", "REAL")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analysis completed", entry["msg"])
	assert.Equal(t, "REAL", entry["verdict"])
}

func TestNewLogger_DevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "development")

	logger.Debug("sampling frames")

	assert.Contains(t, buf.String(), "sampling frames")
}
