package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/saturnino-fabrica-de-software/deepguard/internal/config"
)

const (
	ChannelNone      = "none"
	ChannelSMTP      = "smtp"
	ChannelFormRelay = "formrelay"
	ChannelSES       = "ses"
)

// Channel delivers one message to the configured SOC recipient
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// NewChannel builds the channel selected by ALERT_CHANNEL.
// It returns a nil Channel when alerting is disabled.
func NewChannel(ctx context.Context, cfg *config.Config) (Channel, error) {
	switch cfg.AlertChannel {
	case "", ChannelNone:
		return nil, nil
	case ChannelSMTP:
		return NewSMTPChannel(SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			User:        cfg.SMTPUser,
			Password:    cfg.SMTPPassword,
			From:        cfg.AlertFrom,
			To:          cfg.AlertTo,
			StartTLS:    cfg.SMTPStartTLS,
			DialTimeout: cfg.AlertTimeout,
		}), nil
	case ChannelFormRelay:
		return NewFormRelayChannel(FormRelayConfig{
			URL:     cfg.FormRelayURL,
			To:      cfg.AlertTo,
			Secret:  cfg.FormRelaySecret,
			Timeout: cfg.AlertTimeout,
		}), nil
	case ChannelSES:
		return NewSESChannel(ctx, SESConfig{
			Region: cfg.AWSRegion,
			From:   cfg.AlertFrom,
			To:     cfg.AlertTo,
		})
	default:
		return nil, fmt.Errorf("unsupported alert channel: %s", cfg.AlertChannel)
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
