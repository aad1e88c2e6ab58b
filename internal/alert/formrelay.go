package alert

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SignatureHeader carries the HMAC of the form body when a secret is configured
const SignatureHeader = "X-Deepguard-Signature"

type FormRelayConfig struct {
	URL     string
	To      string
	Secret  string
	Timeout time.Duration
}

// FormRelayChannel posts alerts to a form-to-email relay endpoint
type FormRelayChannel struct {
	cfg    FormRelayConfig
	client *http.Client
}

func NewFormRelayChannel(cfg FormRelayConfig) *FormRelayChannel {
	return &FormRelayChannel{
		cfg: cfg,
		client: &http.Client{
			Timeout: orDefault(cfg.Timeout, 10*time.Second),
		},
	}
}

func (c *FormRelayChannel) Name() string {
	return ChannelFormRelay
}

func (c *FormRelayChannel) Send(ctx context.Context, msg Message) error {
	form := url.Values{}
	form.Set("email", c.cfg.To)
	form.Set("subject", msg.Subject)
	form.Set("message", msg.Body)
	payload := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Deepguard-Alert/1.0")
	if c.cfg.Secret != "" {
		req.Header.Set(SignatureHeader, signForm(c.cfg.Secret, payload))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post form relay: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("form relay returned HTTP %d", resp.StatusCode)
	}

	return nil
}

// signForm returns the hex HMAC-SHA256 of the encoded form, prefixed with
// the algorithm so relays can reject unknown schemes
func signForm(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
