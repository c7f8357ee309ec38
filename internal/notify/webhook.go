package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

// Webhook request headers.
const (
	HeaderSignature  = "X-Fintrack-Signature"
	HeaderTimestamp  = "X-Fintrack-Timestamp"
	HeaderDeliveryID = "X-Fintrack-Delivery-Id"
)

// minWebhookSecretLength is the shortest accepted signing secret, in bytes.
const minWebhookSecretLength = 32

// retryDelays are the waits between delivery attempts. Delivery runs
// inside the request that triggered the alert, so they stay short.
var retryDelays = []time.Duration{
	250 * time.Millisecond,
	time.Second,
}

// jitterFactor is the ±fraction of jitter applied to retry delays.
const jitterFactor = 0.2

// WebhookConfig configures a WebhookPublisher.
type WebhookConfig struct {
	URL    string
	Secret string

	// AllowPrivate permits plain HTTP and private or loopback targets.
	// Only meant for local development and tests.
	AllowPrivate bool

	// Client overrides the HTTP client; nil uses a client with delivery
	// timeouts that does not follow redirects.
	Client *http.Client
}

// WebhookPublisher POSTs alerts as signed JSON to a single endpoint.
type WebhookPublisher struct {
	url    string
	secret string
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewWebhookPublisher validates the target and secret and returns a publisher.
func NewWebhookPublisher(cfg WebhookConfig, logger *slog.Logger) (*WebhookPublisher, error) {
	if len(cfg.Secret) < minWebhookSecretLength {
		return nil, fmt.Errorf("webhook secret must be at least %d bytes", minWebhookSecretLength)
	}
	if err := ValidateTargetURL(cfg.URL, cfg.AllowPrivate); err != nil {
		return nil, fmt.Errorf("webhook target: %w", err)
	}

	client := cfg.Client
	if client == nil {
		client = newHTTPClient()
	}

	return &WebhookPublisher{
		url:    cfg.URL,
		secret: cfg.Secret,
		client: client,
		logger: logger.With("component", "notify.webhook", "target", ExtractHost(cfg.URL)),
		now:    time.Now,
		sleep:  sleepContext,
	}, nil
}

// errPermanent marks a response that will not succeed on retry.
var errPermanent = errors.New("permanent delivery failure")

// PublishBudgetExceeded delivers the alert, retrying network errors,
// 429 and 5xx responses until the attempts or ctx run out.
func (p *WebhookPublisher) PublishBudgetExceeded(ctx context.Context, alert BudgetExceeded) error {
	body, err := alert.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	deliveryID := ulid.Make().String()

	var lastErr error
	for attempt := 0; attempt <= len(retryDelays); attempt++ {
		if attempt > 0 {
			if err := p.sleep(ctx, withJitter(retryDelays[attempt-1])); err != nil {
				return fmt.Errorf("deliver webhook %s: %w (last error: %v)", deliveryID, err, lastErr)
			}
		}

		lastErr = p.deliver(ctx, deliveryID, body)
		if lastErr == nil {
			p.logger.DebugContext(ctx, "budget alert delivered",
				"delivery_id", deliveryID,
				"attempts", attempt+1,
			)
			return nil
		}
		if errors.Is(lastErr, errPermanent) {
			break
		}
		p.logger.WarnContext(ctx, "webhook delivery attempt failed",
			"delivery_id", deliveryID,
			"attempt", attempt+1,
			"error", lastErr,
		)
	}

	return fmt.Errorf("deliver webhook %s: %w", deliveryID, lastErr)
}

func (p *WebhookPublisher) deliver(ctx context.Context, deliveryID string, body []byte) error {
	ts := p.now().Unix()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", errPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Fintrack-Alerts/1.0")
	req.Header.Set(HeaderSignature, GenerateSignature(p.secret, ts, body))
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(HeaderDeliveryID, deliveryID)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("endpoint returned %d", resp.StatusCode)
	default:
		return fmt.Errorf("%w: endpoint returned %d", errPermanent, resp.StatusCode)
	}
}

// Close releases idle connections.
func (p *WebhookPublisher) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// GenerateSignature creates the HMAC-SHA256 signature of a delivery.
// The signed string is "{timestamp}.{body}".
func GenerateSignature(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte{'.'})
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Signature verification errors.
var (
	ErrReplayWindowExceeded = errors.New("timestamp outside replay window")
	ErrInvalidSignature     = errors.New("invalid signature")
)

// ValidateSignature verifies a delivery signature and rejects timestamps
// further than window from now. Receivers use it to authenticate alerts.
func ValidateSignature(secret, signature string, timestamp int64, body []byte, now time.Time, window time.Duration) error {
	if d := now.Unix() - timestamp; d > int64(window.Seconds()) || -d > int64(window.Seconds()) {
		return ErrReplayWindowExceeded
	}
	expected := GenerateSignature(secret, timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func withJitter(base time.Duration) time.Duration {
	jitter := (rand.Float64()*2 - 1) * float64(base) * jitterFactor
	return time.Duration(float64(base) + jitter)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: PublishTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   2 * time.Second,
			ResponseHeaderTimeout: 3 * time.Second,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
