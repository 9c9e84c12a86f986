package course

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/coursebridge/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// SignatureHeader carries the hex HMAC-SHA256 of "<timestamp>.<body>"
	SignatureHeader = "X-CourseBridge-Signature"
	// TimestampHeader carries the unix time the body was signed at
	TimestampHeader = "X-CourseBridge-Timestamp"

	maxResponseSize = 64 * 1024
)

var (
	// ErrPlatformUnavailable is returned when the course platform cannot be reached
	// or keeps answering with 5xx after all retries.
	ErrPlatformUnavailable = errors.New("course: platform unavailable")
	// ErrRequestRejected is returned for 4xx answers, which are not retried
	ErrRequestRejected = errors.New("course: request rejected")
)

// LinkRequest is the webhook body sent to the course platform
type LinkRequest struct {
	ProductID int64   `json:"product_id"`
	CourseIDs []int64 `json:"course_ids"`
}

// HTTPGateway posts course link requests to the course platform webhook
type HTTPGateway struct {
	url        string
	secret     []byte
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewHTTPGateway creates a gateway for cfg.WebhookURL
func NewHTTPGateway(cfg config.CourseConfig, logger *zap.Logger) (*HTTPGateway, error) {
	if cfg.WebhookURL == "" {
		return nil, errors.New("course: webhook url is required")
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &HTTPGateway{
		url:        cfg.WebhookURL,
		secret:     []byte(cfg.WebhookSecret),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.RetryBaseDelay,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// LinkProduct tells the platform that productID grants access to courseIDs.
// 5xx answers and transport failures are retried with exponential backoff.
func (g *HTTPGateway) LinkProduct(ctx context.Context, productID int64, courseIDs []int64) error {
	body, err := json.Marshal(LinkRequest{ProductID: productID, CourseIDs: courseIDs})
	if err != nil {
		return fmt.Errorf("course: failed to marshal request: %w", err)
	}

	attempt := 0
	op := func() error {
		attempt++
		if err := g.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		return g.post(ctx, body)
	}
	notify := func(err error, wait time.Duration) {
		g.logger.Warn("course webhook failed, retrying",
			zap.Int64("product_id", productID),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, g.backOff(ctx), notify); err != nil {
		return err
	}

	g.logger.Debug("course webhook delivered",
		zap.Int64("product_id", productID),
		zap.Int("attempts", attempt),
	)
	return nil
}

func (g *HTTPGateway) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if g.baseDelay > 0 {
		b.InitialInterval = g.baseDelay
	}
	b.MaxElapsedTime = 0
	retries := g.maxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

func (g *HTTPGateway) post(ctx context.Context, body []byte) error {
	timestamp := strconv.FormatInt(g.now().Unix(), 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("course: failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(TimestampHeader, timestamp)
	if len(g.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(g.secret, timestamp, body))
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d", ErrPlatformUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return backoff.Permanent(fmt.Errorf("%w: HTTP %d", ErrRequestRejected, resp.StatusCode))
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of "<timestamp>.<body>" keyed by secret
func Sign(secret []byte, timestamp string, body []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(timestamp))
	h.Write([]byte("."))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
