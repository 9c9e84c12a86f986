package course

import (
	"context"

	"github.com/coursebridge/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Gateway is implemented by HTTPGateway and LoggingGateway
type Gateway interface {
	LinkProduct(ctx context.Context, productID int64, courseIDs []int64) error
}

// NewGateway returns an HTTP gateway when a webhook URL is configured and a
// logging gateway otherwise.
func NewGateway(cfg config.CourseConfig, logger *zap.Logger) (Gateway, error) {
	if cfg.WebhookURL == "" {
		logger.Info("course webhook not configured, using logging gateway")
		return NewLoggingGateway(logger), nil
	}
	gw, err := NewHTTPGateway(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("course webhook gateway initialized", zap.String("url", cfg.WebhookURL))
	return gw, nil
}
