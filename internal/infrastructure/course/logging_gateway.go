package course

import (
	"context"

	"go.uber.org/zap"
)

// LoggingGateway only logs link requests. Used when no webhook is configured.
type LoggingGateway struct {
	logger *zap.Logger
}

func NewLoggingGateway(logger *zap.Logger) *LoggingGateway {
	return &LoggingGateway{logger: logger}
}

func (g *LoggingGateway) LinkProduct(ctx context.Context, productID int64, courseIDs []int64) error {
	g.logger.Info("course link requested (no webhook configured)",
		zap.Int64("product_id", productID),
		zap.Int64s("course_ids", courseIDs),
	)
	return nil
}
