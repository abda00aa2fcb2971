package bootstrap

import (
	"context"
	"time"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ZapAuditLogger writes audit events through the process logger under
// the "audit" name so they can be routed separately from app logs.
type ZapAuditLogger struct {
	logger *zap.Logger
}

func NewZapAuditLogger(logger *zap.Logger) *ZapAuditLogger {
	if logger == nil {
		logger = zap.L()
	}
	return &ZapAuditLogger{logger: logger.Named("audit")}
}

func (l *ZapAuditLogger) Log(ctx context.Context, entry AuditEvent) {
	fields := []zap.Field{
		zap.String("occurred_at", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	if len(entry.Meta) > 0 {
		fields = append(fields, zap.Any("meta", entry.Meta))
	}
	l.logger.Info("audit event", fields...)
}
