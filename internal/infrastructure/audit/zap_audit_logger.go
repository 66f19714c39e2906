package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/you/tripauth/domain"
)

// ZapAuditLogger implements domain.AuditLogger on top of structured logging.
// Events are emitted on a dedicated "audit" logger so they can be routed
// separately from application logs.
type ZapAuditLogger struct {
	logger *zap.Logger
}

// NewZapAuditLogger creates a new audit logger
func NewZapAuditLogger(logger *zap.Logger) domain.AuditLogger {
	return &ZapAuditLogger{logger: logger.Named("audit")}
}

// LogEvent implements domain.AuditLogger
func (l *ZapAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) {
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.Time("timestamp", event.Timestamp),
		zap.Bool("success", event.Success),
	}
	if event.UserID != 0 {
		fields = append(fields, zap.Uint("user_id", event.UserID))
	}
	if event.Email != "" {
		fields = append(fields, zap.String("email", event.Email))
	}
	if event.IPAddress != "" {
		fields = append(fields, zap.String("ip", event.IPAddress))
	}
	if event.VerifyID != "" {
		fields = append(fields, zap.String("verify_id", event.VerifyID))
	}
	if event.ErrorMsg != "" {
		fields = append(fields, zap.String("error", event.ErrorMsg))
	}

	if event.Success {
		l.logger.Info(string(event.EventType), fields...)
	} else {
		l.logger.Warn(string(event.EventType), fields...)
	}
}
