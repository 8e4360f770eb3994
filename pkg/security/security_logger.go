package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audit event
type EventType string

const (
	EventContactSubmitted      EventType = "contact_submitted"
	EventContactRejected       EventType = "contact_rejected"
	EventContactDeliveryFailed EventType = "contact_delivery_failed"
	EventRateLimitTriggered    EventType = "rate_limit_triggered"
)

// SecurityEvent represents an audit event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger provides structured logging for audit events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

type ctxKey struct{}

// RequestMeta is the client information attached to a request context so
// layers below the HTTP handler can audit without seeing gin.
type RequestMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

// WithRequestMeta returns ctx carrying meta.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, ctxKey{}, meta)
}

// RequestMetaFrom extracts request metadata; the zero value when absent.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(ctxKey{}).(RequestMeta)
	return meta
}

var defaultLogger *SecurityLogger

// InitSecurityLogger initializes the audit logger with Zap
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Set output to stdout for container/serverless environments
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	sl := NewSecurityLogger(logger, serviceName, environment)
	defaultLogger = sl
	return sl
}

// NewSecurityLogger wraps an existing zap logger without touching the default.
func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// NopLogger returns a logger that discards every event.
func NopLogger() *SecurityLogger {
	return NewSecurityLogger(zap.NewNop(), "", "")
}

// DefaultLogger returns the default audit logger instance, or nil before
// InitSecurityLogger was called.
func DefaultLogger() *SecurityLogger {
	return defaultLogger
}

// Log logs an audit event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment

	level := zapcore.InfoLevel
	switch event.Event {
	case EventContactRejected, EventRateLimitTriggered:
		level = zapcore.WarnLevel
	case EventContactDeliveryFailed:
		level = zapcore.ErrorLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogContactSubmitted records a delivered submission.
func (sl *SecurityLogger) LogContactSubmitted(ctx context.Context, email string) {
	sl.logContact(ctx, EventContactSubmitted, email, nil)
}

// LogContactRejected records a submission refused by validation.
func (sl *SecurityLogger) LogContactRejected(ctx context.Context, email string, fields []string) {
	sl.logContact(ctx, EventContactRejected, email, map[string]interface{}{"missing_fields": fields})
}

// LogContactDeliveryFailed records a submission the transport did not accept.
// Only the error class is kept; provider messages may echo addresses.
func (sl *SecurityLogger) LogContactDeliveryFailed(ctx context.Context, email string, reason string) {
	sl.logContact(ctx, EventContactDeliveryFailed, email, map[string]interface{}{"reason": reason})
}

func (sl *SecurityLogger) logContact(ctx context.Context, event EventType, email string, details map[string]interface{}) {
	meta := RequestMetaFrom(ctx)
	ev := SecurityEvent{
		Event:     event,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		RequestID: meta.RequestID,
		Details:   details,
	}
	if strings.TrimSpace(email) != "" {
		ev.SubjectType = "email"
		ev.SubjectValue = MaskEmail(email)
	}
	sl.Log(ctx, ev)
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	if sl == nil {
		return nil
	}
	return sl.zapLogger.Sync()
}

// --- Helper Functions ---

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex < 0 {
		return HashValue(email)
	}
	if atIndex <= 1 {
		return "***" + email[atIndex:]
	}
	return email[:1] + "***" + email[atIndex:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

// Environment maps GIN_MODE to the environment label used in audit events.
func Environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
