// Package app wires configuration, transport and usecases into an HTTP engine.
// Both the long-running server and the serverless entry build through New.
package app

import (
	"contact-api/config"
	v1 "contact-api/internal/delivery/http/v1"
	"contact-api/internal/usecase"
	"contact-api/pkg/email"
	"contact-api/pkg/logger"
	"contact-api/pkg/redis"
	"contact-api/pkg/security"
	"contact-api/pkg/validation"

	"github.com/gin-gonic/gin"
)

const serviceName = "contact-api"

// App holds the built engine and what must be released on shutdown.
type App struct {
	Engine *gin.Engine
	audit  *security.SecurityLogger
}

// New builds the application from cfg. An unreachable Redis is logged and
// skipped; everything else is local and cannot fail.
func New(cfg *config.Config) *App {
	logger.Init(cfg.LogLevel)
	gin.SetMode(ginMode(cfg.GinMode))

	var audit *security.SecurityLogger
	if cfg.AuditLogEnabled {
		audit = security.InitSecurityLogger(serviceName, security.Environment())
	}

	// Setup Email Sender
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.MailUser,
		Password: cfg.MailPassword,
	})
	if !cfg.MailConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form will return errors")
	}

	// Redis is optional
	var redisPing usecase.Pinger
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		}
		redisPing = redis.HealthCheck
	}

	contactUC := usecase.NewContactUsecase(sender, validation.New(), usecase.ContactOptions{
		Recipient:   cfg.ContactEmailTo,
		SendTimeout: cfg.MailSendTimeout,
		Audit:       audit,
	})
	healthUC := usecase.NewHealthUsecase(cfg.MailConfigured(), redisPing)

	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Redis:     redis.Client(),
		Audit:     audit,
		Config:    cfg,
	})

	return &App{Engine: router, audit: audit}
}

// Close releases Redis connections and flushes the audit log.
func (a *App) Close() {
	if err := redis.Close(); err != nil {
		logger.Log.Warn("Failed to close redis", "error", err)
	}
	_ = a.audit.Sync()
}

func ginMode(mode string) string {
	switch mode {
	case gin.ReleaseMode, gin.TestMode:
		return mode
	default:
		return gin.DebugMode
	}
}
