package v1

import (
	"net/http"
	"time"

	"contact-api/config"
	_ "contact-api/docs" // registers the swagger document
	"contact-api/internal/delivery/http/middleware"
	"contact-api/internal/delivery/http/response"
	"contact-api/internal/domain"
	"contact-api/pkg/logger"
	"contact-api/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  domain.HealthUsecase
	Redis     *goredis.Client // optional, shared rate limit store
	Audit     *security.SecurityLogger
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{CORSAllowedOrigins: []string{"*"}}
	}

	r := gin.New()
	// ClientIP keys the rate limiter; only listed proxies may set X-Forwarded-For
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil || len(cfg.TrustedProxies) == 0 {
		if err != nil {
			logger.Log.Warn("Invalid TRUSTED_PROXIES, trusting none", "error", err)
		}
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	if !cfg.IsProduction() {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not found.")
	})

	NewHealthHandler(r, deps.HealthUC)

	var contactMW []gin.HandlerFunc
	if cfg.RateLimitEnabled {
		rl := middleware.ContactRateLimitConfig(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindowSeconds)*time.Second)
		rl.Redis = deps.Redis
		rl.FailClosed = cfg.RateLimitFailClosed
		rl.Audit = deps.Audit
		contactMW = append(contactMW, middleware.RateLimitMiddleware(rl))
	}

	api := r.Group("/api")
	NewContactHandler(api, deps.ContactUC, contactMW...) // Contact form (no auth required)

	if !cfg.IsProduction() || cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
