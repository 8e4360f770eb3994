package v1

import (
	"net/http"

	"contact-api/internal/delivery/http/response"
	"contact-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

// NewHealthHandler registers the liveness and health routes
func NewHealthHandler(r gin.IRoutes, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}

	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)
}

// Root godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.MessageResponse
// @Router       / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	response.Success(c, http.StatusOK, "Contact API is running!")
}

// Health godoc
// @Summary      Component health
// @Description  Reports mail configuration and Redis reachability. 503 when a configured dependency is down.
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.HealthReport
// @Failure      503  {object}  domain.HealthReport
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.healthUC.Check(c.Request.Context())
	code := http.StatusOK
	if !report.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}
