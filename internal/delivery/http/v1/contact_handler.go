package v1

import (
	"errors"
	"io"
	"net/http"

	"contact-api/internal/delivery/http/response"
	"contact-api/internal/domain"
	"contact-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Client-facing messages for the contact endpoint
const (
	MsgContactSent     = "Message sent successfully!"
	MsgFieldsRequired  = "All fields are required."
	MsgInvalidBody     = "Invalid request body."
	MsgBodyTooLarge    = "Request body too large."
	MsgContactFailed   = "Failed to send message."
	maxContactBodySize = 100 << 10
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(api *gin.RouterGroup, contactUC domain.ContactUsecase, mw ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	api.POST("/contact", append(mw, handler.SubmitContact)...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relays a contact form entry to the company mailbox. Every call sends one email.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.MessageResponse
// @Failure      400      {object}  response.ErrorResponse
// @Failure      429      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodySize)

	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		// An empty body falls through to field validation
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = c.Error(apperror.New(http.StatusRequestEntityTooLarge, MsgBodyTooLarge, err))
			return
		}
		_ = c.Error(apperror.BadRequest(MsgInvalidBody, err))
		return
	}

	if err := h.contactUC.Submit(c.Request.Context(), &req); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			_ = c.Error(apperror.BadRequest(MsgFieldsRequired, err))
			return
		}
		// The cause is logged by the error middleware, never returned
		_ = c.Error(apperror.Internal(MsgContactFailed, err))
		return
	}

	response.Success(c, http.StatusOK, MsgContactSent)
}
