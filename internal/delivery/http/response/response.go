package response

import (
	"github.com/gin-gonic/gin"
)

// MessageResponse is the body of successful requests
type MessageResponse struct {
	Message string `json:"message" example:"Message sent successfully!"`
}

// ErrorResponse is the body of failed requests
type ErrorResponse struct {
	Error string `json:"error" example:"All fields are required."`
}

// Success sends a {"message": ...} response
func Success(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

// Error sends an {"error": ...} response and aborts the chain
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}
