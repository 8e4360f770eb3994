package domain

import "context"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit validates the request and relays it as one email.
	// Returns *ValidationError before any delivery attempt, or *DeliveryError
	// when the mail transport fails.
	Submit(ctx context.Context, req *ContactRequest) error
}
