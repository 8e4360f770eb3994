package usecase

import (
	"context"
	"errors"
	"time"

	"contact-api/internal/domain"
	"contact-api/pkg/email"
	"contact-api/pkg/logger"
	"contact-api/pkg/security"
	"contact-api/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// DefaultSendTimeout bounds a delivery when ContactOptions leaves it unset.
const DefaultSendTimeout = 10 * time.Second

// ContactOptions configures the contact usecase.
type ContactOptions struct {
	Recipient   string        // fixed destination mailbox
	SendTimeout time.Duration // bound on a single Send call
	Audit       *security.SecurityLogger
}

type contactUsecase struct {
	sender      email.Sender
	validate    *validator.Validate
	recipient   string
	sendTimeout time.Duration
	audit       *security.SecurityLogger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(sender email.Sender, validate *validator.Validate, opts ContactOptions) domain.ContactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}
	return &contactUsecase{
		sender:      sender,
		validate:    validate,
		recipient:   opts.Recipient,
		sendTimeout: opts.SendTimeout,
		audit:       opts.Audit,
	}
}

// Submit validates the contact request and sends exactly one email.
// There is no retry and no deduplication.
func (uc *contactUsecase) Submit(ctx context.Context, req *domain.ContactRequest) error {
	if req == nil {
		req = &domain.ContactRequest{}
	}

	if err := uc.validate.Struct(req); err != nil {
		fields := validation.FieldNames(err)
		if len(fields) == 0 {
			// not a field error (e.g. invalid validation target)
			return &domain.ValidationError{Fields: []string{"name", "email", "message"}}
		}
		logger.Log.Debug("Contact submission rejected", "errors", validation.FormatValidationErrors(err))
		uc.audit.LogContactRejected(ctx, req.Email, fields)
		return &domain.ValidationError{Fields: fields}
	}

	body, err := email.RenderContactEmail(email.ContactEmailData{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		Message:     req.Message,
	})
	if err != nil {
		return uc.deliveryFailed(ctx, req, err)
	}

	msg := email.Message{
		From:    req.Email,
		To:      uc.recipient,
		ReplyTo: req.Email,
		Subject: email.ContactSubject(req.Name),
		HTML:    body,
	}

	sendCtx, cancel := context.WithTimeout(ctx, uc.sendTimeout)
	defer cancel()

	if err := uc.sender.Send(sendCtx, msg); err != nil {
		return uc.deliveryFailed(ctx, req, err)
	}

	uc.audit.LogContactSubmitted(ctx, req.Email)
	return nil
}

func (uc *contactUsecase) deliveryFailed(ctx context.Context, req *domain.ContactRequest, err error) error {
	uc.audit.LogContactDeliveryFailed(ctx, req.Email, failureReason(err))
	return &domain.DeliveryError{Err: err}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, email.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "transport_error"
	}
}
