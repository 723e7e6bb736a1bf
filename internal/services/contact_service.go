package services

import (
	"context"

	"donation_backend/internal/dto"
	"donation_backend/internal/logger"
	"donation_backend/internal/pkg/email"
	"donation_backend/pkg/apperrors"
)

type ContactService interface {
	Send(ctx context.Context, req *dto.ContactRequest) error
}

type ContactServiceImpl struct {
	mailer   email.Mailer
	opsInbox string
}

func NewContactService(mailer email.Mailer, opsInbox string) ContactService {
	return &ContactServiceImpl{
		mailer:   mailer,
		opsInbox: opsInbox,
	}
}

// Send relays a contact-form submission to the operations inbox. Unlike
// donation notifications this failure is surfaced to the client: the form
// submit is the delivery.
func (s *ContactServiceImpl) Send(ctx context.Context, req *dto.ContactRequest) error {
	data := email.ContactData{
		TemplateData: email.TemplateData{
			Name: req.Name,
		},
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}

	if err := s.mailer.SendContactMessage(s.opsInbox, data); err != nil {
		logger.CtxWithError(ctx, "contact form relay failed", err)
		return apperrors.ErrMailDelivery(err)
	}

	logger.CtxInfo(ctx, "contact form relayed", "from", req.Email)
	return nil
}
