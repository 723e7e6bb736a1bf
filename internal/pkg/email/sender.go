package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// GomailSender is the SMTP-backed Mailer.
type GomailSender struct {
	config    Config
	templates *TemplateManager
	dialer    *gomail.Dialer
}

func NewGomailSender(config Config) (Mailer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	return &GomailSender{
		config:    config,
		templates: tm,
		dialer:    gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.Username, config.Password),
	}, nil
}

// Send delivers an already-rendered message.
func (s *GomailSender) Send(msg *Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *GomailSender) sendTemplate(to, subject, templateName string, data interface{}) error {
	htmlBody, err := s.templates.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return s.Send(&Message{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

// SendDonationThanks sends the donor thank-you email.
func (s *GomailSender) SendDonationThanks(to string, data DonationData) error {
	return s.sendTemplate(to, "Thank You for Your Generous Donation", "donation_thanks", data)
}

// SendDonationReceived notifies the operations inbox about a settled donation.
func (s *GomailSender) SendDonationReceived(to string, data DonationData) error {
	return s.sendTemplate(to, "Donation Received Notification", "donation_received", data)
}

// SendDonationFailed tells the donor their payment attempt did not go through.
func (s *GomailSender) SendDonationFailed(to string, data DonationData) error {
	return s.sendTemplate(to, "Donation Attempt Unsuccessful", "donation_failed", data)
}

// SendContactMessage relays a contact-form submission.
func (s *GomailSender) SendContactMessage(to string, data ContactData) error {
	return s.sendTemplate(to, "New Contact Form Submission", "contact", data)
}
