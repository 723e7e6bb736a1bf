package email

// Message is one outgoing email.
type Message struct {
	To       []string
	Subject  string
	HTMLBody string
}

// TemplateData is the base payload for email templates.
type TemplateData struct {
	Name         string
	Subject      string
	CharityName  string
	SupportEmail string
}

// DonationData fills the donor-facing and internal donation templates.
type DonationData struct {
	TemplateData
	DonorEmail string
	OrderID    string
	Amount     string
	DonateURL  string
}

// ContactData fills the contact-form relay template.
type ContactData struct {
	TemplateData
	Email   string
	Phone   string
	Message string
}

// Config holds the SMTP transport settings.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TemplatePath string
}

// Mailer sends already-rendered transactional email. Failures are reported
// to the caller; whether they are fatal is the caller's policy.
type Mailer interface {
	Send(msg *Message) error
	SendDonationThanks(to string, data DonationData) error
	SendDonationReceived(to string, data DonationData) error
	SendDonationFailed(to string, data DonationData) error
	SendContactMessage(to string, data ContactData) error
}
