package email

import "fmt"

// DefaultConfig returns a config suitable for local development.
func DefaultConfig() Config {
	return Config{
		SMTPHost:     "localhost",
		SMTPPort:     587,
		FromEmail:    "noreply@amritachandercharity.org.in",
		FromName:     "Amrita Chander Charity",
		TemplatePath: "./templates/email",
	}
}

// Validate checks the transport settings.
func (c Config) Validate() error {
	if c.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTPPort)
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}
