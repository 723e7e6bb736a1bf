package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// TemplateManager loads and renders the email templates.
type TemplateManager struct {
	templates map[string]*template.Template
	config    Config
}

// NewTemplateManager loads every known template, falling back to the
// builtin versions when no file exists on disk.
func NewTemplateManager(config Config) (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
		config:    config,
	}

	templates := []string{
		"donation_thanks",
		"donation_received",
		"donation_failed",
		"contact",
	}

	for _, name := range templates {
		tpl, err := tm.loadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", name, err)
		}
		tm.templates[name] = tpl
	}

	return tm, nil
}

func (tm *TemplateManager) loadTemplate(name string) (*template.Template, error) {
	if tm.config.TemplatePath != "" {
		contentPath := filepath.Join(tm.config.TemplatePath, name+".html")
		if tpl, err := template.ParseFiles(contentPath); err == nil {
			return tpl, nil
		}
	}
	return tm.getBuiltinTemplate(name)
}

func (tm *TemplateManager) getBuiltinTemplate(name string) (*template.Template, error) {
	var tplText string

	switch name {
	case "donation_thanks":
		tplText = donationThanksTemplate
	case "donation_received":
		tplText = donationReceivedTemplate
	case "donation_failed":
		tplText = donationFailedTemplate
	case "contact":
		tplText = contactTemplate
	default:
		return nil, fmt.Errorf("unknown template: %s", name)
	}

	return template.New(name).Parse(tplText)
}

// Render executes the named template.
func (tm *TemplateManager) Render(templateName string, data interface{}) (string, error) {
	tpl, exists := tm.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}

// Builtin fallback templates.
const (
	donationThanksTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Thank You for Your Generous Donation</title>
</head>
<body>
    <p>Dear {{.Name}},</p>
    <p>We are deeply grateful for your generous donation. Your support helps us continue our mission to make a meaningful impact.</p>
    <p><strong>Transaction Details:</strong></p>
    <p>Order ID: {{.OrderID}}</p>
    <p>Amount: &#8377;{{.Amount}}</p>
    <p>Thank you for being a part of our community.</p>
    <p>Warm regards,</p>
    <p>The {{.CharityName}} Team</p>
</body>
</html>`

	donationReceivedTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Donation Received Notification</title>
</head>
<body>
    <p>Dear Trust Team,</p>
    <p>We have received a new donation.</p>
    <p><strong>Donor Details:</strong></p>
    <p>Name: {{.Name}}</p>
    <p>Email: {{.DonorEmail}}</p>
    <p>Order ID: {{.OrderID}}</p>
    <p>Amount: &#8377;{{.Amount}}</p>
    <p>Thank you for your continued support in managing these contributions.</p>
    <p>Warm regards,</p>
    <p>The {{.CharityName}} Team</p>
</body>
</html>`

	donationFailedTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Donation Attempt Unsuccessful</title>
</head>
<body>
    <p>Dear {{.Name}},</p>
    <p>We regret to inform you that your recent donation attempt was unsuccessful. We truly appreciate your intention to support our cause.</p>
    <p><strong>Transaction Details:</strong></p>
    <p>Order ID: {{.OrderID}}</p>
    <p>If you would like to try again, please visit our <a href="{{.DonateURL}}">donation page</a>. If you have any questions or need assistance, feel free to contact us.</p>
    <p>Thank you for your kindness and support.</p>
    <p>Warm regards,</p>
    <p>The {{.CharityName}} Team</p>
</body>
</html>`

	contactTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
</head>
<body>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Phone:</strong> {{.Phone}}</p>
    <p><strong>Message:</strong> {{.Message}}</p>
</body>
</html>`
)
