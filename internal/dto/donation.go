package dto

// InitiateDonationRequest carries the donor form fields. Field names match
// the web form payload.
type InitiateDonationRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Mobile      string `json:"mobile" validate:"required"`
	Address     string `json:"address" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
	Pincode     string `json:"pincode" validate:"required"`
	PAN         string `json:"pan"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	Country     string `json:"country" validate:"required"`
	// Amount is optional; 100.00 is substituted when absent.
	Amount string `json:"amount" validate:"omitempty,money"`
}

type InitiateDonationResponse struct {
	PaymentURL string `json:"payment_url"`
}

// ContactRequest is the contact-form relay payload.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message" validate:"required"`
}
