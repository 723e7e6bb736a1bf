package apperrors

import (
	"net/http"
)

// Factories and predefined errors for the donation payment domain.

// ErrMissingSignature - the gateway callback carried no checksum field.
// The payload cannot be trusted at all, so nothing may be mutated.
var ErrMissingSignature = New(
	CodeMissingSignature,
	"payment",
	"Callback is missing the checksum field",
	http.StatusBadRequest,
)

// ErrInvalidSignature - the callback checksum did not verify against the
// merchant key. Treated exactly like a missing signature: no side effects.
var ErrInvalidSignature = New(
	CodeInvalidSignature,
	"payment",
	"Callback checksum verification failed",
	http.StatusBadRequest,
)

// ErrUnknownOrder - a verified callback referenced an order id with no
// donation record behind it.
func ErrUnknownOrder(err error) *AppError {
	return Wrap(err, CodeUnknownOrder, "payment", "No donation record for this order", http.StatusNotFound)
}

// ErrDuplicateOrder - the generated order id collided with an existing
// record. The unique index is the backstop for the time-based generator.
func ErrDuplicateOrder(err error) *AppError {
	return Wrap(err, CodeConflict, "payment", "Order id already exists", http.StatusConflict)
}

// ErrGatewaySigning - the checksum could not be produced at initiation.
func ErrGatewaySigning(err error) *AppError {
	return Wrap(err, CodeGatewaySigning, "payment", "Failed to sign gateway parameters", http.StatusBadGateway)
}

// ErrPersistence - the store rejected a read or write.
func ErrPersistence(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "storage", "Storage operation failed", http.StatusInternalServerError)
}

// ErrMailDelivery - the SMTP relay failed. Only the contact route surfaces
// this to the client; donation notifications are best-effort.
func ErrMailDelivery(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "mail", "Failed to send email", http.StatusInternalServerError)
}
