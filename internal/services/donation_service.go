package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"donation_backend/internal/dto"
	"donation_backend/internal/logger"
	"donation_backend/internal/models"
	"donation_backend/internal/pkg/email"
	"donation_backend/internal/repositories"
	"donation_backend/internal/services/payment"
	"donation_backend/pkg/apperrors"
)

// GatewayClient is the narrow contract the workflow needs from the payment
// gateway: pure signing/verification plus URL assembly. Implemented by
// payment.PaytmService.
type GatewayClient interface {
	BuildTransactionParams(orderID, email, mobile, amount string) map[string]string
	GenerateChecksum(params map[string]string) (string, error)
	VerifyChecksum(params map[string]string, checksum string) bool
	PaymentURL(params map[string]string) string
}

// CallbackOutcome is the terminal result of a verified gateway callback.
// The HTTP boundary turns it into a client redirect.
type CallbackOutcome struct {
	RedirectURL    string
	Settled        bool
	AlreadySettled bool
}

type DonationService interface {
	Initiate(ctx context.Context, req *dto.InitiateDonationRequest) (string, error)
	HandleCallback(ctx context.Context, form map[string]string) (*CallbackOutcome, error)
	FailureRedirect() string
}

type DonationServiceImpl struct {
	repo        repositories.DonationRepository
	gateway     GatewayClient
	mailer      email.Mailer
	frontendURL string
	opsInbox    string
	charityName string
}

func NewDonationService(
	repo repositories.DonationRepository,
	gateway GatewayClient,
	mailer email.Mailer,
	frontendURL string,
	opsInbox string,
	charityName string,
) DonationService {
	return &DonationServiceImpl{
		repo:        repo,
		gateway:     gateway,
		mailer:      mailer,
		frontendURL: frontendURL,
		opsInbox:    opsInbox,
		charityName: charityName,
	}
}

// Initiate persists a pending donation record and returns the signed
// redirect URL for the hosted payment page.
func (s *DonationServiceImpl) Initiate(ctx context.Context, req *dto.InitiateDonationRequest) (string, error) {
	amount := req.Amount
	if amount == "" {
		amount = fmt.Sprintf("%.2f", models.DefaultDonationAmount)
	}
	amountValue, err := strconv.ParseFloat(amount, 64)
	if err != nil || amountValue <= 0 {
		return "", apperrors.NewBadRequestError("Invalid donation amount")
	}

	pan := req.PAN
	if pan == "" {
		pan = models.PANNotProvided
	}

	orderID := generateOrderID()

	record := &models.DonationRecord{
		FullName:      req.FullName,
		Email:         req.Email,
		PhoneNo:       req.Mobile,
		Address:       req.Address,
		DOB:           req.DateOfBirth,
		Pincode:       req.Pincode,
		PAN:           pan,
		City:          req.City,
		State:         req.State,
		Country:       req.Country,
		Amount:        amountValue,
		PaymentStatus: false,
		OrderID:       orderID,
	}

	if err := s.repo.Create(record); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateOrderID) {
			return "", apperrors.ErrDuplicateOrder(err)
		}
		return "", apperrors.ErrPersistence(err)
	}

	params := s.gateway.BuildTransactionParams(orderID, req.Email, req.Mobile, amount)
	checksum, err := s.gateway.GenerateChecksum(params)
	if err != nil {
		// The pending record stays behind; the sweep collects it. The
		// caller still sees the failure.
		logger.CtxWithError(ctx, "gateway signing failed after record create", err, "order_id", orderID)
		return "", apperrors.ErrGatewaySigning(err)
	}
	params[payment.ChecksumField] = checksum

	logger.CtxInfo(ctx, "donation initiated", "order_id", orderID, "amount", amount)
	return s.gateway.PaymentURL(params), nil
}

// HandleCallback verifies a gateway callback and, on verified success,
// settles the record and sends the notification pair. Verification strictly
// precedes any state mutation; mutation strictly precedes notification.
func (s *DonationServiceImpl) HandleCallback(ctx context.Context, form map[string]string) (*CallbackOutcome, error) {
	checksum := form[payment.ChecksumField]
	if checksum == "" {
		return nil, apperrors.ErrMissingSignature
	}

	params := make(map[string]string, len(form))
	for k, v := range form {
		if k == payment.ChecksumField {
			continue
		}
		params[k] = v
	}

	if !s.gateway.VerifyChecksum(params, checksum) {
		logger.CtxWarn(ctx, "callback checksum rejected", "order_id", params["ORDERID"])
		return nil, apperrors.ErrInvalidSignature
	}

	orderID := params["ORDERID"]

	if params["STATUS"] == payment.TxnSuccess {
		return s.handleSuccess(ctx, orderID, params)
	}
	// Closed default: every status other than TXN_SUCCESS is a failure.
	return s.handleFailure(ctx, orderID, params)
}

func (s *DonationServiceImpl) handleSuccess(ctx context.Context, orderID string, params map[string]string) (*CallbackOutcome, error) {
	record, err := s.repo.FindByOrderID(orderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDonationNotFound) {
			logger.CtxWarn(ctx, "success callback for unknown order", "order_id", orderID)
			return nil, apperrors.ErrUnknownOrder(err)
		}
		return nil, apperrors.ErrPersistence(err)
	}

	rawPayload, err := json.Marshal(params)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result, err := s.repo.Settle(orderID, rawPayload)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	switch result {
	case repositories.SettleAlreadySettled:
		// Gateway retry of an already-processed success: no-op success,
		// no second email pair.
		logger.CtxInfo(ctx, "success callback replayed, record already settled", "order_id", orderID)
		return &CallbackOutcome{RedirectURL: s.successRedirect(), Settled: true, AlreadySettled: true}, nil
	case repositories.SettleNotFound:
		// The record was found a moment ago; the only way here is the
		// sweep deleting it mid-flight.
		return nil, apperrors.ErrUnknownOrder(repositories.ErrDonationNotFound)
	}

	logger.CtxInfo(ctx, "donation settled", "order_id", orderID)

	data := email.DonationData{
		TemplateData: email.TemplateData{
			Name:        record.FullName,
			CharityName: s.charityName,
		},
		DonorEmail: record.Email,
		OrderID:    orderID,
		Amount:     s.callbackAmount(params, record),
		DonateURL:  s.frontendURL + "/donate",
	}

	// Both notifications are best-effort: a mail failure never rolls back
	// the settlement, but it must be visible in the logs.
	if err := s.mailer.SendDonationThanks(record.Email, data); err != nil {
		logger.CtxWithError(ctx, "failed to send donor thank-you email", err, "order_id", orderID)
	}
	if err := s.mailer.SendDonationReceived(s.opsInbox, data); err != nil {
		logger.CtxWithError(ctx, "failed to send internal donation notice", err, "order_id", orderID)
	}

	return &CallbackOutcome{RedirectURL: s.successRedirect(), Settled: true}, nil
}

func (s *DonationServiceImpl) handleFailure(ctx context.Context, orderID string, params map[string]string) (*CallbackOutcome, error) {
	logger.CtxInfo(ctx, "gateway reported failed transaction", "order_id", orderID, "status", params["STATUS"])

	// The record is left untouched: not deleted, not marked failed. The
	// monthly sweep collects it.
	record, err := s.repo.FindByOrderID(orderID)
	if err == nil {
		data := email.DonationData{
			TemplateData: email.TemplateData{
				Name:        record.FullName,
				CharityName: s.charityName,
			},
			DonorEmail: record.Email,
			OrderID:    orderID,
			DonateURL:  s.frontendURL + "/donate",
		}
		if err := s.mailer.SendDonationFailed(record.Email, data); err != nil {
			logger.CtxWithError(ctx, "failed to send donor failure email", err, "order_id", orderID)
		}
	} else if !apperrors.Is(err, repositories.ErrDonationNotFound) {
		logger.CtxWithError(ctx, "record lookup failed on failure callback", err, "order_id", orderID)
	}

	return &CallbackOutcome{RedirectURL: s.FailureRedirect()}, nil
}

func (s *DonationServiceImpl) successRedirect() string {
	return s.frontendURL + "/donation-successful"
}

// FailureRedirect is exposed so the HTTP boundary can redirect the browser
// when callback processing fails unexpectedly.
func (s *DonationServiceImpl) FailureRedirect() string {
	return s.frontendURL + "/donation-failed"
}

func (s *DonationServiceImpl) callbackAmount(params map[string]string, record *models.DonationRecord) string {
	if amount := params["TXNAMOUNT"]; amount != "" {
		return amount
	}
	return fmt.Sprintf("%.2f", record.Amount)
}

// generateOrderID builds the order identifier: a fixed prefix, the current
// unix milliseconds and a random suffix. Uniqueness is by construction; the
// store's unique index catches the negligible collision case.
func generateOrderID() string {
	return "20" + strconv.FormatInt(time.Now().UnixMilli(), 10) + strconv.Itoa(rand.Intn(1000))
}
