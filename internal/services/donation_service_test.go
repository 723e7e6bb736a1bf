package services

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"donation_backend/internal/dto"
	"donation_backend/internal/models"
	"donation_backend/internal/pkg/email"
	"donation_backend/internal/repositories"
	"donation_backend/internal/services/payment"
	"donation_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeDonationRepo is an in-memory DonationRepository.
type fakeDonationRepo struct {
	records   map[string]*models.DonationRecord
	createErr error
	settleErr error
}

func newFakeRepo() *fakeDonationRepo {
	return &fakeDonationRepo{records: make(map[string]*models.DonationRecord)}
}

func (r *fakeDonationRepo) Create(record *models.DonationRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.records[record.OrderID]; exists {
		return repositories.ErrDuplicateOrderID
	}
	clone := *record
	r.records[record.OrderID] = &clone
	return nil
}

func (r *fakeDonationRepo) FindByOrderID(orderID string) (*models.DonationRecord, error) {
	record, ok := r.records[orderID]
	if !ok {
		return nil, repositories.ErrDonationNotFound
	}
	clone := *record
	return &clone, nil
}

func (r *fakeDonationRepo) Settle(orderID string, rawPayload datatypes.JSON) (repositories.SettleResult, error) {
	if r.settleErr != nil {
		return repositories.SettleNotFound, r.settleErr
	}
	record, ok := r.records[orderID]
	if !ok {
		return repositories.SettleNotFound, nil
	}
	if record.PaymentStatus {
		return repositories.SettleAlreadySettled, nil
	}
	record.PaymentStatus = true
	record.GatewayResponse = rawPayload
	return repositories.SettleOK, nil
}

func (r *fakeDonationRepo) DeleteUnsettled() (int64, error) {
	var deleted int64
	for orderID, record := range r.records {
		if !record.PaymentStatus {
			delete(r.records, orderID)
			deleted++
		}
	}
	return deleted, nil
}

// fakeMailer records every send.
type fakeMailer struct {
	thanks   []email.DonationData
	received []email.DonationData
	failed   []email.DonationData
	contact  []email.ContactData
	sendErr  error
}

func (m *fakeMailer) Send(msg *email.Message) error { return m.sendErr }

func (m *fakeMailer) SendDonationThanks(to string, data email.DonationData) error {
	m.thanks = append(m.thanks, data)
	return m.sendErr
}

func (m *fakeMailer) SendDonationReceived(to string, data email.DonationData) error {
	m.received = append(m.received, data)
	return m.sendErr
}

func (m *fakeMailer) SendDonationFailed(to string, data email.DonationData) error {
	m.failed = append(m.failed, data)
	return m.sendErr
}

func (m *fakeMailer) SendContactMessage(to string, data email.ContactData) error {
	m.contact = append(m.contact, data)
	return m.sendErr
}

func testGateway() *payment.PaytmService {
	return payment.NewPaytmService(payment.Config{
		MerchantID:   "MID123",
		MerchantKey:  "test-merchant-key",
		Website:      "DEFAULT",
		ChannelID:    "WEB",
		IndustryType: "ECommerce",
		BaseURL:      "https://securegw.paytm.in/theia/processTransaction",
		CallbackURL:  "https://api.example.org/api/donate/callback",
	})
}

func newTestService(repo repositories.DonationRepository, mailer email.Mailer) DonationService {
	return NewDonationService(repo, testGateway(), mailer,
		"https://charity.example.org", "ops@charity.example.org", "Test Charity")
}

func donorRequest() *dto.InitiateDonationRequest {
	return &dto.InitiateDonationRequest{
		FullName:    "Asha Verma",
		Email:       "asha@example.org",
		Mobile:      "9999999999",
		Address:     "12 MG Road",
		DateOfBirth: "1990-04-01",
		Pincode:     "110001",
		City:        "Delhi",
		State:       "Delhi",
		Country:     "India",
		Amount:      "250.00",
	}
}

// signedCallback builds a gateway callback form with a valid checksum.
func signedCallback(t *testing.T, orderID, status, amount string) map[string]string {
	t.Helper()
	gw := testGateway()
	form := map[string]string{
		"ORDERID":   orderID,
		"STATUS":    status,
		"TXNAMOUNT": amount,
	}
	checksum, err := gw.GenerateChecksum(form)
	require.NoError(t, err)
	form[payment.ChecksumField] = checksum
	return form
}

func initiateOrder(t *testing.T, svc DonationService, repo *fakeDonationRepo) string {
	t.Helper()
	paymentURL, err := svc.Initiate(context.Background(), donorRequest())
	require.NoError(t, err)
	parsed, err := url.Parse(paymentURL)
	require.NoError(t, err)
	orderID := parsed.Query().Get("ORDER_ID")
	require.NotEmpty(t, orderID)
	require.Contains(t, repo.records, orderID)
	return orderID
}

func TestInitiate_CreatesPendingRecord(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeMailer{})

	paymentURL, err := svc.Initiate(context.Background(), donorRequest())
	require.NoError(t, err)

	parsed, err := url.Parse(paymentURL)
	require.NoError(t, err)
	orderID := parsed.Query().Get("ORDER_ID")
	require.NotEmpty(t, orderID)
	assert.NotEmpty(t, parsed.Query().Get(payment.ChecksumField))
	assert.Equal(t, "250.00", parsed.Query().Get("TXN_AMOUNT"))

	record := repo.records[orderID]
	require.NotNil(t, record, "exactly one record keyed by the order id in the URL")
	assert.False(t, record.PaymentStatus)
	assert.Equal(t, 250.00, record.Amount)
	assert.Equal(t, "Asha Verma", record.FullName)
}

func TestInitiate_DefaultsAmount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeMailer{})

	req := donorRequest()
	req.Amount = ""
	paymentURL, err := svc.Initiate(context.Background(), req)
	require.NoError(t, err)

	parsed, err := url.Parse(paymentURL)
	require.NoError(t, err)
	assert.Equal(t, "100.00", parsed.Query().Get("TXN_AMOUNT"))

	record := repo.records[parsed.Query().Get("ORDER_ID")]
	require.NotNil(t, record)
	assert.Equal(t, models.DefaultDonationAmount, record.Amount)
}

func TestInitiate_DefaultsPAN(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeMailer{})

	req := donorRequest()
	req.PAN = ""
	orderID := func() string {
		paymentURL, err := svc.Initiate(context.Background(), req)
		require.NoError(t, err)
		parsed, _ := url.Parse(paymentURL)
		return parsed.Query().Get("ORDER_ID")
	}()

	assert.Equal(t, models.PANNotProvided, repo.records[orderID].PAN)
}

func TestInitiate_DuplicateOrderID(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = repositories.ErrDuplicateOrderID
	svc := newTestService(repo, &fakeMailer{})

	_, err := svc.Initiate(context.Background(), donorRequest())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestInitiate_SigningFailureSurfaced(t *testing.T) {
	repo := newFakeRepo()
	gw := testGateway()
	gw.MerchantKey = ""
	svc := NewDonationService(repo, gw, &fakeMailer{},
		"https://charity.example.org", "ops@charity.example.org", "Test Charity")

	_, err := svc.Initiate(context.Background(), donorRequest())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeGatewaySigning, appErr.Code)

	// The pending record may remain; the sweep collects it. What matters
	// is that the caller never saw success.
	assert.Len(t, repo.records, 1)
}

func TestHandleCallback_MissingSignature(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)
	orderID := initiateOrder(t, svc, repo)

	form := map[string]string{"ORDERID": orderID, "STATUS": payment.TxnSuccess}
	_, err := svc.HandleCallback(context.Background(), form)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeMissingSignature, appErr.Code)
	assert.False(t, repo.records[orderID].PaymentStatus, "no mutation before verification")
	assert.Empty(t, mailer.thanks)
}

func TestHandleCallback_InvalidSignature(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)
	orderID := initiateOrder(t, svc, repo)

	form := signedCallback(t, orderID, payment.TxnSuccess, "250.00")
	form["TXNAMOUNT"] = "1.00" // tamper after signing

	_, err := svc.HandleCallback(context.Background(), form)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidSignature, appErr.Code)
	assert.False(t, repo.records[orderID].PaymentStatus)
	assert.Empty(t, mailer.thanks)
	assert.Empty(t, mailer.received)
}

func TestHandleCallback_Success(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)
	orderID := initiateOrder(t, svc, repo)

	outcome, err := svc.HandleCallback(context.Background(), signedCallback(t, orderID, payment.TxnSuccess, "250.00"))
	require.NoError(t, err)

	assert.True(t, outcome.Settled)
	assert.False(t, outcome.AlreadySettled)
	assert.Equal(t, "https://charity.example.org/donation-successful", outcome.RedirectURL)
	assert.True(t, repo.records[orderID].PaymentStatus)

	require.Len(t, mailer.thanks, 1)
	assert.Equal(t, "Asha Verma", mailer.thanks[0].Name)
	assert.Equal(t, orderID, mailer.thanks[0].OrderID)
	assert.Equal(t, "250.00", mailer.thanks[0].Amount)
	require.Len(t, mailer.received, 1)
	assert.Equal(t, "asha@example.org", mailer.received[0].DonorEmail)
	assert.Empty(t, mailer.failed)
}

func TestHandleCallback_ReplayIsNoOpSuccess(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)
	orderID := initiateOrder(t, svc, repo)

	form := signedCallback(t, orderID, payment.TxnSuccess, "250.00")

	first, err := svc.HandleCallback(context.Background(), form)
	require.NoError(t, err)
	require.True(t, first.Settled)

	// The gateway retried the same success callback. It must not error and
	// it must not send a second email pair.
	second, err := svc.HandleCallback(context.Background(), form)
	require.NoError(t, err)
	assert.True(t, second.Settled)
	assert.True(t, second.AlreadySettled)
	assert.Equal(t, first.RedirectURL, second.RedirectURL)

	assert.True(t, repo.records[orderID].PaymentStatus)
	assert.Len(t, mailer.thanks, 1, "exactly one thank-you for any number of replays")
	assert.Len(t, mailer.received, 1)
}

func TestHandleCallback_UnknownOrder(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	_, err := svc.HandleCallback(context.Background(), signedCallback(t, "no-such-order", payment.TxnSuccess, "100.00"))

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnknownOrder, appErr.Code)
	assert.Empty(t, mailer.thanks)
	assert.Empty(t, mailer.received)
}

func TestHandleCallback_FailureStatus(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)
	orderID := initiateOrder(t, svc, repo)

	outcome, err := svc.HandleCallback(context.Background(), signedCallback(t, orderID, "TXN_FAILURE", "250.00"))
	require.NoError(t, err)

	assert.Equal(t, "https://charity.example.org/donation-failed", outcome.RedirectURL)
	assert.False(t, outcome.Settled)
	assert.False(t, repo.records[orderID].PaymentStatus, "failed transactions leave the record untouched")

	require.Len(t, mailer.failed, 1)
	assert.Equal(t, orderID, mailer.failed[0].OrderID)
	assert.Empty(t, mailer.thanks)
	assert.Empty(t, mailer.received)
}

func TestHandleCallback_UnrecognizedStatusIsFailure(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)
	orderID := initiateOrder(t, svc, repo)

	// Closed default: anything that is not TXN_SUCCESS must never settle.
	outcome, err := svc.HandleCallback(context.Background(), signedCallback(t, orderID, "PENDING", "250.00"))
	require.NoError(t, err)

	assert.Equal(t, "https://charity.example.org/donation-failed", outcome.RedirectURL)
	assert.False(t, repo.records[orderID].PaymentStatus)
}

func TestHandleCallback_FailureStatusUnknownOrder(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	outcome, err := svc.HandleCallback(context.Background(), signedCallback(t, "no-such-order", "TXN_FAILURE", "100.00"))
	require.NoError(t, err)

	assert.Equal(t, "https://charity.example.org/donation-failed", outcome.RedirectURL)
	assert.Empty(t, mailer.failed, "no donor to notify without a record")
}

func TestHandleCallback_MailerFailureIsNonFatal(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{sendErr: errors.New("smtp down")}
	svc := newTestService(repo, mailer)
	orderID := initiateOrder(t, svc, repo)

	outcome, err := svc.HandleCallback(context.Background(), signedCallback(t, orderID, payment.TxnSuccess, "250.00"))
	require.NoError(t, err, "a lost notification must not fail the settled payment")

	assert.True(t, outcome.Settled)
	assert.True(t, repo.records[orderID].PaymentStatus)
}

func TestHandleCallback_PersistenceErrorOnSettle(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)
	orderID := initiateOrder(t, svc, repo)
	repo.settleErr = errors.New("connection reset")

	_, err := svc.HandleCallback(context.Background(), signedCallback(t, orderID, payment.TxnSuccess, "250.00"))

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeDatabaseError, appErr.Code)
	assert.Empty(t, mailer.thanks, "no notification without a confirmed transition")
}
