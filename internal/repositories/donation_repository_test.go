package repositories

import (
	"testing"

	"donation_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DonationRecord{}))
	return db
}

func testRecord(orderID string) *models.DonationRecord {
	return &models.DonationRecord{
		FullName: "Asha Verma",
		Email:    "asha@example.org",
		PhoneNo:  "9999999999",
		Address:  "12 MG Road",
		DOB:      "1990-04-01",
		Pincode:  "110001",
		PAN:      models.PANNotProvided,
		City:     "Delhi",
		State:    "Delhi",
		Country:  "India",
		Amount:   100.00,
		OrderID:  orderID,
	}
}

func TestCreateAndFindByOrderID(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	require.NoError(t, repo.Create(testRecord("order-1")))

	record, err := repo.FindByOrderID("order-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", record.FullName)
	assert.False(t, record.PaymentStatus, "new records start pending")
	assert.Nil(t, record.SettledAt)
}

func TestFindByOrderID_NotFound(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	_, err := repo.FindByOrderID("does-not-exist")
	assert.ErrorIs(t, err, ErrDonationNotFound)
}

func TestCreate_DuplicateOrderID(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	require.NoError(t, repo.Create(testRecord("order-1")))
	err := repo.Create(testRecord("order-1"))
	assert.ErrorIs(t, err, ErrDuplicateOrderID)
}

func TestSettle_TransitionsPendingRecord(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))
	require.NoError(t, repo.Create(testRecord("order-1")))

	result, err := repo.Settle("order-1", []byte(`{"STATUS":"TXN_SUCCESS"}`))
	require.NoError(t, err)
	assert.Equal(t, SettleOK, result)

	record, err := repo.FindByOrderID("order-1")
	require.NoError(t, err)
	assert.True(t, record.PaymentStatus)
	assert.NotNil(t, record.SettledAt)
	assert.NotEmpty(t, record.GatewayResponse)
}

func TestSettle_ReplayIsAlreadySettled(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))
	require.NoError(t, repo.Create(testRecord("order-1")))

	result, err := repo.Settle("order-1", []byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, SettleOK, result)

	// The gateway retried: the conditional update affects zero rows and
	// the caller must be able to tell that apart from a missing order.
	result, err = repo.Settle("order-1", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, SettleAlreadySettled, result)

	record, err := repo.FindByOrderID("order-1")
	require.NoError(t, err)
	assert.True(t, record.PaymentStatus)
}

func TestSettle_UnknownOrder(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	result, err := repo.Settle("missing", []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, SettleNotFound, result)
}

func TestDeleteUnsettled_SparesSettledRecords(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	require.NoError(t, repo.Create(testRecord("pending-1")))
	require.NoError(t, repo.Create(testRecord("pending-2")))
	require.NoError(t, repo.Create(testRecord("settled-1")))

	result, err := repo.Settle("settled-1", []byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, SettleOK, result)

	deleted, err := repo.DeleteUnsettled()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = repo.FindByOrderID("pending-1")
	assert.ErrorIs(t, err, ErrDonationNotFound)
	_, err = repo.FindByOrderID("pending-2")
	assert.ErrorIs(t, err, ErrDonationNotFound)

	record, err := repo.FindByOrderID("settled-1")
	require.NoError(t, err)
	assert.True(t, record.PaymentStatus, "the sweep must never touch settled records")
}

func TestDeleteUnsettled_EmptyTable(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	deleted, err := repo.DeleteUnsettled()
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
