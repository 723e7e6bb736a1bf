package repositories

import (
	"errors"
	"time"

	"donation_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrDonationNotFound = errors.New("donation record not found")
	ErrDuplicateOrderID = errors.New("order id already exists")
)

// SettleResult reports the outcome of the conditional status update.
type SettleResult int

const (
	// SettleOK - this call flipped the record pending -> settled.
	SettleOK SettleResult = iota
	// SettleAlreadySettled - the record was settled by an earlier callback;
	// gateway retries land here and must be treated as a no-op success.
	SettleAlreadySettled
	// SettleNotFound - no record carries this order id.
	SettleNotFound
)

type DonationRepository interface {
	Create(record *models.DonationRecord) error
	FindByOrderID(orderID string) (*models.DonationRecord, error)
	// Settle atomically transitions the record to settled. The
	// WHERE payment_status = false predicate is the only concurrency
	// control: of two racing callbacks at most one affects a row.
	Settle(orderID string, rawPayload datatypes.JSON) (SettleResult, error)
	// DeleteUnsettled removes every pending record and returns the count.
	// Settled records are never touched regardless of age.
	DeleteUnsettled() (int64, error)
}

type DonationRepositoryImpl struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &DonationRepositoryImpl{db: db}
}

func (r *DonationRepositoryImpl) Create(record *models.DonationRecord) error {
	err := r.db.Create(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrderID
		}
		return err
	}
	return nil
}

func (r *DonationRepositoryImpl) FindByOrderID(orderID string) (*models.DonationRecord, error) {
	var record models.DonationRecord
	err := r.db.Where("order_id = ?", orderID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *DonationRepositoryImpl) Settle(orderID string, rawPayload datatypes.JSON) (SettleResult, error) {
	now := time.Now()
	result := r.db.Model(&models.DonationRecord{}).
		Where("order_id = ? AND payment_status = ?", orderID, false).
		Updates(map[string]interface{}{
			"payment_status":   true,
			"settled_at":       &now,
			"gateway_response": rawPayload,
		})
	if result.Error != nil {
		return SettleNotFound, result.Error
	}
	if result.RowsAffected > 0 {
		return SettleOK, nil
	}

	// Zero rows: either the order never existed or it is already settled.
	// The distinction matters — a replayed success callback is legitimate.
	var count int64
	if err := r.db.Model(&models.DonationRecord{}).
		Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return SettleNotFound, err
	}
	if count == 0 {
		return SettleNotFound, nil
	}
	return SettleAlreadySettled, nil
}

func (r *DonationRepositoryImpl) DeleteUnsettled() (int64, error) {
	result := r.db.Where("payment_status = ?", false).Delete(&models.DonationRecord{})
	return result.RowsAffected, result.Error
}
