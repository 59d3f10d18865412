package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// rentalRecordRepository implements RentalRecordRepository
type rentalRecordRepository struct {
	db *gorm.DB
}

// NewRentalRecordRepository creates a new rental record repository
func NewRentalRecordRepository(db *gorm.DB) RentalRecordRepository {
	return &rentalRecordRepository{db: db}
}

// Create inserts a new rental record
func (r *rentalRecordRepository) Create(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error {
	return conn(r.db, tx).WithContext(ctx).Create(record).Error
}

// GetByID gets a rental record by ID with its product group and borrower list
func (r *rentalRecordRepository) GetByID(ctx context.Context, id uint) (*models.RentalRecord, error) {
	var record models.RentalRecord
	err := r.db.WithContext(ctx).
		Preload("ProductGroup").
		Preload("ProductGroup.CanBorrow").
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByIDForUpdate loads a record under a row lock. Must run inside a
// transaction; concurrent transitions on the same record serialize here.
func (r *rentalRecordRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.RentalRecord, error) {
	var record models.RentalRecord
	err := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("ProductGroup").
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update saves a rental record and flushes it
func (r *rentalRecordRepository) Update(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error {
	return conn(r.db, tx).WithContext(ctx).Save(record).Error
}

// List lists records matching the index filter, newest first
func (r *rentalRecordRepository) List(ctx context.Context, filter *RentalRecordFilter) ([]*models.RentalRecord, error) {
	query := r.db.WithContext(ctx).
		Preload("ProductGroup").
		Where("enable = ?", true)

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.RentalDateFrom != nil {
			query = query.Where("rental_date >= ?", *filter.RentalDateFrom)
		}
		if filter.RentalDateUntil != nil {
			query = query.Where("rental_date < ?", filter.RentalDateUntil.AddDate(0, 0, 1))
		}
	}

	var records []*models.RentalRecord
	err := query.Order("id DESC").Find(&records).Error
	return records, err
}

// ListByRenter lists enabled records of a renter, newest first
func (r *rentalRecordRepository) ListByRenter(ctx context.Context, account string) ([]*models.RentalRecord, error) {
	var records []*models.RentalRecord
	err := r.db.WithContext(ctx).
		Preload("ProductGroup").
		Preload("Details").
		Where("renter_account = ? AND enable = ?", account, true).
		Order("id DESC").
		Find(&records).Error
	return records, err
}

// ListByOwner lists records whose product group is listed by the account
func (r *rentalRecordRepository) ListByOwner(ctx context.Context, account string) ([]*models.RentalRecord, error) {
	var records []*models.RentalRecord
	err := r.db.WithContext(ctx).
		Preload("ProductGroup").
		Preload("Details").
		Joins("JOIN product_groups ON product_groups.id = rental_records.product_group_id").
		Where("product_groups.create_account = ? AND rental_records.enable = ?", account, true).
		Order("rental_records.id DESC").
		Find(&records).Error
	return records, err
}

// ListByStatus lists records currently in the given status
func (r *rentalRecordRepository) ListByStatus(ctx context.Context, status domain.RentalRecordStatus) ([]*models.RentalRecord, error) {
	var records []*models.RentalRecord
	err := r.db.WithContext(ctx).
		Preload("ProductGroup").
		Where("status = ? AND enable = ?", status, true).
		Order("id DESC").
		Find(&records).Error
	return records, err
}

// ListStaleByStatus lists records stuck in a status since before the cutoff
func (r *rentalRecordRepository) ListStaleByStatus(ctx context.Context, status domain.RentalRecordStatus, before time.Time) ([]*models.RentalRecord, error) {
	var records []*models.RentalRecord
	err := r.db.WithContext(ctx).
		Preload("ProductGroup").
		Where("status = ? AND enable = ? AND rental_date < ?", status, true, before).
		Order("id").
		Find(&records).Error
	return records, err
}

// rentalDetailRepository implements RentalDetailRepository
type rentalDetailRepository struct {
	db *gorm.DB
}

// NewRentalDetailRepository creates a new rental detail repository
func NewRentalDetailRepository(db *gorm.DB) RentalDetailRepository {
	return &rentalDetailRepository{db: db}
}

// CreateAll inserts the product snapshot rows of a record
func (r *rentalDetailRepository) CreateAll(ctx context.Context, tx *gorm.DB, details []models.RentalDetail) error {
	if len(details) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).Create(&details).Error
}

// ListByRecord lists the snapshot rows of a record
func (r *rentalDetailRepository) ListByRecord(ctx context.Context, recordID uint) ([]*models.RentalDetail, error) {
	var details []*models.RentalDetail
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Find(&details).Error
	return details, err
}

// changeLogRepository implements ChangeLogRepository
type changeLogRepository struct {
	db *gorm.DB
}

// NewChangeLogRepository creates a new change log repository
func NewChangeLogRepository(db *gorm.DB) ChangeLogRepository {
	return &changeLogRepository{db: db}
}

// Upsert writes the log entry for (record, to_status), replacing any entry a
// previous arrival at the same destination left behind.
func (r *changeLogRepository) Upsert(ctx context.Context, tx *gorm.DB, log *models.RentalRecordStatusChangeLog) error {
	return conn(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}, {Name: "to_status"}},
			DoUpdates: clause.AssignmentColumns([]string{"from_status", "description", "updated_at"}),
		}).
		Create(log).Error
}

// GetByKey gets the log entry for (record, to_status)
func (r *changeLogRepository) GetByKey(ctx context.Context, recordID uint, toStatus domain.RentalRecordStatus) (*models.RentalRecordStatusChangeLog, error) {
	var log models.RentalRecordStatusChangeLog
	err := r.db.WithContext(ctx).
		Where("record_id = ? AND to_status = ?", recordID, toStatus).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}
