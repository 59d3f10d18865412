package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// TransactionManager runs a unit of work inside a database transaction.
// Repository methods that take a tx parameter join that transaction; a nil
// tx makes them fall back to their own connection.
type TransactionManager interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByAccount(ctx context.Context, account string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByAccount(ctx context.Context, account string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	IsLocked(ctx context.Context, account string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ProductGroupRepository defines catalog read access plus the availability
// flag the rental lifecycle toggles when it holds or releases inventory.
type ProductGroupRepository interface {
	GetByID(ctx context.Context, id uint) (*models.ProductGroup, error)
	List(ctx context.Context, offset, limit int) ([]*models.ProductGroup, int64, error)
	ListEnabledProducts(ctx context.Context, groupID uint) ([]*models.Product, error)
	SetAvailable(ctx context.Context, tx *gorm.DB, groupID uint, available bool) error
}

// RentalRecordRepository defines rental record data access.
// Status writes go through Update inside the orchestrator's transaction only.
type RentalRecordRepository interface {
	Create(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error
	GetByID(ctx context.Context, id uint) (*models.RentalRecord, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.RentalRecord, error)
	Update(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error
	List(ctx context.Context, filter *RentalRecordFilter) ([]*models.RentalRecord, error)
	ListByRenter(ctx context.Context, account string) ([]*models.RentalRecord, error)
	ListByOwner(ctx context.Context, account string) ([]*models.RentalRecord, error)
	ListByStatus(ctx context.Context, status domain.RentalRecordStatus) ([]*models.RentalRecord, error)
	ListStaleByStatus(ctx context.Context, status domain.RentalRecordStatus, before time.Time) ([]*models.RentalRecord, error)
}

// RentalRecordFilter narrows the index listing.
type RentalRecordFilter struct {
	Status          *domain.RentalRecordStatus
	RentalDateFrom  *time.Time
	RentalDateUntil *time.Time
}

// RentalDetailRepository stores the product snapshot of a record.
type RentalDetailRepository interface {
	CreateAll(ctx context.Context, tx *gorm.DB, details []models.RentalDetail) error
	ListByRecord(ctx context.Context, recordID uint) ([]*models.RentalDetail, error)
}

// ChangeLogRepository stores the per-destination transition audit trail.
type ChangeLogRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, log *models.RentalRecordStatusChangeLog) error
	GetByKey(ctx context.Context, recordID uint, toStatus domain.RentalRecordStatus) (*models.RentalRecordStatusChangeLog, error)
}

// CommentRepository stores reciprocal ratings.
type CommentRepository interface {
	Exists(ctx context.Context, recordID uint, ratedAccount string) (bool, error)
	Create(ctx context.Context, comment *models.UserComment) error
	ListByRated(ctx context.Context, account string) ([]*models.UserComment, error)
}

// CompensationRepository tracks damage debts that block new rentals.
type CompensationRepository interface {
	Create(ctx context.Context, record *models.UserCompensateRecord) error
	ExistsUncompensated(ctx context.Context, account string) (bool, error)
	MarkCompensated(ctx context.Context, tx *gorm.DB, recordID uint) error
}

// NotificationRepository stores outbound notification copies.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByAccount(ctx context.Context, account string, offset, limit int) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id uint, account string) error
}
