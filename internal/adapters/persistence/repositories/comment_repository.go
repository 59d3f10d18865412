package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
)

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Exists checks whether a comment rating the account already exists
func (r *commentRepository) Exists(ctx context.Context, recordID uint, ratedAccount string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserComment{}).
		Where("record_id = ? AND user_account = ?", recordID, ratedAccount).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a comment and flushes it
func (r *commentRepository) Create(ctx context.Context, comment *models.UserComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByRated lists comments received by an account
func (r *commentRepository) ListByRated(ctx context.Context, account string) ([]*models.UserComment, error) {
	var comments []*models.UserComment
	err := r.db.WithContext(ctx).
		Where("user_account = ?", account).
		Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// compensationRepository implements CompensationRepository
type compensationRepository struct {
	db *gorm.DB
}

// NewCompensationRepository creates a new compensation repository
func NewCompensationRepository(db *gorm.DB) CompensationRepository {
	return &compensationRepository{db: db}
}

// Create inserts a compensation record
func (r *compensationRepository) Create(ctx context.Context, record *models.UserCompensateRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ExistsUncompensated checks for an open damage debt of the account
func (r *compensationRepository) ExistsUncompensated(ctx context.Context, account string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserCompensateRecord{}).
		Where("user_account = ? AND compensated = ?", account, false).
		Count(&count).Error
	return count > 0, err
}

// MarkCompensated settles the debts attached to a rental record
func (r *compensationRepository) MarkCompensated(ctx context.Context, tx *gorm.DB, recordID uint) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.UserCompensateRecord{}).
		Where("record_id = ? AND compensated = ?", recordID, false).
		Update("compensated", true).Error
}

// notificationRepository implements NotificationRepository
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create stores a notification copy
func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// ListByAccount lists an account's notifications, newest first
func (r *notificationRepository) ListByAccount(ctx context.Context, account string, offset, limit int) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_account = ?", account).
		Count(&total)

	err := r.db.WithContext(ctx).
		Where("user_account = ?", account).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// MarkRead marks one notification of the account as read
func (r *notificationRepository) MarkRead(ctx context.Context, id uint, account string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_account = ?", id, account).
		Update("is_read", true).Error
}
