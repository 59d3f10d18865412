package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// Notifier delivers lifecycle notifications. Delivery is fire-and-forget;
// implementations never make the caller fail.
type Notifier interface {
	Notify(record *models.RentalRecord)
}

// StatusTransitioner is the narrow transition capability the comment
// workflow and the scheduler hold instead of the whole rental service.
type StatusTransitioner interface {
	UpdateStatus(ctx context.Context, input *StatusChangeInput) error
}

// RentalService orchestrates the rental record lifecycle.
type RentalService struct {
	tx          repositories.TransactionManager
	records     repositories.RentalRecordRepository
	details     repositories.RentalDetailRepository
	changeLogs  repositories.ChangeLogRepository
	groups      repositories.ProductGroupRepository
	users       repositories.UserRepository
	eligibility *EligibilityService
	policies    *StatusPolicyRegistry
	notifier    Notifier
	rounding    domain.PriceRounding
	now         func() time.Time
}

// NewRentalService creates a new rental service
func NewRentalService(
	tx repositories.TransactionManager,
	records repositories.RentalRecordRepository,
	details repositories.RentalDetailRepository,
	changeLogs repositories.ChangeLogRepository,
	groups repositories.ProductGroupRepository,
	users repositories.UserRepository,
	eligibility *EligibilityService,
	policies *StatusPolicyRegistry,
	notifier Notifier,
	rounding domain.PriceRounding,
) *RentalService {
	return &RentalService{
		tx:          tx,
		records:     records,
		details:     details,
		changeLogs:  changeLogs,
		groups:      groups,
		users:       users,
		eligibility: eligibility,
		policies:    policies,
		notifier:    notifier,
		rounding:    rounding,
		now:         time.Now,
	}
}

// CreateRentalInput represents create rental request input
type CreateRentalInput struct {
	ProductGroupID  uint      `json:"product_group_id" validate:"required"`
	BorrowStartDate time.Time `json:"borrow_start_date" validate:"required"`
	BorrowEndDate   time.Time `json:"borrow_end_date" validate:"required"`
}

// BorrowDays converts a borrow date range into billable days under the
// configured rounding policy. A range that rounds below one day is invalid.
func BorrowDays(start, end time.Time, rounding domain.PriceRounding) (int, error) {
	if !end.After(start) {
		return 0, domain.ErrInvalidBorrowRange
	}
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if rounding == domain.RoundUp && d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		return 0, domain.ErrInvalidBorrowRange
	}
	return days, nil
}

// Create opens a new rental request in PENDING. The price is fixed here and
// never recomputed; the product snapshot is written in the same transaction
// as the record.
func (s *RentalService) Create(ctx context.Context, renterAccount string, input *CreateRentalInput) (*models.RentalRecord, error) {
	group, err := s.groups.GetByID(ctx, input.ProductGroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}

	if err := s.eligibility.CheckCreationEligibility(ctx, renterAccount, group); err != nil {
		return nil, err
	}

	days, err := BorrowDays(input.BorrowStartDate, input.BorrowEndDate, s.rounding)
	if err != nil {
		return nil, err
	}

	products, err := s.groups.ListEnabledProducts(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	record := &models.RentalRecord{
		RenterAccount:   renterAccount,
		ProductGroupID:  group.ID,
		Price:           group.Price * days,
		BorrowStartDate: input.BorrowStartDate,
		BorrowEndDate:   input.BorrowEndDate,
		Status:          domain.StatusPending,
		Enable:          true,
	}

	err = s.tx.Do(ctx, func(tx *gorm.DB) error {
		if err := s.records.Create(ctx, tx, record); err != nil {
			return err
		}

		details := make([]models.RentalDetail, 0, len(products))
		for _, p := range products {
			details = append(details, models.RentalDetail{
				RecordID:  record.ID,
				ProductID: p.ID,
				Name:      p.Name,
				Count:     p.Count,
				Brand:     p.Brand,
			})
		}
		return s.details.CreateAll(ctx, tx, details)
	})
	if err != nil {
		return nil, err
	}

	record.ProductGroup = group
	s.notify(record)

	log.Printf("✅ Rental record %d created: %s -> group %d (%d days, price %d)",
		record.ID, renterAccount, group.ID, days, record.Price)

	return record, nil
}

// StatusChangeInput represents a transition request
type StatusChangeInput struct {
	ID          uint
	NewStatus   domain.RentalRecordStatus
	Description string
	Payload     Payload
}

// UpdateStatus moves a record to a new lifecycle state. Load, policy
// resolution, validation, the before hook, the status write and the change
// log run in one transaction under a row lock on the record; notification
// and the after hook run once the write is durable and never undo it.
func (s *RentalService) UpdateStatus(ctx context.Context, input *StatusChangeInput) error {
	var (
		record *models.RentalRecord
		origin domain.RentalRecordStatus
	)

	err := s.tx.Do(ctx, func(tx *gorm.DB) error {
		var err error
		record, err = s.records.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		origin = record.Status
		if !s.policies.CanChangeTo(origin, input.NewStatus) {
			return &domain.StatusChangeError{From: origin, To: input.NewStatus}
		}

		if err := s.policies.Validate(record, input.NewStatus); err != nil {
			return err
		}

		if err := s.policies.BeforeChange(ctx, tx, record, input.NewStatus, input.Payload); err != nil {
			return err
		}

		record.Status = input.NewStatus
		if err := s.records.Update(ctx, tx, record); err != nil {
			return err
		}

		return s.changeLogs.Upsert(ctx, tx, &models.RentalRecordStatusChangeLog{
			RecordID:    record.ID,
			FromStatus:  origin,
			ToStatus:    input.NewStatus,
			Description: input.Description,
		})
	})
	if err != nil {
		return err
	}

	s.notify(record)

	if err := s.policies.AfterChange(ctx, record, origin, input.Payload); err != nil {
		// post-commit side effects are best-effort
		log.Printf("⚠️ After-change hook failed for record %d (%s -> %s): %v",
			record.ID, origin, input.NewStatus, err)
	}

	log.Printf("✅ Rental record %d status changed: %s -> %s", record.ID, origin, input.NewStatus)
	return nil
}

// GetByID gets a rental record
func (s *RentalService) GetByID(ctx context.Context, id uint) (*models.RentalRecord, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

// GetChangeLogDescription returns the audit description logged for the
// record's arrival at the given status. Only the renter, the listing owner
// or an administrator may read it.
func (s *RentalService) GetChangeLogDescription(ctx context.Context, recordID uint, status domain.RentalRecordStatus, callerAccount string) (string, error) {
	changeLog, err := s.changeLogs.GetByKey(ctx, recordID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrChangeLogNotFound
		}
		return "", err
	}

	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrRecordNotFound
		}
		return "", err
	}

	caller, err := s.users.GetByAccount(ctx, callerAccount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}

	if caller.IsAdmin() || record.RenterAccount == callerAccount || record.OwnerAccount() == callerAccount {
		return changeLog.Description, nil
	}

	return "", &domain.NotOwnerError{RecordID: recordID, Account: callerAccount}
}

// SearchByRenter lists the records a renter opened
func (s *RentalService) SearchByRenter(ctx context.Context, account string) ([]*models.RentalRecord, error) {
	return s.records.ListByRenter(ctx, account)
}

// SearchByOwner lists the records opened against an owner's listings
func (s *RentalService) SearchByOwner(ctx context.Context, account string) ([]*models.RentalRecord, error) {
	return s.records.ListByOwner(ctx, account)
}

// SearchIndex lists records matching the filter, each row carrying the
// description logged for its current status, or "none" when absent.
func (s *RentalService) SearchIndex(ctx context.Context, filter *repositories.RentalRecordFilter) ([]*models.RentalRecordResponse, error) {
	records, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.RentalRecordResponse, 0, len(records))
	for _, record := range records {
		resp := record.ToResponse()
		resp.StatusDescription = "none"
		if changeLog, err := s.changeLogs.GetByKey(ctx, record.ID, record.Status); err == nil {
			resp.StatusDescription = changeLog.Description
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// AllowedDestinations exposes the legal next states of a status, for the
// transport layer to render available actions.
func (s *RentalService) AllowedDestinations(from domain.RentalRecordStatus) []domain.RentalRecordStatus {
	return s.policies.AllowedDestinations(from)
}

func (s *RentalService) notify(record *models.RentalRecord) {
	if s.notifier != nil {
		s.notifier.Notify(record)
	}
}
