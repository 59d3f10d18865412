package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// Payload carries transition-specific data supplied by the caller, e.g. a
// denial reason or a compensation amount.
type Payload map[string]interface{}

// String reads a string value from the payload
func (p Payload) String(key string) string {
	if p == nil {
		return ""
	}
	s, _ := p[key].(string)
	return s
}

// Int reads an integer value from the payload. JSON numbers decode as
// float64, so both forms are accepted; a fractional value is rejected
// rather than truncated.
func (p Payload) Int(key string) (int, bool) {
	if p == nil {
		return 0, false
	}
	switch v := p[key].(type) {
	case int:
		return v, true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

// statusPolicy is the rule set owned by one lifecycle state. beforeChange
// runs inside the transition's transaction, afterChange after it committed.
type statusPolicy struct {
	allowed      map[domain.RentalRecordStatus]struct{}
	validate     func(record *models.RentalRecord, to domain.RentalRecordStatus) error
	beforeChange func(ctx context.Context, tx *gorm.DB, record *models.RentalRecord, to domain.RentalRecordStatus, payload Payload) error
	afterChange  func(ctx context.Context, record *models.RentalRecord, from domain.RentalRecordStatus, payload Payload) error
}

// StatusPolicyRegistry resolves the policy of a record's current status.
// One strategy entry per state; there is no policy hierarchy.
type StatusPolicyRegistry struct {
	groups        repositories.ProductGroupRepository
	compensations repositories.CompensationRepository
	now           func() time.Time
	policies      map[domain.RentalRecordStatus]*statusPolicy
}

// NewStatusPolicyRegistry creates the policy registry
func NewStatusPolicyRegistry(
	groups repositories.ProductGroupRepository,
	compensations repositories.CompensationRepository,
	now func() time.Time,
) *StatusPolicyRegistry {
	if now == nil {
		now = time.Now
	}

	r := &StatusPolicyRegistry{
		groups:        groups,
		compensations: compensations,
		now:           now,
	}

	r.policies = map[domain.RentalRecordStatus]*statusPolicy{
		domain.StatusPending: {
			allowed: allow(domain.StatusAgreed, domain.StatusDenied, domain.StatusCanceled),
			beforeChange: func(ctx context.Context, tx *gorm.DB, record *models.RentalRecord, to domain.RentalRecordStatus, payload Payload) error {
				switch to {
				case domain.StatusAgreed:
					// hold the gear so the owner cannot agree to two requests
					return r.groups.SetAvailable(ctx, tx, record.ProductGroupID, false)
				case domain.StatusDenied:
					if payload.String("reason") == "" {
						return &domain.PreconditionError{Reason: "denying a rental request requires a reason"}
					}
				}
				return nil
			},
		},
		domain.StatusAgreed: {
			allowed: allow(domain.StatusBorrowing, domain.StatusCanceled),
			validate: func(record *models.RentalRecord, to domain.RentalRecordStatus) error {
				switch to {
				case domain.StatusBorrowing:
					if r.now().Before(record.BorrowStartDate) {
						return &domain.PreconditionError{Reason: "cannot pick up before the borrow start date"}
					}
				case domain.StatusCanceled:
					if !r.now().Before(record.BorrowStartDate) {
						return &domain.PreconditionError{Reason: "cannot cancel once the pickup window has opened"}
					}
				}
				return nil
			},
			beforeChange: func(ctx context.Context, tx *gorm.DB, record *models.RentalRecord, to domain.RentalRecordStatus, payload Payload) error {
				if to == domain.StatusCanceled {
					return r.groups.SetAvailable(ctx, tx, record.ProductGroupID, true)
				}
				return nil
			},
		},
		domain.StatusBorrowing: {
			allowed: allow(domain.StatusNotCommented, domain.StatusCompensating),
			beforeChange: func(ctx context.Context, tx *gorm.DB, record *models.RentalRecord, to domain.RentalRecordStatus, payload Payload) error {
				if to == domain.StatusCompensating {
					amount, ok := payload.Int("compensation_price")
					if !ok || amount <= 0 {
						return &domain.PreconditionError{Reason: "compensation requires a positive compensation_price"}
					}
					record.CompensationPrice = &amount
				}
				// either way the gear is back with the owner
				return r.groups.SetAvailable(ctx, tx, record.ProductGroupID, true)
			},
			afterChange: func(ctx context.Context, record *models.RentalRecord, from domain.RentalRecordStatus, payload Payload) error {
				if record.Status != domain.StatusCompensating || record.CompensationPrice == nil {
					return nil
				}
				return r.compensations.Create(ctx, &models.UserCompensateRecord{
					RecordID:    record.ID,
					UserAccount: record.RenterAccount,
					Price:       *record.CompensationPrice,
				})
			},
		},
		domain.StatusCompensating: {
			allowed: allow(domain.StatusNotCommented),
			beforeChange: func(ctx context.Context, tx *gorm.DB, record *models.RentalRecord, to domain.RentalRecordStatus, payload Payload) error {
				return r.compensations.MarkCompensated(ctx, tx, record.ID)
			},
		},
		domain.StatusNotCommented: {
			allowed: allow(domain.StatusAlreadyCommented),
		},
		domain.StatusAlreadyCommented: {allowed: allow()},
		domain.StatusDenied:           {allowed: allow()},
		domain.StatusCanceled:         {allowed: allow()},
	}

	return r
}

func allow(statuses ...domain.RentalRecordStatus) map[domain.RentalRecordStatus]struct{} {
	set := make(map[domain.RentalRecordStatus]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// AllowedDestinations returns the legal next states from a status.
func (r *StatusPolicyRegistry) AllowedDestinations(from domain.RentalRecordStatus) []domain.RentalRecordStatus {
	policy, ok := r.policies[from]
	if !ok {
		return nil
	}
	var out []domain.RentalRecordStatus
	for _, s := range domain.AllStatuses {
		if _, ok := policy.allowed[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// CanChangeTo reports whether the edge from -> to exists.
func (r *StatusPolicyRegistry) CanChangeTo(from, to domain.RentalRecordStatus) bool {
	policy, ok := r.policies[from]
	if !ok {
		return false
	}
	_, ok = policy.allowed[to]
	return ok
}

// Validate runs the state-specific business rules of the record's status.
func (r *StatusPolicyRegistry) Validate(record *models.RentalRecord, to domain.RentalRecordStatus) error {
	policy, ok := r.policies[record.Status]
	if !ok || policy.validate == nil {
		return nil
	}
	return policy.validate(record, to)
}

// BeforeChange runs the origin policy's pre-transition hook inside tx.
func (r *StatusPolicyRegistry) BeforeChange(ctx context.Context, tx *gorm.DB, record *models.RentalRecord, to domain.RentalRecordStatus, payload Payload) error {
	policy, ok := r.policies[record.Status]
	if !ok || policy.beforeChange == nil {
		return nil
	}
	return policy.beforeChange(ctx, tx, record, to, payload)
}

// AfterChange runs the origin policy's post-commit hook. Callers treat its
// error as best-effort.
func (r *StatusPolicyRegistry) AfterChange(ctx context.Context, record *models.RentalRecord, from domain.RentalRecordStatus, payload Payload) error {
	policy, ok := r.policies[from]
	if !ok || policy.afterChange == nil {
		return nil
	}
	return policy.afterChange(ctx, record, from, payload)
}
