package services

import (
	"context"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// EligibilityService runs the pre-creation checks of a rental request.
type EligibilityService struct {
	users         repositories.UserRepository
	compensations repositories.CompensationRepository
}

// NewEligibilityService creates a new eligibility service
func NewEligibilityService(
	users repositories.UserRepository,
	compensations repositories.CompensationRepository,
) *EligibilityService {
	return &EligibilityService{
		users:         users,
		compensations: compensations,
	}
}

// CheckCreationEligibility verifies the borrower may open a rental request
// for the product group. Checks run in a fixed order and the first failure
// wins: locked account, open compensation debt, renting an own listing,
// missing approved-borrower entry.
func (s *EligibilityService) CheckCreationEligibility(ctx context.Context, borrowerAccount string, group *models.ProductGroup) error {
	locked, err := s.users.IsLocked(ctx, borrowerAccount)
	if err != nil {
		return err
	}
	if locked {
		return domain.ErrUserLocked
	}

	uncompensated, err := s.compensations.ExistsUncompensated(ctx, borrowerAccount)
	if err != nil {
		return err
	}
	if uncompensated {
		return domain.ErrUncompensated
	}

	if group.CreateAccount == borrowerAccount {
		return domain.ErrRentalSelfProduct
	}

	if !group.CanBorrowAccount(borrowerAccount) {
		return domain.ErrCannotBorrowGroup
	}

	return nil
}
