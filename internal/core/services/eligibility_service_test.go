package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

func borrowableGroup(owner string, borrowers ...string) *models.ProductGroup {
	group := &models.ProductGroup{ID: 1, CreateAccount: owner, Price: 500}
	for _, account := range borrowers {
		group.CanBorrow = append(group.CanBorrow, models.CanBorrowProductGroup{
			GroupID:     group.ID,
			UserAccount: account,
		})
	}
	return group
}

func TestCheckCreationEligibilityPasses(t *testing.T) {
	users := &userRepoMock{
		isLockedFn: func(ctx context.Context, account string) (bool, error) { return false, nil },
	}
	compensations := &compensationRepoMock{
		existsUncompensatedFn: func(ctx context.Context, account string) (bool, error) { return false, nil },
	}
	svc := NewEligibilityService(users, compensations)

	group := borrowableGroup("gearowner", "camper")
	if err := svc.CheckCreationEligibility(context.Background(), "camper", group); err != nil {
		t.Fatalf("expected eligibility to pass, got %v", err)
	}
}

func TestCheckCreationEligibilityLockedUser(t *testing.T) {
	users := &userRepoMock{
		isLockedFn: func(ctx context.Context, account string) (bool, error) { return true, nil },
	}
	compensations := &compensationRepoMock{
		existsUncompensatedFn: func(ctx context.Context, account string) (bool, error) {
			t.Fatal("compensation check must not run when the account is locked")
			return false, nil
		},
	}
	svc := NewEligibilityService(users, compensations)

	// an own listing too, so a wrong check order would surface a different error
	group := borrowableGroup("camper")
	err := svc.CheckCreationEligibility(context.Background(), "camper", group)
	if !errors.Is(err, domain.ErrUserLocked) {
		t.Fatalf("expected ErrUserLocked, got %v", err)
	}
}

func TestCheckCreationEligibilityUncompensated(t *testing.T) {
	users := &userRepoMock{
		isLockedFn: func(ctx context.Context, account string) (bool, error) { return false, nil },
	}
	compensations := &compensationRepoMock{
		existsUncompensatedFn: func(ctx context.Context, account string) (bool, error) { return true, nil },
	}
	svc := NewEligibilityService(users, compensations)

	group := borrowableGroup("gearowner", "camper")
	err := svc.CheckCreationEligibility(context.Background(), "camper", group)
	if !errors.Is(err, domain.ErrUncompensated) {
		t.Fatalf("expected ErrUncompensated, got %v", err)
	}
}

func TestCheckCreationEligibilityOwnListing(t *testing.T) {
	users := &userRepoMock{
		isLockedFn: func(ctx context.Context, account string) (bool, error) { return false, nil },
	}
	compensations := &compensationRepoMock{
		existsUncompensatedFn: func(ctx context.Context, account string) (bool, error) { return false, nil },
	}
	svc := NewEligibilityService(users, compensations)

	group := borrowableGroup("camper", "camper")
	err := svc.CheckCreationEligibility(context.Background(), "camper", group)
	if !errors.Is(err, domain.ErrRentalSelfProduct) {
		t.Fatalf("expected ErrRentalSelfProduct, got %v", err)
	}
}

func TestCheckCreationEligibilityNotApprovedBorrower(t *testing.T) {
	users := &userRepoMock{
		isLockedFn: func(ctx context.Context, account string) (bool, error) { return false, nil },
	}
	compensations := &compensationRepoMock{
		existsUncompensatedFn: func(ctx context.Context, account string) (bool, error) { return false, nil },
	}
	svc := NewEligibilityService(users, compensations)

	group := borrowableGroup("gearowner", "someoneelse")
	err := svc.CheckCreationEligibility(context.Background(), "camper", group)
	if !errors.Is(err, domain.ErrCannotBorrowGroup) {
		t.Fatalf("expected ErrCannotBorrowGroup, got %v", err)
	}
}
