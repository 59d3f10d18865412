package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// Walks one rental from the request through pickup, damaged return,
// settlement and the closing mutual ratings.
func TestRentalLifecycleWalk(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newRentalServiceFixture(domain.RoundDown, func() time.Time { return now })

	group := borrowableGroup("gearowner", "camper")
	available := true
	f.groups.getByIDFn = func(ctx context.Context, id uint) (*models.ProductGroup, error) { return group, nil }
	f.groups.listEnabledProductsFn = func(ctx context.Context, groupID uint) ([]*models.Product, error) {
		return []*models.Product{{ID: 11, Name: "Tent", Count: 1}}, nil
	}
	f.groups.setAvailableFn = func(ctx context.Context, tx *gorm.DB, groupID uint, a bool) error {
		available = a
		return nil
	}

	var stored *models.RentalRecord
	f.records.createFn = func(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error {
		record.ID = 1
		stored = record
		return nil
	}
	f.records.getByIDForUpdateFn = func(ctx context.Context, tx *gorm.DB, id uint) (*models.RentalRecord, error) {
		return stored, nil
	}
	f.records.updateFn = func(ctx context.Context, tx *gorm.DB, record *models.RentalRecord) error {
		stored = record
		return nil
	}
	f.details.createAllFn = func(ctx context.Context, tx *gorm.DB, details []models.RentalDetail) error { return nil }

	changeLogs := map[domain.RentalRecordStatus]*models.RentalRecordStatusChangeLog{}
	f.changeLogs.upsertFn = func(ctx context.Context, tx *gorm.DB, log *models.RentalRecordStatusChangeLog) error {
		changeLogs[log.ToStatus] = log
		return nil
	}

	var debt *models.UserCompensateRecord
	settled := false
	f.compensations.createFn = func(ctx context.Context, record *models.UserCompensateRecord) error {
		debt = record
		return nil
	}
	f.compensations.markCompensatedFn = func(ctx context.Context, tx *gorm.DB, recordID uint) error {
		settled = true
		return nil
	}

	ctx := context.Background()

	record, err := f.svc.Create(ctx, "camper", &CreateRentalInput{
		ProductGroupID:  1,
		BorrowStartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		BorrowEndDate:   time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.Price != 1500 {
		t.Fatalf("expected price 1500, got %d", record.Price)
	}

	steps := []*StatusChangeInput{
		{ID: 1, NewStatus: domain.StatusAgreed, Description: "owner agreed"},
		{ID: 1, NewStatus: domain.StatusBorrowing, Description: "picked up"},
		{ID: 1, NewStatus: domain.StatusCompensating, Description: "tent pole snapped",
			Payload: Payload{"compensation_price": 800}},
		{ID: 1, NewStatus: domain.StatusNotCommented, Description: "debt settled"},
	}
	for _, step := range steps {
		if err := f.svc.UpdateStatus(ctx, step); err != nil {
			t.Fatalf("transition to %s: %v", step.NewStatus, err)
		}
		if stored.Status != step.NewStatus {
			t.Fatalf("expected status %s, got %s", step.NewStatus, stored.Status)
		}
	}

	// held on AGREED, released again when the gear came back damaged
	if !available {
		t.Error("expected the group released after the return")
	}
	if stored.Status != domain.StatusNotCommented {
		t.Fatalf("expected NOT_COMMENTED, got %s", stored.Status)
	}
	if debt == nil || debt.Price != 800 || debt.UserAccount != "camper" {
		t.Fatalf("expected an 800 debt against the renter, got %+v", debt)
	}
	if !settled {
		t.Error("expected the debt marked compensated on settlement")
	}

	// both parties rate each other; the second rating closes the record
	ratings := map[string]bool{}
	comments := &commentRepoMock{
		existsFn: func(ctx context.Context, recordID uint, ratedAccount string) (bool, error) {
			return ratings[ratedAccount], nil
		},
		createFn: func(ctx context.Context, comment *models.UserComment) error {
			ratings[comment.UserAccount] = true
			return nil
		},
	}
	f.records.getByIDFn = func(ctx context.Context, id uint) (*models.RentalRecord, error) {
		stored.ProductGroup = group
		return stored, nil
	}
	commentSvc := NewCommentService(comments, f.records, f.svc)

	if _, err := commentSvc.Submit(ctx, "gearowner", &SubmitCommentInput{
		RecordID: 1, RatedAccount: "camper", Rating: 3,
	}); err != nil {
		t.Fatalf("owner rating: %v", err)
	}
	if stored.Status != domain.StatusNotCommented {
		t.Fatalf("one rating must not close the record, got %s", stored.Status)
	}

	if _, err := commentSvc.Submit(ctx, "camper", &SubmitCommentInput{
		RecordID: 1, RatedAccount: "gearowner", Rating: 5,
	}); err != nil {
		t.Fatalf("renter rating: %v", err)
	}
	if stored.Status != domain.StatusAlreadyCommented {
		t.Fatalf("expected ALREADY_COMMENTED after both ratings, got %s", stored.Status)
	}

	closing := changeLogs[domain.StatusAlreadyCommented]
	if closing == nil || closing.Description != "counterpart already rated" {
		t.Fatalf("unexpected closing change log %+v", closing)
	}
	if changeLogs[domain.StatusCompensating].Description != "tent pole snapped" {
		t.Fatalf("unexpected compensation change log %+v", changeLogs[domain.StatusCompensating])
	}
}
