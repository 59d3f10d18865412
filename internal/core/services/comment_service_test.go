package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

func rateableRecord() *models.RentalRecord {
	return &models.RentalRecord{
		ID:            42,
		RenterAccount: "camper",
		Status:        domain.StatusNotCommented,
		ProductGroup:  &models.ProductGroup{CreateAccount: "gearowner"},
	}
}

type commentServiceFixture struct {
	svc         *CommentService
	comments    *commentRepoMock
	records     *recordRepoMock
	transitions *transitionerMock
}

func newCommentServiceFixture() *commentServiceFixture {
	f := &commentServiceFixture{
		comments:    &commentRepoMock{},
		records:     &recordRepoMock{},
		transitions: &transitionerMock{},
	}
	f.records.getByIDFn = func(ctx context.Context, id uint) (*models.RentalRecord, error) {
		return rateableRecord(), nil
	}
	f.comments.createFn = func(ctx context.Context, comment *models.UserComment) error { return nil }
	f.svc = NewCommentService(f.comments, f.records, f.transitions)
	return f
}

func TestSubmitFirstComment(t *testing.T) {
	f := newCommentServiceFixture()
	f.comments.existsFn = func(ctx context.Context, recordID uint, ratedAccount string) (bool, error) {
		// neither side has rated yet
		return false, nil
	}

	comment, err := f.svc.Submit(context.Background(), "camper", &SubmitCommentInput{
		RecordID:     42,
		RatedAccount: "gearowner",
		Rating:       5,
		Content:      "gear in great shape",
	})
	if err != nil {
		t.Fatalf("expected the first comment to pass, got %v", err)
	}

	if comment.UserAccount != "gearowner" || comment.CommentAccount != "camper" {
		t.Fatalf("unexpected comment parties %+v", comment)
	}
	if comment.Rating != 5 || comment.Content != "gear in great shape" {
		t.Fatalf("unexpected comment body %+v", comment)
	}
	if len(f.transitions.inputs) != 0 {
		t.Error("one-sided rating must not close the record")
	}
}

func TestSubmitSecondCommentClosesRecord(t *testing.T) {
	f := newCommentServiceFixture()
	f.comments.existsFn = func(ctx context.Context, recordID uint, ratedAccount string) (bool, error) {
		// the owner already rated the renter; the renter's own rating is new
		return ratedAccount == "camper", nil
	}

	_, err := f.svc.Submit(context.Background(), "camper", &SubmitCommentInput{
		RecordID:     42,
		RatedAccount: "gearowner",
		Rating:       4,
	})
	if err != nil {
		t.Fatalf("expected the second comment to pass, got %v", err)
	}

	if len(f.transitions.inputs) != 1 {
		t.Fatal("expected the record to be closed after both sides rated")
	}
	got := f.transitions.inputs[0]
	if got.ID != 42 || got.NewStatus != domain.StatusAlreadyCommented {
		t.Fatalf("unexpected transition %+v", got)
	}
	if got.Description != "counterpart already rated" {
		t.Fatalf("unexpected transition description %q", got.Description)
	}
}

func TestSubmitInvalidRating(t *testing.T) {
	f := newCommentServiceFixture()

	for _, rating := range []int{0, -1, 6} {
		_, err := f.svc.Submit(context.Background(), "camper", &SubmitCommentInput{
			RecordID:     42,
			RatedAccount: "gearowner",
			Rating:       rating,
		})
		if !errors.Is(err, domain.ErrInvalidRating) {
			t.Fatalf("expected ErrInvalidRating for rating %d, got %v", rating, err)
		}
	}
}

func TestSubmitRecordNotFound(t *testing.T) {
	f := newCommentServiceFixture()
	f.records.getByIDFn = func(ctx context.Context, id uint) (*models.RentalRecord, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := f.svc.Submit(context.Background(), "camper", &SubmitCommentInput{
		RecordID:     99,
		RatedAccount: "gearowner",
		Rating:       4,
	})
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSubmitBeforeRentalFinished(t *testing.T) {
	f := newCommentServiceFixture()
	f.records.getByIDFn = func(ctx context.Context, id uint) (*models.RentalRecord, error) {
		record := rateableRecord()
		record.Status = domain.StatusBorrowing
		return record, nil
	}

	_, err := f.svc.Submit(context.Background(), "camper", &SubmitCommentInput{
		RecordID:     42,
		RatedAccount: "gearowner",
		Rating:       4,
	})
	if !errors.Is(err, domain.ErrNotRateableYet) {
		t.Fatalf("expected ErrNotRateableYet, got %v", err)
	}
}

func TestSubmitByThirdParty(t *testing.T) {
	f := newCommentServiceFixture()

	cases := []struct {
		commenter string
		rated     string
	}{
		{"stranger", "gearowner"}, // outsider rating the owner
		{"stranger", "camper"},    // outsider rating the renter
		{"camper", "stranger"},    // party rating an outsider
		{"camper", "camper"},      // renter rating themselves
	}
	for _, c := range cases {
		_, err := f.svc.Submit(context.Background(), c.commenter, &SubmitCommentInput{
			RecordID:     42,
			RatedAccount: c.rated,
			Rating:       4,
		})
		if !errors.Is(err, domain.ErrNotRecordParty) {
			t.Fatalf("expected ErrNotRecordParty for %s rating %s, got %v", c.commenter, c.rated, err)
		}
	}
}

func TestSubmitDuplicateComment(t *testing.T) {
	f := newCommentServiceFixture()
	f.comments.existsFn = func(ctx context.Context, recordID uint, ratedAccount string) (bool, error) {
		return ratedAccount == "gearowner", nil
	}
	f.comments.createFn = func(ctx context.Context, comment *models.UserComment) error {
		t.Fatal("a duplicate rating must not be stored")
		return nil
	}

	_, err := f.svc.Submit(context.Background(), "camper", &SubmitCommentInput{
		RecordID:     42,
		RatedAccount: "gearowner",
		Rating:       4,
	})
	if !errors.Is(err, domain.ErrDuplicateComment) {
		t.Fatalf("expected ErrDuplicateComment, got %v", err)
	}
}
