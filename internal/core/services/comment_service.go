package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// CommentService handles the mutual rating exchange that closes a rental.
type CommentService struct {
	comments    repositories.CommentRepository
	records     repositories.RentalRecordRepository
	transitions StatusTransitioner
}

// NewCommentService creates a new comment service
func NewCommentService(
	comments repositories.CommentRepository,
	records repositories.RentalRecordRepository,
	transitions StatusTransitioner,
) *CommentService {
	return &CommentService{
		comments:    comments,
		records:     records,
		transitions: transitions,
	}
}

// SubmitCommentInput represents a rating submission
type SubmitCommentInput struct {
	RecordID     uint   `json:"record_id" validate:"required"`
	RatedAccount string `json:"rated_account" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Content      string `json:"content"`
}

// Submit stores one party's rating of the other. The commenter is always the
// rated account's counterpart on the record. When both parties have rated,
// the record is moved to ALREADY_COMMENTED.
func (s *CommentService) Submit(ctx context.Context, commenterAccount string, input *SubmitCommentInput) (*models.UserComment, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	record, err := s.records.GetByID(ctx, input.RecordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	if record.Status != domain.StatusNotCommented {
		return nil, domain.ErrNotRateableYet
	}

	// the rated account identifies which side is being scored; the caller
	// must be the other side of the same record
	switch input.RatedAccount {
	case record.RenterAccount:
		if commenterAccount != record.OwnerAccount() {
			return nil, domain.ErrNotRecordParty
		}
	case record.OwnerAccount():
		if commenterAccount != record.RenterAccount {
			return nil, domain.ErrNotRecordParty
		}
	default:
		return nil, domain.ErrNotRecordParty
	}

	exists, err := s.comments.Exists(ctx, input.RecordID, input.RatedAccount)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateComment
	}

	comment := &models.UserComment{
		RecordID:       input.RecordID,
		UserAccount:    input.RatedAccount,
		CommentAccount: commenterAccount,
		Rating:         input.Rating,
		Content:        input.Content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	counterpartRated, err := s.comments.Exists(ctx, input.RecordID, commenterAccount)
	if err != nil {
		return nil, err
	}
	if counterpartRated {
		err := s.transitions.UpdateStatus(ctx, &StatusChangeInput{
			ID:          input.RecordID,
			NewStatus:   domain.StatusAlreadyCommented,
			Description: "counterpart already rated",
		})
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Record %d fully rated, closed as %s", input.RecordID, domain.StatusAlreadyCommented)
	}

	return comment, nil
}

// ListByRated returns the ratings a user has received
func (s *CommentService) ListByRated(ctx context.Context, account string) ([]*models.UserComment, error) {
	return s.comments.ListByRated(ctx, account)
}
