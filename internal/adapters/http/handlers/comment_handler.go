package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ntubimd/camping-backend/internal/core/services"
	"github.com/ntubimd/camping-backend/internal/pkg/response"
)

// CommentHandler handles rating endpoints
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// SubmitCommentRequest represents a rating submission
type SubmitCommentRequest struct {
	RatedAccount string `json:"rated_account"`
	Rating       int    `json:"rating"`
	Content      string `json:"content,omitempty"`
}

// Submit submits a rating for the counterpart of a rental
// @Summary Submit rating
// @Description Rate the other party of a finished rental
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param body body SubmitCommentRequest true "Rating data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /rentals/{id}/comments [post]
func (h *CommentHandler) Submit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	var req SubmitCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.RatedAccount == "" {
		return response.BadRequest(c, "Rated account is required")
	}

	account, ok := c.Locals("account").(string)
	if !ok || account == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	input := &services.SubmitCommentInput{
		RecordID:     uint(id),
		RatedAccount: req.RatedAccount,
		Rating:       req.Rating,
		Content:      req.Content,
	}

	comment, err := h.commentService.Submit(c.Context(), account, input)
	if err != nil {
		return rentalError(c, err)
	}

	return response.Created(c, "Rating submitted successfully", fiber.Map{
		"comment": comment,
	})
}

// ListByUser lists ratings a user has received
// @Summary List user ratings
// @Description List the ratings a user account has received
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account path string true "User account"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/{account}/comments [get]
func (h *CommentHandler) ListByUser(c *fiber.Ctx) error {
	account := c.Params("account")
	if account == "" {
		return response.BadRequest(c, "Account is required")
	}

	comments, err := h.commentService.ListByRated(c.Context(), account)
	if err != nil {
		return response.InternalServerError(c, "Failed to get ratings")
	}

	return response.Success(c, "Ratings retrieved successfully", comments)
}
