package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/core/domain"
	"github.com/ntubimd/camping-backend/internal/core/services"
	"github.com/ntubimd/camping-backend/internal/pkg/response"
)

// RentalHandler handles rental record endpoints
type RentalHandler struct {
	rentalService *services.RentalService
	details       repositories.RentalDetailRepository
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(rentalService *services.RentalService, details repositories.RentalDetailRepository) *RentalHandler {
	return &RentalHandler{
		rentalService: rentalService,
		details:       details,
	}
}

// rentalError maps lifecycle errors to HTTP responses. Handlers share it so
// every endpoint reports the same condition the same way.
func rentalError(c *fiber.Ctx, err error) error {
	var statusErr *domain.StatusChangeError
	var preErr *domain.PreconditionError
	var ownerErr *domain.NotOwnerError

	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return response.NotFound(c, "Rental record not found")
	case errors.Is(err, domain.ErrGroupNotFound):
		return response.NotFound(c, "Product group not found")
	case errors.Is(err, domain.ErrChangeLogNotFound):
		return response.NotFound(c, "No change log for this status")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrUserLocked):
		return response.Forbidden(c, "Account is locked")
	case errors.Is(err, domain.ErrUncompensated):
		return response.Forbidden(c, "Unsettled compensation prevents new rentals")
	case errors.Is(err, domain.ErrRentalSelfProduct):
		return response.Forbidden(c, "Cannot rent your own listing")
	case errors.Is(err, domain.ErrCannotBorrowGroup):
		return response.Forbidden(c, "You are not approved to borrow this listing")
	case errors.Is(err, domain.ErrInvalidBorrowRange):
		return response.BadRequest(c, "Invalid borrow date range")
	case errors.Is(err, domain.ErrNotRateableYet):
		return response.Conflict(c, "Record is not awaiting ratings")
	case errors.Is(err, domain.ErrDuplicateComment):
		return response.Conflict(c, "This party has already been rated")
	case errors.Is(err, domain.ErrInvalidRating):
		return response.BadRequest(c, "Rating must be between 1 and 5")
	case errors.Is(err, domain.ErrNotRecordParty):
		return response.Forbidden(c, "You are not a party of this rental")
	case errors.As(err, &statusErr):
		return response.Conflict(c, statusErr.Error())
	case errors.As(err, &preErr):
		return response.BadRequest(c, preErr.Error())
	case errors.As(err, &ownerErr):
		return response.Forbidden(c, "You cannot view this change log")
	default:
		return response.InternalServerError(c, "Something went wrong")
	}
}

// CreateRentalRequest represents create rental request
type CreateRentalRequest struct {
	ProductGroupID  uint   `json:"product_group_id"`
	BorrowStartDate string `json:"borrow_start_date"`
	BorrowEndDate   string `json:"borrow_end_date"`
}

// Create creates a new rental record
// @Summary Create rental record
// @Description Open a new rental request for a product group
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRentalRequest true "Rental data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rentals [post]
func (h *RentalHandler) Create(c *fiber.Ctx) error {
	var req CreateRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.ProductGroupID == 0 {
		return response.BadRequest(c, "Product group is required")
	}

	start, err := time.Parse(time.RFC3339, req.BorrowStartDate)
	if err != nil {
		return response.BadRequest(c, "Invalid borrow start date")
	}
	end, err := time.Parse(time.RFC3339, req.BorrowEndDate)
	if err != nil {
		return response.BadRequest(c, "Invalid borrow end date")
	}

	account, ok := c.Locals("account").(string)
	if !ok || account == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	input := &services.CreateRentalInput{
		ProductGroupID:  req.ProductGroupID,
		BorrowStartDate: start,
		BorrowEndDate:   end,
	}

	record, err := h.rentalService.Create(c.Context(), account, input)
	if err != nil {
		return rentalError(c, err)
	}

	return response.Created(c, "Rental record created successfully", fiber.Map{
		"record": record.ToResponse(),
	})
}

// GetByID gets a rental record by ID
// @Summary Get rental record
// @Description Get a rental record with its gear snapshot
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rentals/{id} [get]
func (h *RentalHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	record, err := h.rentalService.GetByID(c.Context(), uint(id))
	if err != nil {
		return rentalError(c, err)
	}

	details, err := h.details.ListByRecord(c.Context(), record.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to get rental details")
	}

	return response.Success(c, "Rental record retrieved successfully", fiber.Map{
		"record":  record.ToResponse(),
		"details": details,
		"actions": h.rentalService.AllowedDestinations(record.Status),
	})
}

// GetMyRentals lists the caller's rentals as a renter
// @Summary Get my rentals
// @Description List rental records the caller opened
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /rentals/my [get]
func (h *RentalHandler) GetMyRentals(c *fiber.Ctx) error {
	account, ok := c.Locals("account").(string)
	if !ok || account == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	records, err := h.rentalService.SearchByRenter(c.Context(), account)
	if err != nil {
		return response.InternalServerError(c, "Failed to get rentals")
	}

	return response.Success(c, "Rentals retrieved successfully", toRecordResponses(records))
}

// GetOwnedRentals lists rentals against the caller's listings
// @Summary Get rentals of my listings
// @Description List rental records opened against listings the caller owns
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /rentals/owned [get]
func (h *RentalHandler) GetOwnedRentals(c *fiber.Ctx) error {
	account, ok := c.Locals("account").(string)
	if !ok || account == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	records, err := h.rentalService.SearchByOwner(c.Context(), account)
	if err != nil {
		return response.InternalServerError(c, "Failed to get rentals")
	}

	return response.Success(c, "Rentals retrieved successfully", toRecordResponses(records))
}

// Search searches rental records
// @Summary Search rental records
// @Description Search rental records by status and creation window (Admin only)
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param from query string false "Created from (RFC3339)"
// @Param until query string false "Created until (RFC3339)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /rentals [get]
func (h *RentalHandler) Search(c *fiber.Ctx) error {
	filter := &repositories.RentalRecordFilter{}

	if status := c.Query("status"); status != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return response.BadRequest(c, "Unknown status")
		}
		filter.Status = &parsed
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return response.BadRequest(c, "Invalid from date")
		}
		filter.RentalDateFrom = &t
	}
	if until := c.Query("until"); until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return response.BadRequest(c, "Invalid until date")
		}
		filter.RentalDateUntil = &t
	}

	records, err := h.rentalService.SearchIndex(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to search rentals")
	}

	return response.Success(c, "Rentals retrieved successfully", records)
}

// ChangeStatusRequest represents a status transition request
type ChangeStatusRequest struct {
	Status            string `json:"status"`
	Description       string `json:"description,omitempty"`
	Reason            string `json:"reason,omitempty"`
	CompensationPrice *int   `json:"compensation_price,omitempty"`
}

// ChangeStatus moves a rental record to a new status
// @Summary Change rental status
// @Description Move a rental record along its lifecycle
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param body body ChangeStatusRequest true "Transition data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /rentals/{id}/status [patch]
func (h *RentalHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	newStatus, err := domain.ParseStatus(req.Status)
	if err != nil {
		return response.BadRequest(c, "Unknown status")
	}

	payload := services.Payload{}
	if req.Reason != "" {
		payload["reason"] = req.Reason
	}
	if req.CompensationPrice != nil {
		payload["compensation_price"] = *req.CompensationPrice
	}

	input := &services.StatusChangeInput{
		ID:          uint(id),
		NewStatus:   newStatus,
		Description: req.Description,
		Payload:     payload,
	}

	if err := h.rentalService.UpdateStatus(c.Context(), input); err != nil {
		return rentalError(c, err)
	}

	return response.Success(c, "Status changed successfully", fiber.Map{
		"record_id": uint(id),
		"status":    newStatus,
	})
}

// GetChangeLog gets the change log description for a status
// @Summary Get change log description
// @Description Get the description logged when the record reached a status
// @Tags Rentals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param status path string true "Status"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /rentals/{id}/logs/{status} [get]
func (h *RentalHandler) GetChangeLog(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	status, err := domain.ParseStatus(c.Params("status"))
	if err != nil {
		return response.BadRequest(c, "Unknown status")
	}

	account, ok := c.Locals("account").(string)
	if !ok || account == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	description, err := h.rentalService.GetChangeLogDescription(c.Context(), uint(id), status, account)
	if err != nil {
		return rentalError(c, err)
	}

	return response.Success(c, "Change log retrieved successfully", fiber.Map{
		"record_id":   uint(id),
		"status":      status,
		"description": description,
	})
}

func toRecordResponses(records []*models.RentalRecord) []*models.RentalRecordResponse {
	result := make([]*models.RentalRecordResponse, 0, len(records))
	for _, record := range records {
		result = append(result, record.ToResponse())
	}
	return result
}
