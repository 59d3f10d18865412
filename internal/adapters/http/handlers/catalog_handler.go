package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ntubimd/camping-backend/internal/core/services"
	"github.com/ntubimd/camping-backend/internal/pkg/pagination"
	"github.com/ntubimd/camping-backend/internal/pkg/response"
)

// CatalogHandler handles catalog endpoints
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListGroups lists catalog listings
// @Summary List product groups
// @Description List rentable gear listings with pagination
// @Tags Catalog
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /groups [get]
func (h *CatalogHandler) ListGroups(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	groups, total, err := h.catalogService.ListGroups(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list product groups")
	}

	return response.Success(c, "Product groups retrieved successfully",
		pagination.NewResponse(groups, params, total))
}

// GetGroup gets one listing
// @Summary Get product group
// @Description Get a gear listing with its items
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /groups/{id} [get]
func (h *CatalogHandler) GetGroup(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid group ID")
	}

	group, err := h.catalogService.GetGroup(c.Context(), uint(id))
	if err != nil {
		return rentalError(c, err)
	}

	return response.Success(c, "Product group retrieved successfully", fiber.Map{
		"group": group,
	})
}
