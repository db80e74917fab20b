package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-hub/lostfound-service/internal/api/dto"
	"github.com/campus-hub/lostfound-service/internal/auth"
	"github.com/campus-hub/lostfound-service/internal/domain"
	"github.com/campus-hub/lostfound-service/internal/repository"
	"github.com/campus-hub/lostfound-service/internal/service"
	"github.com/campus-hub/lostfound-service/internal/validation"
	apperrors "github.com/campus-hub/lostfound-service/pkg/util"
)

// FoundItemsHandler manages the found-item endpoints.
type FoundItemsHandler struct {
	service *service.FoundItemService
}

// NewFoundItemsHandler constructs handler.
func NewFoundItemsHandler(itemService *service.FoundItemService) *FoundItemsHandler {
	return &FoundItemsHandler{service: itemService}
}

// Create POST /found.
func (h *FoundItemsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("AUTH_REQUIRED", "authentication required")
	}

	var req dto.FoundItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if msgs := validation.ValidateFoundItemCreate(itemInput(req)); len(msgs) > 0 {
		return apperrors.NewValidationError("validation failed", msgs)
	}

	foundAt, err := time.Parse(time.RFC3339, *req.FoundAt)
	if err != nil {
		return apperrors.NewValidationError("validation failed", []string{"Found date must be a valid ISO 8601 datetime"})
	}

	input := service.ItemCreateInput{
		Title:             *req.Title,
		Category:          domain.ItemCategory(*req.Category),
		Description:       *req.Description,
		Location:          *req.Location,
		FoundAt:           foundAt,
		SubmissionType:    domain.SubmissionType(*req.SubmissionType),
		VerificationNotes: req.VerificationNotes,
	}
	if req.ImageURLs != nil {
		input.ImageURLs = *req.ImageURLs
	}

	item, err := h.service.Create(c.Context(), principal.Profile.ID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Found item created successfully",
		"data":    fiber.Map{"item": dto.NewFoundItemResponse(item)},
	})
}

// List GET /found.
func (h *FoundItemsHandler) List(c *fiber.Ctx) error {
	if msgs := validation.ValidatePagination(c.Query("page"), c.Query("limit")); len(msgs) > 0 {
		return apperrors.NewValidationError("validation failed", msgs)
	}

	var callerID *string
	if principal, ok := auth.PrincipalFromContext(c); ok {
		callerID = &principal.Profile.ID
	}

	page, err := h.service.List(c.Context(), callerID, parseListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    itemPageResponse(page),
	})
}

// MyItems GET /found/my-items.
func (h *FoundItemsHandler) MyItems(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("AUTH_REQUIRED", "authentication required")
	}
	if msgs := validation.ValidatePagination(c.Query("page"), c.Query("limit")); len(msgs) > 0 {
		return apperrors.NewValidationError("validation failed", msgs)
	}

	page, err := h.service.ListForFinder(c.Context(), principal.Profile.ID, parseListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    itemPageResponse(page),
	})
}

// GetByID GET /found/:id.
func (h *FoundItemsHandler) GetByID(c *fiber.Ctx) error {
	var callerID *string
	if principal, ok := auth.PrincipalFromContext(c); ok {
		callerID = &principal.Profile.ID
	}

	item, err := h.service.GetByID(c.Context(), callerID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"item": dto.NewFoundItemResponse(item)},
	})
}

// Update PATCH /found/:id.
func (h *FoundItemsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("AUTH_REQUIRED", "authentication required")
	}

	var req dto.FoundItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if msgs := validation.ValidateFoundItemUpdate(itemInput(req)); len(msgs) > 0 {
		return apperrors.NewValidationError("validation failed", msgs)
	}

	patch, err := itemPatch(req)
	if err != nil {
		return apperrors.NewValidationError("validation failed", []string{"Found date must be a valid ISO 8601 datetime"})
	}

	item, err := h.service.Update(c.Context(), principal.Profile.ID, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Found item updated successfully",
		"data":    fiber.Map{"item": dto.NewFoundItemResponse(item)},
	})
}

// Delete DELETE /found/:id.
func (h *FoundItemsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("AUTH_REQUIRED", "authentication required")
	}

	if err := h.service.Delete(c.Context(), principal.Profile.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Found item deleted successfully",
	})
}

// Claim POST /found/:id/claim.
func (h *FoundItemsHandler) Claim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("AUTH_REQUIRED", "authentication required")
	}

	var req dto.ClaimRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	item, err := h.service.Claim(c.Context(), principal.Profile.ID, c.Params("id"), req.ClaimMessage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Found item claimed successfully",
		"data":    fiber.Map{"item": dto.NewFoundItemResponse(item)},
	})
}

// Unclaim POST /found/:id/unclaim.
func (h *FoundItemsHandler) Unclaim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("AUTH_REQUIRED", "authentication required")
	}

	item, err := h.service.Unclaim(c.Context(), principal.Profile.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Found item unclaimed successfully",
		"data":    fiber.Map{"item": dto.NewFoundItemResponse(item)},
	})
}

// UpdateStatus PATCH /found/:id/status.
func (h *FoundItemsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("AUTH_REQUIRED", "authentication required")
	}

	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if msgs := validation.ValidateStatusUpdate(req.Status, req.Notes); len(msgs) > 0 {
		return apperrors.NewValidationError("invalid status", msgs)
	}

	item, err := h.service.UpdateStatus(c.Context(), principal.Profile.ID, c.Params("id"), domain.ItemStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Status updated successfully",
		"data":    fiber.Map{"item": dto.NewFoundItemResponse(item)},
	})
}

func parseListQuery(c *fiber.Ctx) service.ItemListFilter {
	filter := service.ItemListFilter{
		Page:  parseInt(c.Query("page"), 1),
		Limit: parseInt(c.Query("limit"), 20),
	}

	if status := c.Query("status"); status != "" {
		s := domain.ItemStatus(status)
		filter.Status = &s
	}
	if category := c.Query("category"); category != "" {
		cat := domain.ItemCategory(category)
		filter.Category = &cat
	}
	if location := c.Query("location"); location != "" {
		filter.Location = &location
	}
	if finderID := c.Query("finderId"); finderID != "" {
		filter.FinderID = &finderID
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}

	filter.SortBy = c.Query("sortBy", "found_at")
	filter.SortDesc = !strings.EqualFold(c.Query("sortOrder", "desc"), "asc")
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func itemInput(req dto.FoundItemRequest) validation.FoundItemInput {
	return validation.FoundItemInput{
		Title:             req.Title,
		Category:          req.Category,
		Description:       req.Description,
		Location:          req.Location,
		FoundAt:           req.FoundAt,
		SubmissionType:    req.SubmissionType,
		ImageURLs:         req.ImageURLs,
		VerificationNotes: req.VerificationNotes,
	}
}

func itemPatch(req dto.FoundItemRequest) (repository.FoundItemPatch, error) {
	patch := repository.FoundItemPatch{
		Title:             req.Title,
		Description:       req.Description,
		Location:          req.Location,
		ImageURLs:         req.ImageURLs,
		VerificationNotes: req.VerificationNotes,
	}
	if req.Category != nil {
		category := domain.ItemCategory(*req.Category)
		patch.Category = &category
	}
	if req.SubmissionType != nil {
		submissionType := domain.SubmissionType(*req.SubmissionType)
		patch.SubmissionType = &submissionType
	}
	if req.FoundAt != nil {
		foundAt, err := time.Parse(time.RFC3339, *req.FoundAt)
		if err != nil {
			return repository.FoundItemPatch{}, err
		}
		patch.FoundAt = &foundAt
	}
	return patch, nil
}

func itemPageResponse(page *service.ItemPage) dto.ItemPageResponse {
	items := make([]dto.FoundItemResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, dto.NewFoundItemResponse(&page.Items[i]))
	}
	return dto.ItemPageResponse{
		Items: items,
		Pagination: dto.PaginationResponse{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	}
}
