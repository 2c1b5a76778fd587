package handlers

import (
	"errors"
	"strconv"

	"workclock/internal/adapters/http/middleware"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/core/domain"
	"workclock/internal/core/services"
	"workclock/internal/pkg/pagination"
	"workclock/internal/pkg/response"
	"workclock/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// CorrectionHandler handles attendance correction request endpoints
type CorrectionHandler struct {
	correctionService *services.CorrectionService
}

// NewCorrectionHandler creates a new correction handler
func NewCorrectionHandler(correctionService *services.CorrectionService) *CorrectionHandler {
	return &CorrectionHandler{correctionService: correctionService}
}

// Create submits a correction request
// @Summary Submit correction request
// @Description File a regularization, leave, half-day or work-from-home request for a past date
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitRequestInput true "Correction request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /attendance/requests [post]
func (h *CorrectionHandler) Create(c *fiber.Ctx) error {
	var input services.SubmitRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	request, err := h.correctionService.Submit(c.Context(), middleware.CurrentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Regularization requests need both check-in and check-out")
		case errors.Is(err, domain.ErrInvalidTimeRange):
			return response.BadRequest(c, "Check-out must be after check-in")
		default:
			return response.InternalServerError(c, "Failed to submit request")
		}
	}

	return response.Created(c, "Correction request submitted", request)
}

// Me lists the current user's correction requests
// @Summary My correction requests
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /attendance/requests/me [get]
func (h *CorrectionHandler) Me(c *fiber.Ctx) error {
	requests, err := h.correctionService.GetMyRequests(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch requests")
	}
	return response.Success(c, "Requests retrieved successfully", requests)
}

// GetByID returns one correction request
// @Summary Get correction request
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /attendance/requests/{id} [get]
func (h *CorrectionHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	request, err := h.correctionService.GetByID(c.Context(), uint(id),
		middleware.CurrentUserID(c), middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Correction request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only view your own requests")
		default:
			return response.InternalServerError(c, "Failed to fetch request")
		}
	}

	return response.Success(c, "Request retrieved successfully", request)
}

// List returns all correction requests for admins
// @Summary List correction requests
// @Description Admin listing with user/status/type filters and pagination
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Filter by user"
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by type"
// @Success 200 {object} response.Response
// @Router /attendance/requests [get]
func (h *CorrectionHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	var filter repositories.RequestFilter
	if raw := c.Query("userId"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid userId")
		}
		id := uint(userID)
		filter.UserID = &id
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if requestType := c.Query("type"); requestType != "" {
		filter.Type = &requestType
	}

	requests, total, err := h.correctionService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch requests")
	}

	return response.Success(c, "Requests retrieved successfully",
		pagination.NewResponse(requests, params, total))
}

// Process approves or rejects a pending correction request
// @Summary Decide correction request
// @Description Approve or reject; approving a regularization writes the timestamps back into attendance
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body services.ProcessRequestInput true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /attendance/requests/{id}/status [put]
func (h *CorrectionHandler) Process(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	var input services.ProcessRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	request, err := h.correctionService.Process(c.Context(), uint(id),
		middleware.CurrentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Correction request not found")
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return response.BadRequest(c, "Request has already been processed")
		case errors.Is(err, domain.ErrCommentRequired):
			return response.BadRequest(c, "A comment is required when rejecting")
		default:
			return response.InternalServerError(c, "Failed to process request")
		}
	}

	return response.Success(c, "Request "+request.Status, request)
}
