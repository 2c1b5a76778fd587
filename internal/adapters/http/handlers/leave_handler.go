package handlers

import (
	"bytes"
	"encoding/json"
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

// LeaveHandler handles leave request endpoints
type LeaveHandler struct {
	leaveService *services.LeaveService
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(leaveService *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// Create files a new leave request
// @Summary Apply for leave
// @Description File a leave request; overlapping non-rejected requests are refused
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ApplyLeaveInput true "Leave request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /leaves [post]
func (h *LeaveHandler) Create(c *fiber.Ctx) error {
	var input services.ApplyLeaveInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	leave, err := h.leaveService.Apply(c.Context(), middleware.CurrentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidDateRange):
			return response.BadRequest(c, "End date must not be before start date")
		case errors.Is(err, domain.ErrOverlappingRequest):
			return response.BadRequest(c, "Leave request overlaps an existing request")
		default:
			return response.InternalServerError(c, "Failed to apply for leave")
		}
	}

	return response.Created(c, "Leave request submitted", leave)
}

// Me lists the current user's leave requests
// @Summary My leave requests
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /leaves/me [get]
func (h *LeaveHandler) Me(c *fiber.Ctx) error {
	leaves, err := h.leaveService.GetMyLeaves(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch leave requests")
	}
	return response.Success(c, "Leave requests retrieved successfully", leaves)
}

// GetByID returns one leave request
// @Summary Get leave request
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /leaves/{id} [get]
func (h *LeaveHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid leave ID")
	}

	leave, err := h.leaveService.GetByID(c.Context(), uint(id),
		middleware.CurrentUserID(c), middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLeaveNotFound):
			return response.NotFound(c, "Leave request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only view your own leave requests")
		default:
			return response.InternalServerError(c, "Failed to fetch leave request")
		}
	}

	return response.Success(c, "Leave request retrieved successfully", leave)
}

// List returns all leave requests for admins
// @Summary List leave requests
// @Description Admin listing with user/status filters and pagination
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Filter by user"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /leaves [get]
func (h *LeaveHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	var filter repositories.LeaveFilter
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

	leaves, total, err := h.leaveService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch leave requests")
	}

	return response.Success(c, "Leave requests retrieved successfully",
		pagination.NewResponse(leaves, params, total))
}

// Update edits a pending request (owner) or decides it (admin).
// A body with a "status" field is treated as a decision; unknown fields
// are rejected outright.
// @Summary Update or decide a leave request
// @Tags Leaves
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /leaves/{id} [put]
func (h *LeaveHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid leave ID")
	}

	var peek struct {
		Status *string `json:"status"`
	}
	if err := json.Unmarshal(c.Body(), &peek); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if peek.Status != nil {
		return h.decide(c, uint(id))
	}
	return h.updateOwn(c, uint(id))
}

func (h *LeaveHandler) decide(c *fiber.Ctx, id uint) error {
	if !middleware.IsAdmin(c) {
		return response.Forbidden(c, "Only admins can approve or reject leave requests")
	}

	var input services.DecideLeaveInput
	if err := strictDecode(c.Body(), &input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	leave, err := h.leaveService.Decide(c.Context(), id, middleware.CurrentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLeaveNotFound):
			return response.NotFound(c, "Leave request not found")
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return response.BadRequest(c, "Leave request has already been decided")
		case errors.Is(err, domain.ErrCommentRequired):
			return response.BadRequest(c, "A comment is required when rejecting")
		default:
			return response.InternalServerError(c, "Failed to decide leave request")
		}
	}

	return response.Success(c, "Leave request "+leave.Status, leave)
}

func (h *LeaveHandler) updateOwn(c *fiber.Ctx, id uint) error {
	var input services.UpdateLeaveInput
	if err := strictDecode(c.Body(), &input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	leave, err := h.leaveService.UpdateOwn(c.Context(), id, middleware.CurrentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLeaveNotFound):
			return response.NotFound(c, "Leave request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only edit your own leave requests")
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return response.BadRequest(c, "Only pending leave requests can be edited")
		case errors.Is(err, domain.ErrInvalidDateRange):
			return response.BadRequest(c, "End date must not be before start date")
		case errors.Is(err, domain.ErrOverlappingRequest):
			return response.BadRequest(c, "Leave request overlaps an existing request")
		default:
			return response.InternalServerError(c, "Failed to update leave request")
		}
	}

	return response.Success(c, "Leave request updated successfully", leave)
}

// Delete withdraws (owner, pending only) or removes (admin) a request
// @Summary Delete leave request
// @Tags Leaves
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /leaves/{id} [delete]
func (h *LeaveHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid leave ID")
	}

	err = h.leaveService.Delete(c.Context(), uint(id),
		middleware.CurrentUserID(c), middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLeaveNotFound):
			return response.NotFound(c, "Leave request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only withdraw your own leave requests")
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return response.BadRequest(c, "Only pending leave requests can be withdrawn")
		default:
			return response.InternalServerError(c, "Failed to delete leave request")
		}
	}

	return response.Success(c, "Leave request deleted", nil)
}

// strictDecode unmarshals JSON refusing unknown fields
func strictDecode(body []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
