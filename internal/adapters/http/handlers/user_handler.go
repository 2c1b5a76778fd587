package handlers

import (
	"errors"

	"workclock/internal/adapters/http/middleware"
	"workclock/internal/adapters/persistence/models"
	"workclock/internal/core/domain"
	"workclock/internal/core/services"
	"workclock/internal/pkg/pagination"
	"workclock/internal/pkg/response"
	"workclock/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SetActiveRequest toggles a user's active flag
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// List returns all users for admins
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, user.ToResponse())
	}

	return response.Success(c, "Users retrieved successfully",
		pagination.NewResponse(responses, params, total))
}

// GetByID returns one user for admins
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, "User retrieved successfully", user.ToResponse())
}

// Profile returns the current user's profile
// @Summary Get my profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /profile [get]
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}
	return response.Success(c, "Profile retrieved successfully", user.ToResponse())
}

// UpdateProfile applies self-service edits to the current user
// @Summary Update my profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Context(), middleware.CurrentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.BadRequest(c, "Email already in use")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated successfully", user.ToResponse())
}

// ChangePassword changes the current user's password
// @Summary Change my password
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Passwords"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	err := h.userService.ChangePassword(c.Context(), middleware.CurrentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

// AdminUpdate edits a user's profile fields for admins
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.AdminUpdateInput true "User fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) AdminUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.AdminUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.AdminUpdate(c.Context(), uint(id), middleware.CurrentUserID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.BadRequest(c, "Email already in use")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot deactivate yourself")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", user.ToResponse())
}

// SetRole changes a user's role for admins
// @Summary Set user role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.SetRoleInput true "Role"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id}/role [put]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.SetRoleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.SetRole(c.Context(), uint(id), middleware.CurrentUserID(c), input.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot demote yourself")
		default:
			return response.InternalServerError(c, "Failed to set role")
		}
	}

	return response.Success(c, "Role updated successfully", user.ToResponse())
}

// SetActive enables or disables a user account for admins
// @Summary Activate or deactivate user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SetActiveRequest true "Active flag"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id}/active [put]
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.IsActive == nil {
		return response.BadRequest(c, "is_active is required")
	}

	user, err := h.userService.SetActive(c.Context(), uint(id), middleware.CurrentUserID(c), *req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot deactivate yourself")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", user.ToResponse())
}

// Delete soft-deletes a user for admins
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	err = h.userService.Delete(c.Context(), uint(id), middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot delete yourself")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted", nil)
}
