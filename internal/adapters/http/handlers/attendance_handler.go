package handlers

import (
	"errors"
	"strconv"
	"time"

	"workclock/internal/adapters/http/middleware"
	"workclock/internal/adapters/persistence/models"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/core/domain"
	"workclock/internal/core/services"
	"workclock/internal/pkg/pagination"
	"workclock/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AttendanceHandler handles attendance endpoints
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// CheckInRequest represents the check-in request body
type CheckInRequest struct {
	Note string `json:"note"`
}

// CheckIn opens today's attendance record
// @Summary Check in
// @Description Open today's attendance record for the current user
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /attendance/checkin [post]
func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var req CheckInRequest
	// Body is optional for check-in
	_ = c.BodyParser(&req)

	attendance, err := h.attendanceService.CheckIn(c.Context(), userID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyCheckedIn):
			return response.BadRequest(c, "Already checked in today")
		default:
			return response.InternalServerError(c, "Failed to check in")
		}
	}

	return response.Created(c, "Checked in successfully", attendance)
}

// CheckOut closes an attendance record
// @Summary Check out
// @Description Close an open attendance record and compute total hours
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int false "Attendance ID (defaults to today's record)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /attendance/checkout/{id} [put]
func (h *AttendanceHandler) CheckOut(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var id uint
	if raw := c.Params("id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid attendance ID")
		}
		id = uint(parsed)
	}

	attendance, err := h.attendanceService.CheckOut(c.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAttendanceNotFound):
			return response.NotFound(c, "Attendance record not found")
		case errors.Is(err, domain.ErrNoOpenCheckIn):
			return response.BadRequest(c, "No open check-in to close")
		case errors.Is(err, domain.ErrAlreadyCheckedOut):
			return response.BadRequest(c, "Already checked out")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only check out your own record")
		default:
			return response.InternalServerError(c, "Failed to check out")
		}
	}

	return response.Success(c, "Checked out successfully", attendance)
}

// Me lists the current user's attendance records
// @Summary My attendance
// @Description List the current user's attendance records, optionally bounded by startDate/endDate (YYYY-MM-DD)
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date"
// @Param endDate query string false "End date"
// @Success 200 {object} response.Response
// @Router /attendance/me [get]
func (h *AttendanceHandler) Me(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	from, err := parseDateQuery(c, "startDate")
	if err != nil {
		return response.BadRequest(c, "Invalid startDate, expected YYYY-MM-DD")
	}
	to, err := parseDateQuery(c, "endDate")
	if err != nil {
		return response.BadRequest(c, "Invalid endDate, expected YYYY-MM-DD")
	}

	records, err := h.attendanceService.GetMyAttendance(c.Context(), userID, from, to)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch attendance")
	}

	return response.Success(c, "Attendance retrieved successfully", records)
}

// GetByID returns one attendance record
// @Summary Get attendance record
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendance ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /attendance/{id} [get]
func (h *AttendanceHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid attendance ID")
	}

	attendance, err := h.attendanceService.GetByID(c.Context(), uint(id),
		middleware.CurrentUserID(c), middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAttendanceNotFound):
			return response.NotFound(c, "Attendance record not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only view your own records")
		default:
			return response.InternalServerError(c, "Failed to fetch attendance")
		}
	}

	return response.Success(c, "Attendance retrieved successfully", attendance)
}

// List returns all attendance records for admins
// @Summary List attendance records
// @Description Admin listing with user/status/date filters and pagination
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Filter by user"
// @Param status query string false "Filter by status"
// @Param startDate query string false "Start date"
// @Param endDate query string false "End date"
// @Param search query string false "Search by employee name or ID"
// @Success 200 {object} response.Response
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	var filter repositories.AttendanceFilter
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

	from, err := parseDateQuery(c, "startDate")
	if err != nil {
		return response.BadRequest(c, "Invalid startDate, expected YYYY-MM-DD")
	}
	to, err := parseDateQuery(c, "endDate")
	if err != nil {
		return response.BadRequest(c, "Invalid endDate, expected YYYY-MM-DD")
	}
	filter.From = from
	filter.To = to
	filter.Search = c.Query("search")

	records, total, err := h.attendanceService.List(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch attendance")
	}

	return response.Success(c, "Attendance retrieved successfully",
		pagination.NewResponse(records, params, total))
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter
func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	day := models.DateOnly(parsed)
	return &day, nil
}
