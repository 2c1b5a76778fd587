package services

import (
	"context"
	"errors"
	"log"
	"time"

	"workclock/internal/adapters/persistence/models"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/core/domain"

	"gorm.io/gorm"
)

// LeaveService handles leave request business logic
type LeaveService struct {
	leaveRepo *repositories.LeaveRepository
}

// NewLeaveService creates a new leave service
func NewLeaveService(leaveRepo *repositories.LeaveRepository) *LeaveService {
	return &LeaveService{leaveRepo: leaveRepo}
}

// ApplyLeaveInput represents a new leave request
type ApplyLeaveInput struct {
	LeaveType string    `json:"leave_type" validate:"required,oneof=annual sick casual unpaid"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}

// UpdateLeaveInput carries owner edits to a pending request
type UpdateLeaveInput struct {
	LeaveType *string    `json:"leave_type"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Reason    *string    `json:"reason"`
}

// DecideLeaveInput carries an admin decision
type DecideLeaveInput struct {
	Status       string `json:"status" validate:"required,oneof=approved rejected"`
	AdminComment string `json:"admin_comment"`
}

// Apply files a new leave request after overlap validation.
//
// Two requests overlap when existing.start <= new.end AND
// existing.end >= new.start; rejected requests never block.
func (s *LeaveService) Apply(ctx context.Context, userID uint, input *ApplyLeaveInput) (*models.Leave, error) {
	start := models.DateOnly(input.StartDate)
	end := models.DateOnly(input.EndDate)

	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}

	conflict, err := s.leaveRepo.FindOverlapping(ctx, userID, start, end, 0)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, domain.ErrOverlappingRequest
	}

	leave := &models.Leave{
		UserID:    userID,
		LeaveType: input.LeaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    input.Reason,
		Status:    models.StatusPending,
	}
	if err := s.leaveRepo.Create(ctx, leave); err != nil {
		return nil, err
	}

	log.Printf("✅ Leave applied user=%d %s..%s", userID,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	return leave, nil
}

// GetMyLeaves returns all leave requests of the user
func (s *LeaveService) GetMyLeaves(ctx context.Context, userID uint) ([]models.Leave, error) {
	return s.leaveRepo.ListByUser(ctx, userID)
}

// GetByID returns one leave request; non-admins can only see their own
func (s *LeaveService) GetByID(ctx context.Context, id uint, requesterID uint, isAdmin bool) (*models.Leave, error) {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && leave.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	return leave, nil
}

// List returns filtered leave requests for admins
func (s *LeaveService) List(ctx context.Context, filter repositories.LeaveFilter, offset, limit int) ([]models.Leave, int64, error) {
	return s.leaveRepo.List(ctx, filter, offset, limit)
}

// UpdateOwn lets the owner edit a still-pending request. Date changes
// re-run the overlap check excluding the request itself.
func (s *LeaveService) UpdateOwn(ctx context.Context, id, userID uint, input *UpdateLeaveInput) (*models.Leave, error) {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if leave.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if !leave.IsPending() {
		return nil, domain.ErrAlreadyProcessed
	}

	if input.LeaveType != nil {
		leave.LeaveType = *input.LeaveType
	}
	if input.Reason != nil {
		leave.Reason = *input.Reason
	}
	if input.StartDate != nil {
		leave.StartDate = models.DateOnly(*input.StartDate)
	}
	if input.EndDate != nil {
		leave.EndDate = models.DateOnly(*input.EndDate)
	}

	if leave.EndDate.Before(leave.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}

	if input.StartDate != nil || input.EndDate != nil {
		conflict, err := s.leaveRepo.FindOverlapping(ctx, userID, leave.StartDate, leave.EndDate, leave.ID)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, domain.ErrOverlappingRequest
		}
	}

	if err := s.leaveRepo.Update(ctx, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

// Decide approves or rejects a pending leave request. A request that has
// already been decided is never decided twice.
func (s *LeaveService) Decide(ctx context.Context, id, adminID uint, input *DecideLeaveInput) (*models.Leave, error) {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if !leave.IsPending() {
		return nil, domain.ErrAlreadyProcessed
	}
	if input.Status == models.StatusRejected && input.AdminComment == "" {
		return nil, domain.ErrCommentRequired
	}

	now := time.Now()
	leave.Status = input.Status
	leave.ApprovedBy = &adminID
	leave.DecidedAt = &now
	leave.AdminComment = input.AdminComment

	if err := s.leaveRepo.Update(ctx, leave); err != nil {
		return nil, err
	}

	log.Printf("✅ Leave %d %s by admin=%d", leave.ID, leave.Status, adminID)
	return leave, nil
}

// Delete removes a request: owners may withdraw while pending, admins may
// delete any request in any state.
func (s *LeaveService) Delete(ctx context.Context, id, requesterID uint, isAdmin bool) error {
	leave, err := s.getLeave(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin {
		if leave.UserID != requesterID {
			return domain.ErrForbidden
		}
		if !leave.IsPending() {
			return domain.ErrAlreadyProcessed
		}
	}
	return s.leaveRepo.Delete(ctx, leave.ID)
}

func (s *LeaveService) getLeave(ctx context.Context, id uint) (*models.Leave, error) {
	leave, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLeaveNotFound
		}
		return nil, err
	}
	return leave, nil
}
