package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"workclock/internal/adapters/persistence/models"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/config"
	"workclock/internal/core/domain"

	"gorm.io/gorm"
)

// CorrectionService handles attendance correction request workflows
type CorrectionService struct {
	requestRepo    *repositories.AttendanceRequestRepository
	attendanceRepo *repositories.AttendanceRepository
	cfg            *config.Config
}

// NewCorrectionService creates a new correction service
func NewCorrectionService(
	requestRepo *repositories.AttendanceRequestRepository,
	attendanceRepo *repositories.AttendanceRepository,
	cfg *config.Config,
) *CorrectionService {
	return &CorrectionService{
		requestRepo:    requestRepo,
		attendanceRepo: attendanceRepo,
		cfg:            cfg,
	}
}

// SubmitRequestInput represents a new correction request
type SubmitRequestInput struct {
	Date     time.Time  `json:"date" validate:"required"`
	Type     string     `json:"type" validate:"required,oneof=regularization leave half-day work-from-home"`
	CheckIn  *time.Time `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
	Reason   string     `json:"reason" validate:"required"`
}

// ProcessRequestInput carries an admin decision on a request
type ProcessRequestInput struct {
	Status       string `json:"status" validate:"required,oneof=approved rejected"`
	AdminComment string `json:"admin_comment"`
}

// Submit files a correction request. Regularization requests must carry
// both timestamps and check-out must come after check-in.
func (s *CorrectionService) Submit(ctx context.Context, userID uint, input *SubmitRequestInput) (*models.AttendanceRequest, error) {
	if input.Type == models.RequestRegularization {
		if input.CheckIn == nil || input.CheckOut == nil {
			return nil, domain.ErrInvalidInput
		}
		if !input.CheckOut.After(*input.CheckIn) {
			return nil, domain.ErrInvalidTimeRange
		}
	}

	request := &models.AttendanceRequest{
		UserID:   userID,
		Date:     models.DateOnly(input.Date),
		Type:     input.Type,
		CheckIn:  input.CheckIn,
		CheckOut: input.CheckOut,
		Reason:   input.Reason,
		Status:   models.StatusPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	log.Printf("✅ Correction request %d submitted user=%d type=%s", request.ID, userID, request.Type)
	return request, nil
}

// GetMyRequests returns all correction requests of the user
func (s *CorrectionService) GetMyRequests(ctx context.Context, userID uint) ([]models.AttendanceRequest, error) {
	return s.requestRepo.ListByUser(ctx, userID)
}

// GetByID returns one request; non-admins can only see their own
func (s *CorrectionService) GetByID(ctx context.Context, id uint, requesterID uint, isAdmin bool) (*models.AttendanceRequest, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && request.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	return request, nil
}

// List returns filtered correction requests for admins
func (s *CorrectionService) List(ctx context.Context, filter repositories.RequestFilter, offset, limit int) ([]models.AttendanceRequest, int64, error) {
	return s.requestRepo.List(ctx, filter, offset, limit)
}

// Process approves or rejects a pending request. An approved
// regularization or work-from-home request writes the corrected
// timestamps back into the attendance table.
//
// Write-back ordering depends on PROPAGATION_MODE: in strict mode the
// attendance upsert happens first and a failure aborts the decision; in
// best-effort mode the decision is committed first and a write-back
// failure is only logged.
func (s *CorrectionService) Process(ctx context.Context, id, adminID uint, input *ProcessRequestInput) (*models.AttendanceRequest, error) {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !request.CanProcess() {
		return nil, domain.ErrAlreadyProcessed
	}
	if input.Status == models.StatusRejected && input.AdminComment == "" {
		return nil, domain.ErrCommentRequired
	}

	now := time.Now()
	request.Status = input.Status
	request.ProcessedBy = &adminID
	request.ProcessedAt = &now
	request.AdminComment = input.AdminComment

	propagate := input.Status == models.StatusApproved && s.propagates(request.Type)

	if propagate && s.cfg.StrictPropagation() {
		if err := s.applyToAttendance(ctx, request); err != nil {
			return nil, err
		}
	}

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	if propagate && !s.cfg.StrictPropagation() {
		if err := s.applyToAttendance(ctx, request); err != nil {
			log.Printf("⚠️ Attendance write-back failed for request %d: %v", request.ID, err)
		}
	}

	log.Printf("✅ Correction request %d %s by admin=%d", request.ID, request.Status, adminID)
	return request, nil
}

// propagates reports whether approving a request of this type rewrites
// the attendance record for its date
func (s *CorrectionService) propagates(requestType string) bool {
	switch requestType {
	case models.RequestRegularization, models.RequestWorkFromHome:
		return true
	}
	return false
}

// applyToAttendance upserts the attendance row for the request's date with
// the corrected timestamps
func (s *CorrectionService) applyToAttendance(ctx context.Context, request *models.AttendanceRequest) error {
	attendance, err := s.attendanceRepo.GetByUserAndDate(ctx, request.UserID, request.Date)
	if err != nil {
		return err
	}

	if attendance == nil {
		attendance = &models.Attendance{
			UserID:   request.UserID,
			WorkDate: request.Date,
		}
	}

	if request.CheckIn != nil {
		attendance.CheckIn = request.CheckIn
	}
	if request.CheckOut != nil {
		attendance.CheckOut = request.CheckOut
	}
	if attendance.CheckIn != nil && attendance.CheckOut != nil {
		attendance.TotalHours = models.HoursBetween(*attendance.CheckIn, *attendance.CheckOut)
	}
	attendance.Status = models.AttendancePresent
	attendance.Note = fmt.Sprintf("Corrected per request #%d: %s", request.ID, request.Reason)

	if attendance.ID == 0 {
		if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
			// Lost a race with a direct check-in for the same day; retry
			// as an update of the winning row.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return s.applyToAttendance(ctx, request)
			}
			return err
		}
		return nil
	}
	return s.attendanceRepo.Update(ctx, attendance)
}

func (s *CorrectionService) getRequest(ctx context.Context, id uint) (*models.AttendanceRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}
