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

// Work day starts at 09:00; a check-in after the grace window is late.
const (
	workDayStartHour  = 9
	lateGraceMinutes  = 60
	halfDayHoursLimit = 4.0
)

// AttendanceService handles check-in/check-out business logic
type AttendanceService struct {
	attendanceRepo *repositories.AttendanceRepository
	now            func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(attendanceRepo *repositories.AttendanceRepository) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

// CheckIn opens today's attendance record for the user.
//
// State machine per (user, day): no record or an absent placeholder may be
// checked into; a record that already has a check-in refuses a second one.
func (s *AttendanceService) CheckIn(ctx context.Context, userID uint, note string) (*models.Attendance, error) {
	now := s.now()
	today := models.DateOnly(now)

	// 1. Look for today's record
	existing, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.CheckIn != nil {
			return nil, domain.ErrAlreadyCheckedIn
		}

		// 2a. Upgrade a placeholder (absent / on-leave row written by the
		// nightly job) into a real check-in
		existing.CheckIn = &now
		existing.Status = statusForCheckIn(now)
		if note != "" {
			existing.Note = note
		}
		if err := s.attendanceRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		log.Printf("✅ Check-in (upgraded) user=%d at %s", userID, now.Format(time.RFC3339))
		return existing, nil
	}

	// 2b. Create a fresh record. The unique (user_id, work_date) index is
	// the last line of defence against a concurrent double check-in.
	attendance := &models.Attendance{
		UserID:   userID,
		WorkDate: today,
		CheckIn:  &now,
		Status:   statusForCheckIn(now),
		Note:     note,
	}
	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyCheckedIn
		}
		return nil, err
	}

	log.Printf("✅ Check-in user=%d at %s", userID, now.Format(time.RFC3339))
	return attendance, nil
}

// CheckOut closes an open attendance record and computes total hours.
// When id is 0 the user's record for today is used.
func (s *AttendanceService) CheckOut(ctx context.Context, userID uint, id uint) (*models.Attendance, error) {
	now := s.now()

	var attendance *models.Attendance
	var err error

	if id != 0 {
		attendance, err = s.attendanceRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrAttendanceNotFound
			}
			return nil, err
		}
		if attendance.UserID != userID {
			return nil, domain.ErrForbidden
		}
	} else {
		attendance, err = s.attendanceRepo.GetByUserAndDate(ctx, userID, models.DateOnly(now))
		if err != nil {
			return nil, err
		}
		if attendance == nil {
			return nil, domain.ErrNoOpenCheckIn
		}
	}

	if attendance.CheckIn == nil {
		return nil, domain.ErrNoOpenCheckIn
	}
	if attendance.CheckOut != nil {
		return nil, domain.ErrAlreadyCheckedOut
	}

	attendance.CheckOut = &now
	attendance.TotalHours = models.HoursBetween(*attendance.CheckIn, now)
	if attendance.TotalHours < halfDayHoursLimit && attendance.Status == models.AttendancePresent {
		attendance.Status = models.AttendanceHalfDay
	}

	if err := s.attendanceRepo.Update(ctx, attendance); err != nil {
		return nil, err
	}

	log.Printf("✅ Check-out user=%d hours=%.2f", userID, attendance.TotalHours)
	return attendance, nil
}

// GetMyAttendance returns the user's records, optionally bounded by dates
func (s *AttendanceService) GetMyAttendance(ctx context.Context, userID uint, from, to *time.Time) ([]models.Attendance, error) {
	return s.attendanceRepo.ListByUser(ctx, userID, from, to)
}

// GetByID returns one attendance record; non-admins can only see their own
func (s *AttendanceService) GetByID(ctx context.Context, id uint, requesterID uint, isAdmin bool) (*models.Attendance, error) {
	attendance, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAttendanceNotFound
		}
		return nil, err
	}
	if !isAdmin && attendance.UserID != requesterID {
		return nil, domain.ErrForbidden
	}
	return attendance, nil
}

// List returns filtered attendance records for admins
func (s *AttendanceService) List(ctx context.Context, filter repositories.AttendanceFilter, offset, limit int) ([]models.Attendance, int64, error) {
	return s.attendanceRepo.List(ctx, filter, offset, limit)
}

// statusForCheckIn marks a check-in after 10:00 as late
func statusForCheckIn(t time.Time) string {
	cutoff := time.Date(t.Year(), t.Month(), t.Day(), workDayStartHour, 0, 0, 0, t.Location()).
		Add(lateGraceMinutes * time.Minute)
	if t.After(cutoff) {
		return models.AttendanceLate
	}
	return models.AttendancePresent
}
