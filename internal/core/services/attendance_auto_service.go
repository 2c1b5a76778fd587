package services

import (
	"context"
	"log"
	"time"

	"workclock/internal/adapters/persistence/models"
	"workclock/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// AttendanceAutoService writes absent/on-leave placeholder records for
// active employees who never checked in, every night before midnight.
type AttendanceAutoService struct {
	attendanceRepo *repositories.AttendanceRepository
	leaveRepo      *repositories.LeaveRepository
	userRepo       repositories.UserRepository
	cron           *cron.Cron
}

// NewAttendanceAutoService creates the nightly marker
func NewAttendanceAutoService(
	attendanceRepo *repositories.AttendanceRepository,
	leaveRepo *repositories.LeaveRepository,
	userRepo repositories.UserRepository,
) *AttendanceAutoService {
	return &AttendanceAutoService{
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		userRepo:       userRepo,
		cron:           cron.New(),
	}
}

// Start schedules the nightly run at 23:55
func (s *AttendanceAutoService) Start() error {
	_, err := s.cron.AddFunc("55 23 * * *", func() {
		if err := s.MarkAbsentees(context.Background(), time.Now()); err != nil {
			log.Printf("❌ Nightly absentee marking failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Println("✅ Nightly absentee marker scheduled (23:55)")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *AttendanceAutoService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// MarkAbsentees writes a placeholder record for every active employee
// without one on the given day. Weekends are skipped. Employees with an
// approved leave covering the day are marked on-leave, everyone else
// absent.
func (s *AttendanceAutoService) MarkAbsentees(ctx context.Context, day time.Time) error {
	day = models.DateOnly(day)
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return nil
	}

	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	marked := 0
	for _, user := range users {
		existing, err := s.attendanceRepo.GetByUserAndDate(ctx, user.ID, day)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		status := models.AttendanceAbsent
		onLeave, err := s.leaveRepo.HasApprovedLeaveOn(ctx, user.ID, day)
		if err != nil {
			return err
		}
		if onLeave {
			status = models.AttendanceOnLeave
		}

		record := &models.Attendance{
			UserID:   user.ID,
			WorkDate: day,
			Status:   status,
		}
		if err := s.attendanceRepo.Create(ctx, record); err != nil {
			log.Printf("⚠️ Could not mark user %d on %s: %v", user.ID, day.Format("2006-01-02"), err)
			continue
		}
		marked++
	}

	log.Printf("✅ Nightly marking done for %s: %d records", day.Format("2006-01-02"), marked)
	return nil
}
