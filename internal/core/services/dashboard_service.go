package services

import (
	"context"
	"time"

	"workclock/internal/adapters/persistence/models"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/core/domain"
)

// DashboardService aggregates counts for the admin and employee dashboards
type DashboardService struct {
	attendanceRepo *repositories.AttendanceRepository
	leaveRepo      *repositories.LeaveRepository
	requestRepo    *repositories.AttendanceRequestRepository
	userRepo       repositories.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	attendanceRepo *repositories.AttendanceRepository,
	leaveRepo *repositories.LeaveRepository,
	requestRepo *repositories.AttendanceRequestRepository,
	userRepo repositories.UserRepository,
) *DashboardService {
	return &DashboardService{
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		requestRepo:    requestRepo,
		userRepo:       userRepo,
	}
}

// AdminSummary is the admin dashboard payload
type AdminSummary struct {
	Date            string           `json:"date"`
	TotalEmployees  int              `json:"total_employees"`
	Today           map[string]int64 `json:"today"`
	PendingLeaves   int64            `json:"pending_leaves"`
	PendingRequests int64            `json:"pending_requests"`
}

// MySummary is the employee dashboard payload for one month
type MySummary struct {
	Month        string  `json:"month"`
	DaysPresent  int     `json:"days_present"`
	DaysLate     int     `json:"days_late"`
	DaysAbsent   int     `json:"days_absent"`
	DaysHalfDay  int     `json:"days_half_day"`
	DaysOnLeave  int     `json:"days_on_leave"`
	TotalHours   float64 `json:"total_hours"`
	AverageHours float64 `json:"average_hours"`
}

// AdminDashboard returns today's attendance breakdown and pending queues
func (s *DashboardService) AdminDashboard(ctx context.Context) (*AdminSummary, error) {
	today := models.DateOnly(time.Now())

	counts, err := s.attendanceRepo.CountByStatusOnDate(ctx, today)
	if err != nil {
		return nil, err
	}

	employees, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	pendingLeaves, err := s.leaveRepo.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}

	pendingRequests, err := s.requestRepo.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}

	return &AdminSummary{
		Date:            today.Format("2006-01-02"),
		TotalEmployees:  len(employees),
		Today:           counts,
		PendingLeaves:   pendingLeaves,
		PendingRequests: pendingRequests,
	}, nil
}

// MyDashboard returns the user's attendance summary for one month.
// month has layout "2006-01"; empty means the current month.
func (s *DashboardService) MyDashboard(ctx context.Context, userID uint, month string) (*MySummary, error) {
	var start time.Time
	if month == "" {
		now := time.Now()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		start = parsed
	}
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	records, err := s.attendanceRepo.ListByUser(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}

	summary := &MySummary{Month: start.Format("2006-01")}
	worked := 0
	for _, record := range records {
		switch record.Status {
		case models.AttendancePresent:
			summary.DaysPresent++
		case models.AttendanceLate:
			summary.DaysLate++
		case models.AttendanceAbsent:
			summary.DaysAbsent++
		case models.AttendanceHalfDay:
			summary.DaysHalfDay++
		case models.AttendanceOnLeave:
			summary.DaysOnLeave++
		}
		if record.TotalHours > 0 {
			summary.TotalHours += record.TotalHours
			worked++
		}
	}
	summary.TotalHours = models.RoundHours(summary.TotalHours)
	if worked > 0 {
		summary.AverageHours = models.RoundHours(summary.TotalHours / float64(worked))
	}
	return summary, nil
}
