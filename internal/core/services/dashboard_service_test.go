package services

import (
	"context"
	"testing"
	"time"

	"workclock/internal/adapters/persistence/models"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDashboardService(t *testing.T) (*DashboardService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewDashboardService(
		repositories.NewAttendanceRepository(db),
		repositories.NewLeaveRepository(db),
		repositories.NewAttendanceRequestRepository(db),
		repositories.NewUserRepository(db),
	)
	return svc, db
}

func TestAdminDashboard(t *testing.T) {
	svc, db := newDashboardService(t)
	ctx := context.Background()

	alice := seedUser(t, db, "alice", models.RoleEmployee)
	seedUser(t, db, "bob", models.RoleEmployee)

	today := models.DateOnly(time.Now())
	require.NoError(t, db.Create(&models.Attendance{
		UserID:   alice.ID,
		WorkDate: today,
		Status:   models.AttendancePresent,
	}).Error)

	require.NoError(t, db.Create(&models.Leave{
		UserID:    alice.ID,
		LeaveType: models.LeaveSick,
		StartDate: today,
		EndDate:   today,
		Reason:    "flu",
		Status:    models.StatusPending,
	}).Error)

	summary, err := svc.AdminDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalEmployees)
	assert.Equal(t, int64(1), summary.Today[models.AttendancePresent])
	assert.Equal(t, int64(0), summary.Today[models.AttendanceAbsent])
	assert.Equal(t, int64(1), summary.PendingLeaves)
	assert.Equal(t, int64(0), summary.PendingRequests)
}

func TestMyDashboardMonthSummary(t *testing.T) {
	svc, db := newDashboardService(t)
	ctx := context.Background()

	user := seedUser(t, db, "alice", models.RoleEmployee)

	insert := func(d int, status string, hours float64) {
		require.NoError(t, db.Create(&models.Attendance{
			UserID:     user.ID,
			WorkDate:   day(d),
			Status:     status,
			TotalHours: hours,
		}).Error)
	}

	insert(2, models.AttendancePresent, 8)
	insert(3, models.AttendancePresent, 9)
	insert(4, models.AttendanceLate, 7)
	insert(5, models.AttendanceAbsent, 0)
	insert(6, models.AttendanceOnLeave, 0)

	summary, err := svc.MyDashboard(ctx, user.ID, "2026-03")
	require.NoError(t, err)

	assert.Equal(t, "2026-03", summary.Month)
	assert.Equal(t, 2, summary.DaysPresent)
	assert.Equal(t, 1, summary.DaysLate)
	assert.Equal(t, 1, summary.DaysAbsent)
	assert.Equal(t, 1, summary.DaysOnLeave)
	assert.Equal(t, 24.0, summary.TotalHours)
	assert.Equal(t, 8.0, summary.AverageHours)
}

func TestMyDashboardInvalidMonth(t *testing.T) {
	svc, _ := newDashboardService(t)

	_, err := svc.MyDashboard(context.Background(), 1, "March")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
