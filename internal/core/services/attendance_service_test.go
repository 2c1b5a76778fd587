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
)

func newAttendanceService(t *testing.T, clock time.Time) (*AttendanceService, *repositories.AttendanceRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repositories.NewAttendanceRepository(db)
	svc := NewAttendanceService(repo)
	svc.now = func() time.Time { return clock }
	return svc, repo
}

func TestCheckInCreatesRecord(t *testing.T) {
	svc, _ := newAttendanceService(t, at(8, 45))
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, 1, "on site")
	require.NoError(t, err)

	assert.Equal(t, models.AttendancePresent, record.Status)
	assert.NotNil(t, record.CheckIn)
	assert.Nil(t, record.CheckOut)
	assert.Equal(t, "on site", record.Note)
	assert.Equal(t, models.DateOnly(at(8, 45)), record.WorkDate)
}

func TestCheckInAfterGraceIsLate(t *testing.T) {
	svc, _ := newAttendanceService(t, at(10, 1))
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, record.Status)
}

func TestCheckInAtGraceBoundaryIsPresent(t *testing.T) {
	svc, _ := newAttendanceService(t, at(10, 0))
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, record.Status)
}

func TestDoubleCheckInRefused(t *testing.T) {
	svc, _ := newAttendanceService(t, at(9, 0))
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, 1, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
}

func TestCheckInUpgradesAbsentPlaceholder(t *testing.T) {
	svc, repo := newAttendanceService(t, at(9, 30))
	ctx := context.Background()

	placeholder := &models.Attendance{
		UserID:   1,
		WorkDate: models.DateOnly(at(9, 30)),
		Status:   models.AttendanceAbsent,
	}
	require.NoError(t, repo.Create(ctx, placeholder))

	record, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)

	assert.Equal(t, placeholder.ID, record.ID)
	assert.Equal(t, models.AttendancePresent, record.Status)
	assert.NotNil(t, record.CheckIn)
}

func TestCheckInUniqueIndexGuard(t *testing.T) {
	svc, repo := newAttendanceService(t, at(9, 0))
	ctx := context.Background()

	// A second row for the same (user, day) violates the unique index
	// regardless of what the service saw beforehand
	first, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)

	dup := &models.Attendance{
		UserID:   first.UserID,
		WorkDate: first.WorkDate,
		Status:   models.AttendancePresent,
	}
	err = repo.Create(ctx, dup)
	assert.Error(t, err)
}

func TestCheckOutComputesHours(t *testing.T) {
	svc, _ := newAttendanceService(t, at(9, 0))
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return at(17, 30) }

	record, err = svc.CheckOut(ctx, 1, record.ID)
	require.NoError(t, err)

	assert.NotNil(t, record.CheckOut)
	assert.Equal(t, 8.5, record.TotalHours)
	assert.Equal(t, models.AttendancePresent, record.Status)
}

func TestCheckOutWithoutIDUsesToday(t *testing.T) {
	svc, _ := newAttendanceService(t, at(9, 0))
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return at(18, 0) }

	record, err := svc.CheckOut(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 9.0, record.TotalHours)
}

func TestShortDayBecomesHalfDay(t *testing.T) {
	svc, _ := newAttendanceService(t, at(9, 0))
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return at(12, 0) }

	record, err = svc.CheckOut(ctx, 1, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceHalfDay, record.Status)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc, _ := newAttendanceService(t, at(9, 0))
	ctx := context.Background()

	_, err := svc.CheckOut(ctx, 1, 0)
	assert.ErrorIs(t, err, domain.ErrNoOpenCheckIn)
}

func TestDoubleCheckOutRefused(t *testing.T) {
	svc, _ := newAttendanceService(t, at(9, 0))
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)

	svc.now = func() time.Time { return at(17, 0) }

	_, err = svc.CheckOut(ctx, 1, record.ID)
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, 1, record.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedOut)
}

func TestCheckOutOtherUsersRecord(t *testing.T) {
	svc, _ := newAttendanceService(t, at(9, 0))
	ctx := context.Background()

	record, err := svc.CheckIn(ctx, 1, "")
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, 2, record.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetMyAttendanceBoundedByDates(t *testing.T) {
	svc, repo := newAttendanceService(t, at(9, 0))
	ctx := context.Background()

	for day := 2; day <= 6; day++ {
		date := time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, &models.Attendance{
			UserID:   1,
			WorkDate: date,
			Status:   models.AttendancePresent,
		}))
	}

	from := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)

	records, err := svc.GetMyAttendance(ctx, 1, &from, &to)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
