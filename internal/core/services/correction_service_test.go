package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"workclock/internal/adapters/persistence/models"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCorrectionService(t *testing.T, propagation string) (*CorrectionService, *repositories.AttendanceRepository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	requestRepo := repositories.NewAttendanceRequestRepository(db)

	cfg := newTestConfig()
	cfg.Propagation = propagation

	return NewCorrectionService(requestRepo, attendanceRepo, cfg), attendanceRepo, db
}

func regularizationInput(d int, inHour, outHour int) *SubmitRequestInput {
	checkIn := time.Date(2026, time.March, d, inHour, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, time.March, d, outHour, 0, 0, 0, time.UTC)
	return &SubmitRequestInput{
		Date:     day(d),
		Type:     models.RequestRegularization,
		CheckIn:  &checkIn,
		CheckOut: &checkOut,
		Reason:   "forgot to check in",
	}
}

func TestSubmitRegularization(t *testing.T) {
	svc, _, _ := newCorrectionService(t, "best-effort")

	request, err := svc.Submit(context.Background(), 1, regularizationInput(2, 9, 17))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, request.Status)
	assert.True(t, request.CanProcess())
}

func TestSubmitRegularizationNeedsBothTimestamps(t *testing.T) {
	svc, _, _ := newCorrectionService(t, "best-effort")

	input := regularizationInput(2, 9, 17)
	input.CheckOut = nil

	_, err := svc.Submit(context.Background(), 1, input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmitRegularizationInvertedTimes(t *testing.T) {
	svc, _, _ := newCorrectionService(t, "best-effort")

	input := regularizationInput(2, 17, 9)
	_, err := svc.Submit(context.Background(), 1, input)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestSubmitLeaveTypeWithoutTimestamps(t *testing.T) {
	svc, _, _ := newCorrectionService(t, "best-effort")

	_, err := svc.Submit(context.Background(), 1, &SubmitRequestInput{
		Date:   day(2),
		Type:   models.RequestLeave,
		Reason: "family emergency",
	})
	assert.NoError(t, err)
}

func TestApproveRegularizationWritesAttendance(t *testing.T) {
	svc, attendanceRepo, _ := newCorrectionService(t, "best-effort")
	ctx := context.Background()

	request, err := svc.Submit(ctx, 1, regularizationInput(2, 9, 17))
	require.NoError(t, err)

	processed, err := svc.Process(ctx, request.ID, 99, &ProcessRequestInput{
		Status: models.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, processed.Status)

	attendance, err := attendanceRepo.GetByUserAndDate(ctx, 1, day(2))
	require.NoError(t, err)
	require.NotNil(t, attendance)
	assert.Equal(t, 8.0, attendance.TotalHours)
	assert.Equal(t, models.AttendancePresent, attendance.Status)
	assert.Contains(t, attendance.Note, "forgot to check in")
	assert.Contains(t, attendance.Note, fmt.Sprintf("#%d", request.ID))
}

func TestApproveRegularizationUpdatesExistingRecord(t *testing.T) {
	svc, attendanceRepo, _ := newCorrectionService(t, "best-effort")
	ctx := context.Background()

	require.NoError(t, attendanceRepo.Create(ctx, &models.Attendance{
		UserID:   1,
		WorkDate: day(2),
		Status:   models.AttendanceAbsent,
	}))

	request, err := svc.Submit(ctx, 1, regularizationInput(2, 9, 13))
	require.NoError(t, err)

	_, err = svc.Process(ctx, request.ID, 99, &ProcessRequestInput{Status: models.StatusApproved})
	require.NoError(t, err)

	attendance, err := attendanceRepo.GetByUserAndDate(ctx, 1, day(2))
	require.NoError(t, err)
	require.NotNil(t, attendance)
	assert.Equal(t, models.AttendancePresent, attendance.Status)
	assert.Equal(t, 4.0, attendance.TotalHours)
}

func TestApproveLeaveTypeDoesNotTouchAttendance(t *testing.T) {
	svc, attendanceRepo, _ := newCorrectionService(t, "best-effort")
	ctx := context.Background()

	request, err := svc.Submit(ctx, 1, &SubmitRequestInput{
		Date:   day(2),
		Type:   models.RequestHalfDay,
		Reason: "appointment",
	})
	require.NoError(t, err)

	_, err = svc.Process(ctx, request.ID, 99, &ProcessRequestInput{Status: models.StatusApproved})
	require.NoError(t, err)

	attendance, err := attendanceRepo.GetByUserAndDate(ctx, 1, day(2))
	require.NoError(t, err)
	assert.Nil(t, attendance)
}

func TestProcessTwiceRefused(t *testing.T) {
	svc, _, _ := newCorrectionService(t, "best-effort")
	ctx := context.Background()

	request, err := svc.Submit(ctx, 1, regularizationInput(2, 9, 17))
	require.NoError(t, err)

	_, err = svc.Process(ctx, request.ID, 99, &ProcessRequestInput{Status: models.StatusApproved})
	require.NoError(t, err)

	_, err = svc.Process(ctx, request.ID, 99, &ProcessRequestInput{
		Status:       models.StatusRejected,
		AdminComment: "already handled",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestRejectRequestNeedsComment(t *testing.T) {
	svc, _, _ := newCorrectionService(t, "best-effort")
	ctx := context.Background()

	request, err := svc.Submit(ctx, 1, regularizationInput(2, 9, 17))
	require.NoError(t, err)

	_, err = svc.Process(ctx, request.ID, 99, &ProcessRequestInput{Status: models.StatusRejected})
	assert.ErrorIs(t, err, domain.ErrCommentRequired)
}

func TestRejectDoesNotTouchAttendance(t *testing.T) {
	svc, attendanceRepo, _ := newCorrectionService(t, "best-effort")
	ctx := context.Background()

	request, err := svc.Submit(ctx, 1, regularizationInput(2, 9, 17))
	require.NoError(t, err)

	processed, err := svc.Process(ctx, request.ID, 99, &ProcessRequestInput{
		Status:       models.StatusRejected,
		AdminComment: "no evidence",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, processed.Status)

	attendance, err := attendanceRepo.GetByUserAndDate(ctx, 1, day(2))
	require.NoError(t, err)
	assert.Nil(t, attendance)
}

func TestStrictPropagationStillCommits(t *testing.T) {
	svc, attendanceRepo, _ := newCorrectionService(t, "strict")
	ctx := context.Background()

	request, err := svc.Submit(ctx, 1, regularizationInput(2, 9, 17))
	require.NoError(t, err)

	processed, err := svc.Process(ctx, request.ID, 99, &ProcessRequestInput{
		Status: models.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, processed.Status)

	attendance, err := attendanceRepo.GetByUserAndDate(ctx, 1, day(2))
	require.NoError(t, err)
	require.NotNil(t, attendance)
	assert.Equal(t, 8.0, attendance.TotalHours)
}

func TestStrictPropagationAbortsOnWriteBackFailure(t *testing.T) {
	svc, _, db := newCorrectionService(t, "strict")
	ctx := context.Background()

	request, err := svc.Submit(ctx, 1, regularizationInput(2, 9, 17))
	require.NoError(t, err)

	// Break the write-back target so applyToAttendance fails
	require.NoError(t, db.Exec("DROP TABLE attendances").Error)

	_, err = svc.Process(ctx, request.ID, 99, &ProcessRequestInput{
		Status: models.StatusApproved,
	})
	require.Error(t, err)

	var stored models.AttendanceRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Nil(t, stored.ProcessedAt)
}

func TestBestEffortPropagationCommitsOnWriteBackFailure(t *testing.T) {
	svc, _, db := newCorrectionService(t, "best-effort")
	ctx := context.Background()

	request, err := svc.Submit(ctx, 1, regularizationInput(2, 9, 17))
	require.NoError(t, err)

	require.NoError(t, db.Exec("DROP TABLE attendances").Error)

	processed, err := svc.Process(ctx, request.ID, 99, &ProcessRequestInput{
		Status: models.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, processed.Status)

	var stored models.AttendanceRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	assert.Equal(t, models.StatusApproved, stored.Status)
	require.NotNil(t, stored.ProcessedAt)
}
