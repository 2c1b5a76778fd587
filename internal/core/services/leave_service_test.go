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

func newLeaveService(t *testing.T) (*LeaveService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewLeaveService(repositories.NewLeaveRepository(db)), db
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func applyLeave(t *testing.T, svc *LeaveService, userID uint, start, end int) *models.Leave {
	t.Helper()
	leave, err := svc.Apply(context.Background(), userID, &ApplyLeaveInput{
		LeaveType: models.LeaveAnnual,
		StartDate: day(start),
		EndDate:   day(end),
		Reason:    "vacation",
	})
	require.NoError(t, err)
	return leave
}

func TestApplyLeave(t *testing.T) {
	svc, _ := newLeaveService(t)

	leave := applyLeave(t, svc, 1, 10, 12)
	assert.Equal(t, models.StatusPending, leave.Status)
	assert.Equal(t, day(10), leave.StartDate)
	assert.Equal(t, day(12), leave.EndDate)
}

func TestApplyLeaveInvertedRange(t *testing.T) {
	svc, _ := newLeaveService(t)

	_, err := svc.Apply(context.Background(), 1, &ApplyLeaveInput{
		LeaveType: models.LeaveSick,
		StartDate: day(12),
		EndDate:   day(10),
		Reason:    "sick",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestOverlapMatrix(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		conflict   bool
	}{
		{"inside existing", 11, 11, true},
		{"covers existing", 9, 13, true},
		{"touches start", 8, 10, true},
		{"touches end", 12, 14, true},
		{"before existing", 7, 9, false},
		{"after existing", 13, 15, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newLeaveService(t)
			applyLeave(t, svc, 1, 10, 12)

			_, err := svc.Apply(context.Background(), 1, &ApplyLeaveInput{
				LeaveType: models.LeaveCasual,
				StartDate: day(tt.start),
				EndDate:   day(tt.end),
				Reason:    "more vacation",
			})
			if tt.conflict {
				assert.ErrorIs(t, err, domain.ErrOverlappingRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRejectedLeaveDoesNotBlock(t *testing.T) {
	svc, _ := newLeaveService(t)
	ctx := context.Background()

	existing := applyLeave(t, svc, 1, 10, 12)
	_, err := svc.Decide(ctx, existing.ID, 99, &DecideLeaveInput{
		Status:       models.StatusRejected,
		AdminComment: "coverage needed",
	})
	require.NoError(t, err)

	_, err = svc.Apply(ctx, 1, &ApplyLeaveInput{
		LeaveType: models.LeaveAnnual,
		StartDate: day(10),
		EndDate:   day(12),
		Reason:    "second attempt",
	})
	assert.NoError(t, err)
}

func TestOtherUsersLeaveDoesNotBlock(t *testing.T) {
	svc, _ := newLeaveService(t)

	applyLeave(t, svc, 1, 10, 12)
	applyLeave(t, svc, 2, 10, 12)
}

func TestDecideApprove(t *testing.T) {
	svc, _ := newLeaveService(t)
	ctx := context.Background()

	leave := applyLeave(t, svc, 1, 10, 12)

	decided, err := svc.Decide(ctx, leave.ID, 99, &DecideLeaveInput{
		Status: models.StatusApproved,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, uint(99), *decided.ApprovedBy)
	assert.NotNil(t, decided.DecidedAt)
}

func TestDecideTwiceRefused(t *testing.T) {
	svc, _ := newLeaveService(t)
	ctx := context.Background()

	leave := applyLeave(t, svc, 1, 10, 12)

	_, err := svc.Decide(ctx, leave.ID, 99, &DecideLeaveInput{Status: models.StatusApproved})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, leave.ID, 99, &DecideLeaveInput{Status: models.StatusRejected, AdminComment: "no"})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestRejectNeedsComment(t *testing.T) {
	svc, _ := newLeaveService(t)

	leave := applyLeave(t, svc, 1, 10, 12)

	_, err := svc.Decide(context.Background(), leave.ID, 99, &DecideLeaveInput{
		Status: models.StatusRejected,
	})
	assert.ErrorIs(t, err, domain.ErrCommentRequired)
}

func TestOwnerEditPendingLeave(t *testing.T) {
	svc, _ := newLeaveService(t)
	ctx := context.Background()

	leave := applyLeave(t, svc, 1, 10, 12)

	newEnd := day(13)
	updated, err := svc.UpdateOwn(ctx, leave.ID, 1, &UpdateLeaveInput{EndDate: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, day(13), updated.EndDate)
}

func TestOwnerEditReRunsOverlap(t *testing.T) {
	svc, _ := newLeaveService(t)
	ctx := context.Background()

	applyLeave(t, svc, 1, 10, 12)
	second := applyLeave(t, svc, 1, 14, 15)

	newStart := day(12)
	_, err := svc.UpdateOwn(ctx, second.ID, 1, &UpdateLeaveInput{StartDate: &newStart})
	assert.ErrorIs(t, err, domain.ErrOverlappingRequest)
}

func TestOwnerCannotEditDecidedLeave(t *testing.T) {
	svc, _ := newLeaveService(t)
	ctx := context.Background()

	leave := applyLeave(t, svc, 1, 10, 12)
	_, err := svc.Decide(ctx, leave.ID, 99, &DecideLeaveInput{Status: models.StatusApproved})
	require.NoError(t, err)

	reason := "changed my mind"
	_, err = svc.UpdateOwn(ctx, leave.ID, 1, &UpdateLeaveInput{Reason: &reason})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestOwnerCannotEditOthersLeave(t *testing.T) {
	svc, _ := newLeaveService(t)

	leave := applyLeave(t, svc, 1, 10, 12)

	reason := "not mine"
	_, err := svc.UpdateOwn(context.Background(), leave.ID, 2, &UpdateLeaveInput{Reason: &reason})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWithdrawPendingLeave(t *testing.T) {
	svc, _ := newLeaveService(t)
	ctx := context.Background()

	leave := applyLeave(t, svc, 1, 10, 12)
	require.NoError(t, svc.Delete(ctx, leave.ID, 1, false))

	_, err := svc.GetByID(ctx, leave.ID, 1, false)
	assert.ErrorIs(t, err, domain.ErrLeaveNotFound)
}

func TestOwnerCannotWithdrawDecidedLeave(t *testing.T) {
	svc, _ := newLeaveService(t)
	ctx := context.Background()

	leave := applyLeave(t, svc, 1, 10, 12)
	_, err := svc.Decide(ctx, leave.ID, 99, &DecideLeaveInput{Status: models.StatusApproved})
	require.NoError(t, err)

	err = svc.Delete(ctx, leave.ID, 1, false)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	// Admins still can
	assert.NoError(t, svc.Delete(ctx, leave.ID, 99, true))
}
