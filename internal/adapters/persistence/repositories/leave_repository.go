package repositories

import (
	"context"
	"time"

	"workclock/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// LeaveRepository handles leave database operations
type LeaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository creates a new leave repository
func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// Create creates a new leave request
func (r *LeaveRepository) Create(ctx context.Context, leave *models.Leave) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

// GetByID returns a leave by ID with relations preloaded
func (r *LeaveRepository) GetByID(ctx context.Context, id uint) (*models.Leave, error) {
	var leave models.Leave
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Approver").
		First(&leave, id).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

// Update saves a leave request
func (r *LeaveRepository) Update(ctx context.Context, leave *models.Leave) error {
	return r.db.WithContext(ctx).Save(leave).Error
}

// Delete soft deletes a leave request
func (r *LeaveRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Leave{}, id).Error
}

// ListByUser returns a user's leave requests, newest first
func (r *LeaveRepository) ListByUser(ctx context.Context, userID uint) ([]models.Leave, error) {
	var leaves []models.Leave
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

// LeaveFilter represents admin list filters
type LeaveFilter struct {
	UserID *uint
	Status *string
}

// List returns leave requests matching the filter, with pagination
func (r *LeaveRepository) List(ctx context.Context, filter LeaveFilter, offset, limit int) ([]models.Leave, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Leave{})

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []models.Leave
	err := q.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&leaves).Error
	return leaves, total, err
}

// FindOverlapping returns the first non-rejected leave for the user whose
// range intersects [start,end], excluding excludeID (0 to exclude nothing).
// Returns nil when no conflict exists.
func (r *LeaveRepository) FindOverlapping(ctx context.Context, userID uint, start, end time.Time, excludeID uint) (*models.Leave, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, models.StatusRejected).
		Where("start_date <= ? AND end_date >= ?", models.DateOnly(end), models.DateOnly(start))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var leave models.Leave
	err := q.First(&leave).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

// HasApprovedLeaveOn reports whether the user has an approved leave covering
// the given day
func (r *LeaveRepository) HasApprovedLeaveOn(ctx context.Context, userID uint, day time.Time) (bool, error) {
	var count int64
	d := models.DateOnly(day)
	err := r.db.WithContext(ctx).Model(&models.Leave{}).
		Where("user_id = ? AND status = ?", userID, models.StatusApproved).
		Where("start_date <= ? AND end_date >= ?", d, d).
		Count(&count).Error
	return count > 0, err
}

// CountByStatus returns the number of leaves with the given status
func (r *LeaveRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Leave{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
