package repositories

import (
	"context"

	"workclock/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// AttendanceRequestRepository handles correction request database operations
type AttendanceRequestRepository struct {
	db *gorm.DB
}

// NewAttendanceRequestRepository creates a new attendance request repository
func NewAttendanceRequestRepository(db *gorm.DB) *AttendanceRequestRepository {
	return &AttendanceRequestRepository{db: db}
}

// Create creates a new correction request
func (r *AttendanceRequestRepository) Create(ctx context.Context, request *models.AttendanceRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID returns a correction request by ID
func (r *AttendanceRequestRepository) GetByID(ctx context.Context, id uint) (*models.AttendanceRequest, error) {
	var request models.AttendanceRequest
	err := r.db.WithContext(ctx).Preload("User").First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Update saves a correction request
func (r *AttendanceRequestRepository) Update(ctx context.Context, request *models.AttendanceRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// ListByUser returns a user's correction requests, newest first
func (r *AttendanceRequestRepository) ListByUser(ctx context.Context, userID uint) ([]models.AttendanceRequest, error) {
	var requests []models.AttendanceRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// RequestFilter represents admin list filters
type RequestFilter struct {
	UserID *uint
	Status *string
	Type   *string
}

// List returns correction requests matching the filter, with pagination
func (r *AttendanceRequestRepository) List(ctx context.Context, filter RequestFilter, offset, limit int) ([]models.AttendanceRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AttendanceRequest{})

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.AttendanceRequest
	err := q.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

// CountByStatus returns the number of requests with the given status
func (r *AttendanceRequestRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AttendanceRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
