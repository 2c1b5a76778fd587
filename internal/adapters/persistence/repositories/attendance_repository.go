package repositories

import (
	"context"
	"time"

	"workclock/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a new attendance record. The compound unique index on
// (user_id, work_date) makes a same-day duplicate fail with
// gorm.ErrDuplicatedKey.
func (r *AttendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	return r.db.WithContext(ctx).Create(attendance).Error
}

// GetByID returns an attendance record by ID
func (r *AttendanceRepository) GetByID(ctx context.Context, id uint) (*models.Attendance, error) {
	var attendance models.Attendance
	err := r.db.WithContext(ctx).First(&attendance, id).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

// GetByUserAndDate returns the record for (user, work day), or nil when none
// exists
func (r *AttendanceRepository) GetByUserAndDate(ctx context.Context, userID uint, workDate time.Time) (*models.Attendance, error) {
	var attendance models.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date = ?", userID, models.DateOnly(workDate)).
		First(&attendance).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

// Update saves an attendance record
func (r *AttendanceRepository) Update(ctx context.Context, attendance *models.Attendance) error {
	return r.db.WithContext(ctx).Save(attendance).Error
}

// ListByUser returns a user's records, optionally bounded by a date range,
// newest first
func (r *AttendanceRepository) ListByUser(ctx context.Context, userID uint, from, to *time.Time) ([]models.Attendance, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("work_date >= ?", models.DateOnly(*from))
	}
	if to != nil {
		q = q.Where("work_date <= ?", models.DateOnly(*to))
	}

	var records []models.Attendance
	err := q.Order("work_date DESC").Find(&records).Error
	return records, err
}

// AttendanceFilter represents admin list filters
type AttendanceFilter struct {
	UserID *uint
	Status *string
	From   *time.Time
	To     *time.Time
	Search string
}

// List returns attendance records matching the filter, with user preloaded
// and pagination
func (r *AttendanceRepository) List(ctx context.Context, filter AttendanceFilter, offset, limit int) ([]models.Attendance, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Attendance{})

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		q = q.Where("work_date >= ?", models.DateOnly(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("work_date <= ?", models.DateOnly(*filter.To))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Joins("JOIN users ON users.id = attendances.user_id").
			Where("users.full_name LIKE ? OR users.employee_id LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Attendance
	err := q.Preload("User").
		Order("work_date DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	return records, total, err
}

// CountByStatusOnDate returns record counts grouped by status for one day
func (r *AttendanceRepository) CountByStatusOnDate(ctx context.Context, workDate time.Time) (map[string]int64, error) {
	type result struct {
		Status string
		Count  int64
	}
	var results []result

	err := r.db.WithContext(ctx).Model(&models.Attendance{}).
		Select("status, COUNT(*) as count").
		Where("work_date = ?", models.DateOnly(workDate)).
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	statusMap := map[string]int64{
		models.AttendancePresent: 0,
		models.AttendanceAbsent:  0,
		models.AttendanceLate:    0,
		models.AttendanceHalfDay: 0,
		models.AttendanceOnLeave: 0,
	}
	for _, res := range results {
		statusMap[res.Status] = res.Count
	}
	return statusMap, nil
}
