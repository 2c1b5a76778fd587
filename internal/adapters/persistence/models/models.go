package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// Roles
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// User represents users table
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	EmployeeID string         `gorm:"uniqueIndex;size:20;not null" json:"employee_id"`
	Username   string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password   string         `gorm:"size:255;not null" json:"-"`
	FullName   string         `gorm:"size:100" json:"full_name"`
	Department string         `gorm:"size:100" json:"department"`
	Position   string         `gorm:"size:100" json:"position"`
	Role       string         `gorm:"size:20;default:'employee'" json:"role"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse DTO
type UserResponse struct {
	ID         uint      `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		EmployeeID: u.EmployeeID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Department: u.Department,
		Position:   u.Position,
		Role:       u.Role,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Attendance
// ============================================================

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceHalfDay = "half-day"
	AttendanceOnLeave = "on-leave"
)

// Attendance is one record per (user, work day).
// The compound unique index is the same-day guard: a concurrent double
// check-in loses at the store instead of producing a second row.
type Attendance struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_attendance_user_day" json:"user_id"`
	WorkDate   time.Time  `gorm:"type:date;not null;uniqueIndex:idx_attendance_user_day" json:"work_date"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Status     string     `gorm:"size:20;not null;default:'absent'" json:"status"`
	TotalHours float64    `gorm:"type:decimal(5,2);default:0" json:"total_hours"`
	Note       string     `gorm:"type:text" json:"note"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// IsOpen reports whether the record has a check-in without a check-out
func (a *Attendance) IsOpen() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}

// ============================================================
// Leave
// ============================================================

// Leave / request statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Leave types
const (
	LeaveAnnual = "annual"
	LeaveSick   = "sick"
	LeaveCasual = "casual"
	LeaveUnpaid = "unpaid"
)

// Leave represents a date-range leave request
type Leave struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	LeaveType    string         `gorm:"size:20;not null" json:"leave_type"`
	StartDate    time.Time      `gorm:"type:date;not null;index" json:"start_date"`
	EndDate      time.Time      `gorm:"type:date;not null;index" json:"end_date"`
	Reason       string         `gorm:"type:text;not null" json:"reason"`
	Status       string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ApprovedBy   *uint          `json:"approved_by"`
	DecidedAt    *time.Time     `json:"decided_at"`
	AdminComment string         `gorm:"type:text" json:"admin_comment"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User     *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Approver *User `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
}

func (Leave) TableName() string {
	return "leaves"
}

// IsPending reports whether the request is still undecided
func (l *Leave) IsPending() bool {
	return l.Status == StatusPending
}

// Overlaps reports whether [start,end] intersects the leave's range
func (l *Leave) Overlaps(start, end time.Time) bool {
	return !l.StartDate.After(end) && !l.EndDate.Before(start)
}

// ============================================================
// Attendance Correction Requests
// ============================================================

// Correction request types
const (
	RequestRegularization = "regularization"
	RequestLeave          = "leave"
	RequestHalfDay        = "half-day"
	RequestWorkFromHome   = "work-from-home"
)

// AttendanceRequest is an after-the-fact correction tied to one date
type AttendanceRequest struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	Date         time.Time  `gorm:"type:date;not null" json:"date"`
	Type         string     `gorm:"size:20;not null" json:"type"`
	CheckIn      *time.Time `json:"check_in"`
	CheckOut     *time.Time `json:"check_out"`
	Reason       string     `gorm:"type:text;not null" json:"reason"`
	Status       string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ProcessedBy  *uint      `json:"processed_by"`
	ProcessedAt  *time.Time `json:"processed_at"`
	AdminComment string     `gorm:"type:text" json:"admin_comment"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User      *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Processor *User `gorm:"foreignKey:ProcessedBy" json:"processor,omitempty"`
}

func (AttendanceRequest) TableName() string {
	return "attendance_requests"
}

// CanProcess returns true only while the request is undecided; once it has
// been approved or rejected it can never be processed again.
func (r *AttendanceRequest) CanProcess() bool {
	return r.Status == StatusPending
}

// ============================================================
// Helpers
// ============================================================

// DateOnly truncates a timestamp to midnight in its location, the canonical
// form stored in every date column.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RoundHours rounds a duration in hours to 2 decimals
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// HoursBetween returns the elapsed hours between two timestamps rounded to
// 2 decimals (checkOut-checkIn in ms, divided by 3,600,000).
func HoursBetween(in, out time.Time) float64 {
	return RoundHours(out.Sub(in).Hours())
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Attendance{},
		&Leave{},
		&AttendanceRequest{},
	)
}
