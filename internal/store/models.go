package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type UploadModel struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"not null;index"`
	Filename    string `gorm:"not null"`
	Kind        string `gorm:"not null"`
	RecordCount int    `gorm:"not null"`
	CreatedAt   time.Time

	Records []CatalogRecordModel `gorm:"foreignKey:UploadID;constraint:OnDelete:CASCADE"`
}

type CatalogRecordModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Description string `gorm:"size:512;not null"`
	Make        string `gorm:"size:100"`
	Brand       string `gorm:"size:100"`
	CatNo       string `gorm:"size:100"`
	Rate        *float64
	UploadID    string `gorm:"not null;index"`
	CreatedAt   time.Time
}

// AttendanceModel holds one row per user per calendar day; the composite
// unique index is what keeps concurrent check-ins from double-creating.
type AttendanceModel struct {
	ID      string         `gorm:"primaryKey"`
	UserID  string         `gorm:"not null;uniqueIndex:idx_attendance_user_day"`
	Day     datatypes.Date `gorm:"not null;uniqueIndex:idx_attendance_user_day"`
	InTime  *time.Time
	InLat   *float64
	InLng   *float64
	OutTime *time.Time
	OutLat  *float64
	OutLng  *float64
}

type LeaveRequestModel struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	LeaveType string `gorm:"size:50"`
	Reason    string `gorm:"size:255"`
	StartDate datatypes.Date
	EndDate   datatypes.Date
	Status    string    `gorm:"size:20;not null"`
	CreatedAt time.Time `gorm:"index"`
}

type ExpenseModel struct {
	ID          string  `gorm:"primaryKey"`
	UserID      string  `gorm:"not null;index"`
	Category    string  `gorm:"size:50"`
	Amount      float64 `gorm:"not null"`
	ExpenseDate datatypes.Date
	Note        string `gorm:"size:255"`
	CreatedAt   time.Time
}

type TaskModel struct {
	ID         string `gorm:"primaryKey"`
	Title      string `gorm:"size:120;not null"`
	Details    string `gorm:"size:1000"`
	Priority   string `gorm:"size:20;not null"`
	Status     string `gorm:"size:20;not null"`
	DueAt      *time.Time
	IsPersonal bool
	CreatedBy  string `gorm:"index"`
	AssignedTo string `gorm:"index"`
	CreatedAt  time.Time
}
