package store

import (
	"errors"
	"time"

	"officedesk/internal/ingest"
	"officedesk/pkg/domain"
)

var (
	// ErrAttendanceExists indicates a check-in already exists for the day.
	ErrAttendanceExists = errors.New("attendance record already exists")
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// Store defines persistence operations for the portal.
type Store interface {
	// users
	SaveUser(domain.User) error
	GetUserByUsername(username string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	UserCount() (int, error)
	ListUsers() ([]domain.User, error)
	SetUserRole(id string, role domain.UserRole) error

	// catalog ingestion + search
	IngestUpload(upload domain.Upload, items []ingest.Item) (domain.Upload, error)
	SearchCatalog(query string, limit int) ([]domain.CatalogRecord, error)
	ListUploadsByOwner(userID string) ([]domain.Upload, error)
	GetUpload(id string) (domain.Upload, bool, error)
	DeleteUpload(id string) error
	ListRecordsByUpload(uploadID string) ([]domain.CatalogRecord, error)

	// attendance
	GetAttendance(userID string, day time.Time) (domain.Attendance, bool, error)
	CreateCheckIn(userID string, day time.Time, at time.Time, lat, lng float64) (domain.Attendance, error)
	SetCheckOut(id string, at time.Time, lat, lng float64) error
	ListOpenAttendance(day time.Time) ([]domain.Attendance, error)

	// leaves
	SaveLeave(domain.LeaveRequest) error
	ListLeavesByUser(userID string) ([]domain.LeaveRequest, error)
	ListLeaves() ([]domain.LeaveRequest, error)
	GetLeave(id string) (domain.LeaveRequest, bool, error)
	SetLeaveStatus(id string, status domain.LeaveStatus) error

	// expenses
	SaveExpense(domain.Expense) error
	ListExpensesByUser(userID string) ([]domain.Expense, error)
	ListExpenses() ([]domain.Expense, error)

	// tasks
	SaveTask(domain.Task) error
	ListTasksByAssignee(userID string) ([]domain.Task, error)
	ListAssignedTasks() ([]domain.Task, error)
	GetTask(id string) (domain.Task, bool, error)
	SetTaskStatus(id string, status domain.TaskStatus) error
}
