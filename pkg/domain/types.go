package domain

import "time"

// FileKind classifies an uploaded document by its declared extension.
type FileKind string

const (
	KindCSV         FileKind = "csv"
	KindXLSX        FileKind = "xlsx"
	KindPDF         FileKind = "pdf"
	KindUnsupported FileKind = "unsupported"
)

type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleAdmin    UserRole = "admin"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Upload records one submitted document and its detected kind.
// Immutable after creation; removing it cascades to its catalog records.
type Upload struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Filename    string    `json:"filename"`
	Kind        FileKind  `json:"kind"`
	RecordCount int       `json:"recordCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CatalogRecord is one normalized, searchable line item distilled from
// an upload. Description is required; the remaining fields are best-effort.
type CatalogRecord struct {
	ID          uint      `json:"id"`
	Description string    `json:"item_description"`
	Make        string    `json:"make,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	CatNo       string    `json:"cat_no,omitempty"`
	Rate        *float64  `json:"rate"`
	UploadID    string    `json:"uploadId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Attendance holds the punch state for one user on one calendar day.
// Check-in fields are set together; check-out fields are set together
// and only after check-in.
type Attendance struct {
	ID      string     `json:"id"`
	UserID  string     `json:"userId"`
	Day     time.Time  `json:"day"`
	InTime  *time.Time `json:"inTime,omitempty"`
	InLat   *float64   `json:"inLat,omitempty"`
	InLng   *float64   `json:"inLng,omitempty"`
	OutTime *time.Time `json:"outTime,omitempty"`
	OutLat  *float64   `json:"outLat,omitempty"`
	OutLng  *float64   `json:"outLng,omitempty"`
}

type LeaveRequest struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	LeaveType string      `json:"leaveType"`
	Reason    string      `json:"reason"`
	StartDate time.Time   `json:"startDate"`
	EndDate   time.Time   `json:"endDate"`
	Status    LeaveStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	ExpenseDate time.Time `json:"expenseDate"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Details    string     `json:"details,omitempty"`
	Priority   string     `json:"priority"`
	Status     TaskStatus `json:"status"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
	IsPersonal bool       `json:"isPersonal"`
	CreatedBy  string     `json:"createdBy"`
	AssignedTo string     `json:"assignedTo,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
