package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"officedesk/pkg/domain"
)

// newEntityID issues primary keys for rows created inside the store.
func newEntityID() string {
	return uuid.NewString()
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

func uploadToModel(u domain.Upload) UploadModel {
	return UploadModel{
		ID:          u.ID,
		UserID:      u.UserID,
		Filename:    u.Filename,
		Kind:        string(u.Kind),
		RecordCount: u.RecordCount,
		CreatedAt:   u.CreatedAt,
	}
}

func uploadFromModel(m UploadModel) domain.Upload {
	return domain.Upload{
		ID:          m.ID,
		UserID:      m.UserID,
		Filename:    m.Filename,
		Kind:        domain.FileKind(m.Kind),
		RecordCount: m.RecordCount,
		CreatedAt:   m.CreatedAt,
	}
}

func recordFromModel(m CatalogRecordModel) domain.CatalogRecord {
	return domain.CatalogRecord{
		ID:          m.ID,
		Description: m.Description,
		Make:        m.Make,
		Brand:       m.Brand,
		CatNo:       m.CatNo,
		Rate:        m.Rate,
		UploadID:    m.UploadID,
		CreatedAt:   m.CreatedAt,
	}
}

func attendanceFromModel(m AttendanceModel) domain.Attendance {
	return domain.Attendance{
		ID:      m.ID,
		UserID:  m.UserID,
		Day:     time.Time(m.Day),
		InTime:  m.InTime,
		InLat:   m.InLat,
		InLng:   m.InLng,
		OutTime: m.OutTime,
		OutLat:  m.OutLat,
		OutLng:  m.OutLng,
	}
}

func leaveToModel(l domain.LeaveRequest) LeaveRequestModel {
	return LeaveRequestModel{
		ID:        l.ID,
		UserID:    l.UserID,
		LeaveType: l.LeaveType,
		Reason:    l.Reason,
		StartDate: datatypes.Date(l.StartDate),
		EndDate:   datatypes.Date(l.EndDate),
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
	}
}

func leaveFromModel(m LeaveRequestModel) domain.LeaveRequest {
	return domain.LeaveRequest{
		ID:        m.ID,
		UserID:    m.UserID,
		LeaveType: m.LeaveType,
		Reason:    m.Reason,
		StartDate: time.Time(m.StartDate),
		EndDate:   time.Time(m.EndDate),
		Status:    domain.LeaveStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func expenseToModel(e domain.Expense) ExpenseModel {
	return ExpenseModel{
		ID:          e.ID,
		UserID:      e.UserID,
		Category:    e.Category,
		Amount:      e.Amount,
		ExpenseDate: datatypes.Date(e.ExpenseDate),
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}
}

func expenseFromModel(m ExpenseModel) domain.Expense {
	return domain.Expense{
		ID:          m.ID,
		UserID:      m.UserID,
		Category:    m.Category,
		Amount:      m.Amount,
		ExpenseDate: time.Time(m.ExpenseDate),
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

func taskToModel(t domain.Task) TaskModel {
	return TaskModel{
		ID:         t.ID,
		Title:      t.Title,
		Details:    t.Details,
		Priority:   t.Priority,
		Status:     string(t.Status),
		DueAt:      t.DueAt,
		IsPersonal: t.IsPersonal,
		CreatedBy:  t.CreatedBy,
		AssignedTo: t.AssignedTo,
		CreatedAt:  t.CreatedAt,
	}
}

func taskFromModel(m TaskModel) domain.Task {
	return domain.Task{
		ID:         m.ID,
		Title:      m.Title,
		Details:    m.Details,
		Priority:   m.Priority,
		Status:     domain.TaskStatus(m.Status),
		DueAt:      m.DueAt,
		IsPersonal: m.IsPersonal,
		CreatedBy:  m.CreatedBy,
		AssignedTo: m.AssignedTo,
		CreatedAt:  m.CreatedAt,
	}
}
