package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"officedesk/internal/ingest"
	"officedesk/pkg/domain"
)

var _ Store = (*GormStore)(nil)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&UploadModel{},
		&CatalogRecordModel{},
		&AttendanceModel{},
		&LeaveRequestModel{},
		&ExpenseModel{},
		&TaskModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveUser registers a user.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Create(&model).Error
}

// GetUserByUsername looks up a user by username.
func (s *GormStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// UserCount returns number of users.
func (s *GormStore) UserCount() (int, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ListUsers returns all users ordered by created_at.
func (s *GormStore) ListUsers() ([]domain.User, error) {
	var models []UserModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.User, 0, len(models))
	for _, m := range models {
		res = append(res, userFromModel(m))
	}
	return res, nil
}

// SetUserRole updates a user's role.
func (s *GormStore) SetUserRole(id string, role domain.UserRole) error {
	tx := s.db.Model(&UserModel{}).Where("id = ?", id).Update("role", string(role))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IngestUpload persists the upload row and its catalog records as one
// atomic batch. Any failure rolls back everything, including the upload
// itself, so a half-ingested document is never visible.
func (s *GormStore) IngestUpload(upload domain.Upload, items []ingest.Item) (domain.Upload, error) {
	upload.RecordCount = len(items)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		model := uploadToModel(upload)
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("create upload: %w", err)
		}
		for _, item := range items {
			record := CatalogRecordModel{
				Description: item.Description,
				Make:        item.Make,
				Brand:       item.Brand,
				CatNo:       item.CatNo,
				Rate:        item.Rate,
				UploadID:    upload.ID,
				CreatedAt:   upload.CreatedAt,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("create catalog record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Upload{}, err
	}
	return upload, nil
}

// SearchCatalog matches the query as a case-insensitive substring
// against any of the four text fields, capped and in storage order.
func (s *GormStore) SearchCatalog(query string, limit int) ([]domain.CatalogRecord, error) {
	pattern := "%" + escapeLike(query) + "%"
	var models []CatalogRecordModel
	err := s.db.
		Where("description ILIKE ? OR make ILIKE ? OR brand ILIKE ? OR cat_no ILIKE ?",
			pattern, pattern, pattern, pattern).
		Order("id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.CatalogRecord, 0, len(models))
	for _, m := range models {
		res = append(res, recordFromModel(m))
	}
	return res, nil
}

// ListUploadsByOwner returns a user's uploads, newest first.
func (s *GormStore) ListUploadsByOwner(userID string) ([]domain.Upload, error) {
	var models []UploadModel
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Upload, 0, len(models))
	for _, m := range models {
		res = append(res, uploadFromModel(m))
	}
	return res, nil
}

// GetUpload retrieves an upload.
func (s *GormStore) GetUpload(id string) (domain.Upload, bool, error) {
	var model UploadModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Upload{}, false, nil
		}
		return domain.Upload{}, false, err
	}
	return uploadFromModel(model), true, nil
}

// DeleteUpload removes the upload and its records in one transaction.
func (s *GormStore) DeleteUpload(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&CatalogRecordModel{}, "upload_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&UploadModel{}, "id = ?", id).Error
	})
}

// ListRecordsByUpload returns an upload's records in insertion order.
func (s *GormStore) ListRecordsByUpload(uploadID string) ([]domain.CatalogRecord, error) {
	var models []CatalogRecordModel
	if err := s.db.Where("upload_id = ?", uploadID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.CatalogRecord, 0, len(models))
	for _, m := range models {
		res = append(res, recordFromModel(m))
	}
	return res, nil
}

// GetAttendance returns the record for (user, day) when present.
func (s *GormStore) GetAttendance(userID string, day time.Time) (domain.Attendance, bool, error) {
	var model AttendanceModel
	err := s.db.Where("user_id = ? AND day = ?", userID, datatypes.Date(day)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Attendance{}, false, nil
		}
		return domain.Attendance{}, false, err
	}
	return attendanceFromModel(model), true, nil
}

// CreateCheckIn inserts the day's record with check-in fields set.
// The (user_id, day) unique index turns a concurrent double check-in
// into ErrAttendanceExists instead of a second row.
func (s *GormStore) CreateCheckIn(userID string, day time.Time, at time.Time, lat, lng float64) (domain.Attendance, error) {
	model := AttendanceModel{
		ID:     newEntityID(),
		UserID: userID,
		Day:    datatypes.Date(day),
		InTime: &at,
		InLat:  &lat,
		InLng:  &lng,
	}
	if err := s.db.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Attendance{}, ErrAttendanceExists
		}
		return domain.Attendance{}, err
	}
	return attendanceFromModel(model), nil
}

// SetCheckOut stamps check-out fields; the out_time IS NULL guard keeps
// the update from racing a concurrent check-out.
func (s *GormStore) SetCheckOut(id string, at time.Time, lat, lng float64) error {
	tx := s.db.Model(&AttendanceModel{}).
		Where("id = ? AND in_time IS NOT NULL AND out_time IS NULL", id).
		Updates(map[string]any{
			"out_time": at,
			"out_lat":  lat,
			"out_lng":  lng,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOpenAttendance returns records for the day that are checked in
// but not yet out.
func (s *GormStore) ListOpenAttendance(day time.Time) ([]domain.Attendance, error) {
	var models []AttendanceModel
	err := s.db.
		Where("day = ? AND in_time IS NOT NULL AND out_time IS NULL", datatypes.Date(day)).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Attendance, 0, len(models))
	for _, m := range models {
		res = append(res, attendanceFromModel(m))
	}
	return res, nil
}

// SaveLeave records a leave request.
func (s *GormStore) SaveLeave(l domain.LeaveRequest) error {
	model := leaveToModel(l)
	return s.db.Create(&model).Error
}

// ListLeavesByUser returns a user's leave requests, newest first.
func (s *GormStore) ListLeavesByUser(userID string) ([]domain.LeaveRequest, error) {
	return s.listLeaves("user_id = ?", userID)
}

// ListLeaves returns all leave requests, newest first.
func (s *GormStore) ListLeaves() ([]domain.LeaveRequest, error) {
	return s.listLeaves()
}

func (s *GormStore) listLeaves(conds ...any) ([]domain.LeaveRequest, error) {
	var models []LeaveRequestModel
	tx := s.db.Order("created_at DESC")
	if len(conds) > 0 {
		tx = tx.Where(conds[0], conds[1:]...)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.LeaveRequest, 0, len(models))
	for _, m := range models {
		res = append(res, leaveFromModel(m))
	}
	return res, nil
}

// GetLeave retrieves a leave request.
func (s *GormStore) GetLeave(id string) (domain.LeaveRequest, bool, error) {
	var model LeaveRequestModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LeaveRequest{}, false, nil
		}
		return domain.LeaveRequest{}, false, err
	}
	return leaveFromModel(model), true, nil
}

// SetLeaveStatus updates moderation status.
func (s *GormStore) SetLeaveStatus(id string, status domain.LeaveStatus) error {
	tx := s.db.Model(&LeaveRequestModel{}).Where("id = ?", id).Update("status", string(status))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveExpense records an expense.
func (s *GormStore) SaveExpense(e domain.Expense) error {
	model := expenseToModel(e)
	return s.db.Create(&model).Error
}

// ListExpensesByUser returns a user's expenses, newest first.
func (s *GormStore) ListExpensesByUser(userID string) ([]domain.Expense, error) {
	return s.listExpenses("user_id = ?", userID)
}

// ListExpenses returns all expenses, newest first.
func (s *GormStore) ListExpenses() ([]domain.Expense, error) {
	return s.listExpenses()
}

func (s *GormStore) listExpenses(conds ...any) ([]domain.Expense, error) {
	var models []ExpenseModel
	tx := s.db.Order("created_at DESC")
	if len(conds) > 0 {
		tx = tx.Where(conds[0], conds[1:]...)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Expense, 0, len(models))
	for _, m := range models {
		res = append(res, expenseFromModel(m))
	}
	return res, nil
}

// SaveTask records a task.
func (s *GormStore) SaveTask(t domain.Task) error {
	model := taskToModel(t)
	return s.db.Create(&model).Error
}

// ListTasksByAssignee returns tasks assigned to a user, newest first.
func (s *GormStore) ListTasksByAssignee(userID string) ([]domain.Task, error) {
	return s.listTasks("assigned_to = ?", userID)
}

// ListAssignedTasks returns all admin-assigned (non-personal) tasks.
func (s *GormStore) ListAssignedTasks() ([]domain.Task, error) {
	return s.listTasks("is_personal = ?", false)
}

func (s *GormStore) listTasks(conds ...any) ([]domain.Task, error) {
	var models []TaskModel
	tx := s.db.Order("created_at DESC")
	if len(conds) > 0 {
		tx = tx.Where(conds[0], conds[1:]...)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Task, 0, len(models))
	for _, m := range models {
		res = append(res, taskFromModel(m))
	}
	return res, nil
}

// GetTask retrieves a task.
func (s *GormStore) GetTask(id string) (domain.Task, bool, error) {
	var model TaskModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Task{}, false, nil
		}
		return domain.Task{}, false, err
	}
	return taskFromModel(model), true, nil
}

// SetTaskStatus updates workflow status.
func (s *GormStore) SetTaskStatus(id string, status domain.TaskStatus) error {
	tx := s.db.Model(&TaskModel{}).Where("id = ?", id).Update("status", string(status))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// escapeLike quotes LIKE wildcards so the query matches literally.
func escapeLike(q string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(q)
}
