package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"officedesk/internal/ingest"
	"officedesk/pkg/domain"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps portal state in-process. It mirrors GormStore
// semantics (insertion-order search, atomic ingest, unique attendance
// day) so app and handler tests can run without Postgres.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	usernames   map[string]string // username -> user ID
	userOrder   []string
	uploads     map[string]domain.Upload
	records     []domain.CatalogRecord
	nextRecord  uint
	attendance  map[string]domain.Attendance // key: userID + "|" + day
	attendIDs   map[string]string            // attendance ID -> key
	leaves      map[string]domain.LeaveRequest
	expenses    map[string]domain.Expense
	tasks       map[string]domain.Task
	leaveOrder  []string
	expOrder    []string
	taskOrder   []string
	uploadOrder []string

	// FailIngest forces IngestUpload to fail after records were staged,
	// to exercise the all-or-nothing contract in tests.
	FailIngest error
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]domain.User),
		usernames:  make(map[string]string),
		uploads:    make(map[string]domain.Upload),
		attendance: make(map[string]domain.Attendance),
		attendIDs:  make(map[string]string),
		leaves:     make(map[string]domain.LeaveRequest),
		expenses:   make(map[string]domain.Expense),
		tasks:      make(map[string]domain.Task),
		nextRecord: 1,
	}
}

func attendanceKey(userID string, day time.Time) string {
	return userID + "|" + day.Format("2006-01-02")
}

// SaveUser stores a user.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.ID]; !exists {
		m.userOrder = append(m.userOrder, u.ID)
	}
	m.users[u.ID] = u
	m.usernames[u.Username] = u.ID
	return nil
}

// GetUserByUsername looks up a user by username.
func (m *MemoryStore) GetUserByUsername(username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.usernames[username]
	if !ok {
		return domain.User{}, false, nil
	}
	return m.users[id], true, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// UserCount returns number of users.
func (m *MemoryStore) UserCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// ListUsers returns users in insertion order.
func (m *MemoryStore) ListUsers() ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		res = append(res, m.users[id])
	}
	return res, nil
}

// SetUserRole updates a user's role.
func (m *MemoryStore) SetUserRole(id string, role domain.UserRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	m.users[id] = u
	return nil
}

// IngestUpload stages the upload and its records, committing both only
// when nothing failed.
func (m *MemoryStore) IngestUpload(upload domain.Upload, items []ingest.Item) (domain.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIngest != nil {
		return domain.Upload{}, m.FailIngest
	}
	upload.RecordCount = len(items)
	staged := make([]domain.CatalogRecord, 0, len(items))
	next := m.nextRecord
	for _, item := range items {
		staged = append(staged, domain.CatalogRecord{
			ID:          next,
			Description: item.Description,
			Make:        item.Make,
			Brand:       item.Brand,
			CatNo:       item.CatNo,
			Rate:        item.Rate,
			UploadID:    upload.ID,
			CreatedAt:   upload.CreatedAt,
		})
		next++
	}
	m.uploads[upload.ID] = upload
	m.uploadOrder = append(m.uploadOrder, upload.ID)
	m.records = append(m.records, staged...)
	m.nextRecord = next
	return upload, nil
}

// SearchCatalog performs case-insensitive substring matching over the
// four text fields, in insertion order, capped at limit.
func (m *MemoryStore) SearchCatalog(query string, limit int) ([]domain.CatalogRecord, error) {
	needle := strings.ToLower(query)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.CatalogRecord
	for _, r := range m.records {
		if len(res) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(r.Description), needle) ||
			strings.Contains(strings.ToLower(r.Make), needle) ||
			strings.Contains(strings.ToLower(r.Brand), needle) ||
			strings.Contains(strings.ToLower(r.CatNo), needle) {
			res = append(res, r)
		}
	}
	return res, nil
}

// ListUploadsByOwner returns a user's uploads, newest first.
func (m *MemoryStore) ListUploadsByOwner(userID string) ([]domain.Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Upload
	for _, id := range m.uploadOrder {
		if u, ok := m.uploads[id]; ok && u.UserID == userID {
			res = append(res, u)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

// GetUpload retrieves an upload.
func (m *MemoryStore) GetUpload(id string) (domain.Upload, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.uploads[id]
	return u, ok, nil
}

// DeleteUpload removes the upload and all records referencing it.
func (m *MemoryStore) DeleteUpload(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.uploads, id)
	kept := m.records[:0]
	for _, r := range m.records {
		if r.UploadID != id {
			kept = append(kept, r)
		}
	}
	m.records = kept
	for i, uid := range m.uploadOrder {
		if uid == id {
			m.uploadOrder = append(m.uploadOrder[:i], m.uploadOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ListRecordsByUpload returns an upload's records in insertion order.
func (m *MemoryStore) ListRecordsByUpload(uploadID string) ([]domain.CatalogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.CatalogRecord
	for _, r := range m.records {
		if r.UploadID == uploadID {
			res = append(res, r)
		}
	}
	return res, nil
}

// GetAttendance returns the record for (user, day) when present.
func (m *MemoryStore) GetAttendance(userID string, day time.Time) (domain.Attendance, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.attendance[attendanceKey(userID, day)]
	return rec, ok, nil
}

// CreateCheckIn inserts the day's record, enforcing (user, day) uniqueness.
func (m *MemoryStore) CreateCheckIn(userID string, day time.Time, at time.Time, lat, lng float64) (domain.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := attendanceKey(userID, day)
	if _, exists := m.attendance[key]; exists {
		return domain.Attendance{}, ErrAttendanceExists
	}
	rec := domain.Attendance{
		ID:     newEntityID(),
		UserID: userID,
		Day:    day,
		InTime: &at,
		InLat:  &lat,
		InLng:  &lng,
	}
	m.attendance[key] = rec
	m.attendIDs[rec.ID] = key
	return rec, nil
}

// SetCheckOut stamps check-out fields on an open record.
func (m *MemoryStore) SetCheckOut(id string, at time.Time, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.attendIDs[id]
	if !ok {
		return ErrNotFound
	}
	rec := m.attendance[key]
	if rec.InTime == nil || rec.OutTime != nil {
		return ErrNotFound
	}
	rec.OutTime = &at
	rec.OutLat = &lat
	rec.OutLng = &lng
	m.attendance[key] = rec
	return nil
}

// ListOpenAttendance returns checked-in-but-not-out records for the day.
func (m *MemoryStore) ListOpenAttendance(day time.Time) ([]domain.Attendance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	suffix := "|" + day.Format("2006-01-02")
	var res []domain.Attendance
	for key, rec := range m.attendance {
		if strings.HasSuffix(key, suffix) && rec.InTime != nil && rec.OutTime == nil {
			res = append(res, rec)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].UserID < res[j].UserID })
	return res, nil
}

// SaveLeave records a leave request.
func (m *MemoryStore) SaveLeave(l domain.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.leaves[l.ID]; !exists {
		m.leaveOrder = append(m.leaveOrder, l.ID)
	}
	m.leaves[l.ID] = l
	return nil
}

// ListLeavesByUser returns a user's leave requests, newest first.
func (m *MemoryStore) ListLeavesByUser(userID string) ([]domain.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.LeaveRequest
	for i := len(m.leaveOrder) - 1; i >= 0; i-- {
		if l := m.leaves[m.leaveOrder[i]]; l.UserID == userID {
			res = append(res, l)
		}
	}
	return res, nil
}

// ListLeaves returns all leave requests, newest first.
func (m *MemoryStore) ListLeaves() ([]domain.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.LeaveRequest, 0, len(m.leaveOrder))
	for i := len(m.leaveOrder) - 1; i >= 0; i-- {
		res = append(res, m.leaves[m.leaveOrder[i]])
	}
	return res, nil
}

// GetLeave retrieves a leave request.
func (m *MemoryStore) GetLeave(id string) (domain.LeaveRequest, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.leaves[id]
	return l, ok, nil
}

// SetLeaveStatus updates moderation status.
func (m *MemoryStore) SetLeaveStatus(id string, status domain.LeaveStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leaves[id]
	if !ok {
		return ErrNotFound
	}
	l.Status = status
	m.leaves[id] = l
	return nil
}

// SaveExpense records an expense.
func (m *MemoryStore) SaveExpense(e domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.expenses[e.ID]; !exists {
		m.expOrder = append(m.expOrder, e.ID)
	}
	m.expenses[e.ID] = e
	return nil
}

// ListExpensesByUser returns a user's expenses, newest first.
func (m *MemoryStore) ListExpensesByUser(userID string) ([]domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Expense
	for i := len(m.expOrder) - 1; i >= 0; i-- {
		if e := m.expenses[m.expOrder[i]]; e.UserID == userID {
			res = append(res, e)
		}
	}
	return res, nil
}

// ListExpenses returns all expenses, newest first.
func (m *MemoryStore) ListExpenses() ([]domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Expense, 0, len(m.expOrder))
	for i := len(m.expOrder) - 1; i >= 0; i-- {
		res = append(res, m.expenses[m.expOrder[i]])
	}
	return res, nil
}

// SaveTask records a task.
func (m *MemoryStore) SaveTask(t domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[t.ID]; !exists {
		m.taskOrder = append(m.taskOrder, t.ID)
	}
	m.tasks[t.ID] = t
	return nil
}

// ListTasksByAssignee returns tasks assigned to a user, newest first.
func (m *MemoryStore) ListTasksByAssignee(userID string) ([]domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Task
	for i := len(m.taskOrder) - 1; i >= 0; i-- {
		if t := m.tasks[m.taskOrder[i]]; t.AssignedTo == userID {
			res = append(res, t)
		}
	}
	return res, nil
}

// ListAssignedTasks returns all admin-assigned (non-personal) tasks.
func (m *MemoryStore) ListAssignedTasks() ([]domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []domain.Task
	for i := len(m.taskOrder) - 1; i >= 0; i-- {
		if t := m.tasks[m.taskOrder[i]]; !t.IsPersonal {
			res = append(res, t)
		}
	}
	return res, nil
}

// GetTask retrieves a task.
func (m *MemoryStore) GetTask(id string) (domain.Task, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	return t, ok, nil
}

// SetTaskStatus updates workflow status.
func (m *MemoryStore) SetTaskStatus(id string, status domain.TaskStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	m.tasks[id] = t
	return nil
}
