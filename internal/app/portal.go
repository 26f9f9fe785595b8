package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"officedesk/internal/util"
	"officedesk/pkg/domain"
)

// SubmitLeave files a leave request for the caller.
func (a *App) SubmitLeave(user domain.User, leaveType, reason string, start, end time.Time) (domain.LeaveRequest, error) {
	if end.Before(start) {
		return domain.LeaveRequest{}, errors.New("end date before start date")
	}
	leave := domain.LeaveRequest{
		ID:        util.NewID(),
		UserID:    user.ID,
		LeaveType: strings.TrimSpace(leaveType),
		Reason:    strings.TrimSpace(reason),
		StartDate: start,
		EndDate:   end,
		Status:    domain.LeavePending,
		CreatedAt: a.now(),
	}
	if err := a.store.SaveLeave(leave); err != nil {
		return domain.LeaveRequest{}, fmt.Errorf("save leave: %w", err)
	}
	return leave, nil
}

// ListLeaves returns leave requests: all of them for admins, own only
// for employees.
func (a *App) ListLeaves(user domain.User) ([]domain.LeaveRequest, error) {
	if user.Role == domain.RoleAdmin {
		return a.store.ListLeaves()
	}
	return a.store.ListLeavesByUser(user.ID)
}

// ModerateLeave approves or rejects a pending request.
func (a *App) ModerateLeave(id string, approve bool) (domain.LeaveRequest, error) {
	leave, ok, err := a.store.GetLeave(id)
	if err != nil {
		return domain.LeaveRequest{}, err
	}
	if !ok {
		return domain.LeaveRequest{}, ErrNotFound
	}
	status := domain.LeaveRejected
	if approve {
		status = domain.LeaveApproved
	}
	if err := a.store.SetLeaveStatus(id, status); err != nil {
		return domain.LeaveRequest{}, fmt.Errorf("set leave status: %w", err)
	}
	leave.Status = status
	return leave, nil
}

// SubmitExpense files an expense for the caller.
func (a *App) SubmitExpense(user domain.User, category string, amount float64, date time.Time, note string) (domain.Expense, error) {
	if amount <= 0 {
		return domain.Expense{}, errors.New("amount must be positive")
	}
	expense := domain.Expense{
		ID:          util.NewID(),
		UserID:      user.ID,
		Category:    strings.TrimSpace(category),
		Amount:      amount,
		ExpenseDate: date,
		Note:        strings.TrimSpace(note),
		CreatedAt:   a.now(),
	}
	if err := a.store.SaveExpense(expense); err != nil {
		return domain.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	return expense, nil
}

// ListExpenses returns expenses: all for admins, own only otherwise.
func (a *App) ListExpenses(user domain.User) ([]domain.Expense, error) {
	if user.Role == domain.RoleAdmin {
		return a.store.ListExpenses()
	}
	return a.store.ListExpensesByUser(user.ID)
}

// AssignTask creates an admin-assigned task.
func (a *App) AssignTask(creator domain.User, title, details, priority, assignedTo string, dueAt *time.Time) (domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Task{}, errors.New("title is required")
	}
	if priority == "" {
		priority = "normal"
	}
	task := domain.Task{
		ID:         util.NewID(),
		Title:      title,
		Details:    strings.TrimSpace(details),
		Priority:   priority,
		Status:     domain.TaskTodo,
		DueAt:      dueAt,
		IsPersonal: false,
		CreatedBy:  creator.ID,
		AssignedTo: assignedTo,
		CreatedAt:  a.now(),
	}
	if err := a.store.SaveTask(task); err != nil {
		return domain.Task{}, fmt.Errorf("save task: %w", err)
	}
	return task, nil
}

// MyTasks returns tasks assigned to the caller.
func (a *App) MyTasks(user domain.User) ([]domain.Task, error) {
	return a.store.ListTasksByAssignee(user.ID)
}

// AssignedTasks returns all admin-assigned tasks.
func (a *App) AssignedTasks() ([]domain.Task, error) {
	return a.store.ListAssignedTasks()
}

// UpdateTaskStatus moves a task through its workflow. Only the assignee
// or an admin may update.
func (a *App) UpdateTaskStatus(user domain.User, id string, status domain.TaskStatus) error {
	task, ok, err := a.store.GetTask(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if task.AssignedTo != user.ID && user.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	return a.store.SetTaskStatus(id, status)
}

// DashboardCounts summarizes portal activity for the admin dashboard.
type DashboardCounts struct {
	Users         int `json:"users"`
	PendingLeaves int `json:"pendingLeaves"`
	Expenses      int `json:"expenses"`
	ActiveToday   int `json:"activeToday"`
}

// Dashboard aggregates the admin landing counters.
func (a *App) Dashboard() (DashboardCounts, error) {
	users, err := a.store.UserCount()
	if err != nil {
		return DashboardCounts{}, err
	}
	leaves, err := a.store.ListLeaves()
	if err != nil {
		return DashboardCounts{}, err
	}
	pending := 0
	for _, l := range leaves {
		if l.Status == domain.LeavePending {
			pending++
		}
	}
	expenses, err := a.store.ListExpenses()
	if err != nil {
		return DashboardCounts{}, err
	}
	open, err := a.store.ListOpenAttendance(calendarDay(a.now()))
	if err != nil {
		return DashboardCounts{}, err
	}
	return DashboardCounts{
		Users:         users,
		PendingLeaves: pending,
		Expenses:      len(expenses),
		ActiveToday:   len(open),
	}, nil
}
