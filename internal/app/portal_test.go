package app

import (
	"errors"
	"testing"
	"time"

	"officedesk/pkg/domain"
)

func TestLeaveWorkflow(t *testing.T) {
	a, _ := newTestApp(t)
	employee := domain.User{ID: "u1", Role: domain.RoleEmployee}
	start := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	if _, err := a.SubmitLeave(employee, "sick", "flu", end, start); err == nil {
		t.Fatal("end-before-start accepted")
	}

	leave, err := a.SubmitLeave(employee, "sick", "flu", start, end)
	if err != nil {
		t.Fatalf("SubmitLeave: %v", err)
	}
	if leave.Status != domain.LeavePending {
		t.Fatalf("new leave status = %q, want pending", leave.Status)
	}

	moderated, err := a.ModerateLeave(leave.ID, true)
	if err != nil {
		t.Fatalf("ModerateLeave: %v", err)
	}
	if moderated.Status != domain.LeaveApproved {
		t.Fatalf("moderated status = %q, want approved", moderated.Status)
	}
	if _, err := a.ModerateLeave("missing", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// Employees see only their own requests; admins see all.
	other := domain.User{ID: "u2", Role: domain.RoleEmployee}
	if _, err := a.SubmitLeave(other, "casual", "", start, end); err != nil {
		t.Fatalf("SubmitLeave: %v", err)
	}
	mine, err := a.ListLeaves(employee)
	if err != nil {
		t.Fatalf("ListLeaves: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != employee.ID {
		t.Fatalf("unexpected employee view: %+v", mine)
	}
	all, err := a.ListLeaves(domain.User{ID: "adm", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("ListLeaves admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d leaves, want 2", len(all))
	}
}

func TestExpenseWorkflow(t *testing.T) {
	a, _ := newTestApp(t)
	employee := domain.User{ID: "u1", Role: domain.RoleEmployee}
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	if _, err := a.SubmitExpense(employee, "travel", 0, date, ""); err == nil {
		t.Fatal("zero amount accepted")
	}
	exp, err := a.SubmitExpense(employee, " travel ", 125.40, date, " taxi ")
	if err != nil {
		t.Fatalf("SubmitExpense: %v", err)
	}
	if exp.Category != "travel" || exp.Note != "taxi" {
		t.Fatalf("fields not trimmed: %+v", exp)
	}
	list, err := a.ListExpenses(employee)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(list) != 1 || list[0].Amount != 125.40 {
		t.Fatalf("unexpected expenses: %+v", list)
	}
}

func TestTaskWorkflow(t *testing.T) {
	a, _ := newTestApp(t)
	admin := domain.User{ID: "adm", Role: domain.RoleAdmin}
	assignee := domain.User{ID: "u1", Role: domain.RoleEmployee}
	bystander := domain.User{ID: "u2", Role: domain.RoleEmployee}

	if _, err := a.AssignTask(admin, "  ", "", "", assignee.ID, nil); err == nil {
		t.Fatal("blank title accepted")
	}
	task, err := a.AssignTask(admin, "File the report", "Q1 numbers", "", assignee.ID, nil)
	if err != nil {
		t.Fatalf("AssignTask: %v", err)
	}
	if task.Status != domain.TaskTodo || task.Priority != "normal" {
		t.Fatalf("unexpected new task: %+v", task)
	}

	if err := a.UpdateTaskStatus(bystander, task.ID, domain.TaskDone); !errors.Is(err, ErrForbidden) {
		t.Fatalf("bystander update: got %v, want ErrForbidden", err)
	}
	if err := a.UpdateTaskStatus(assignee, task.ID, domain.TaskInProgress); err != nil {
		t.Fatalf("assignee update: %v", err)
	}

	mine, err := a.MyTasks(assignee)
	if err != nil {
		t.Fatalf("MyTasks: %v", err)
	}
	if len(mine) != 1 || mine[0].Status != domain.TaskInProgress {
		t.Fatalf("unexpected assignee tasks: %+v", mine)
	}
	assigned, err := a.AssignedTasks()
	if err != nil {
		t.Fatalf("AssignedTasks: %v", err)
	}
	if len(assigned) != 1 {
		t.Fatalf("got %d assigned tasks, want 1", len(assigned))
	}
}

func TestDashboardCounts(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Register("alice", "", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	employee := domain.User{ID: "u1"}
	start := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	if _, err := a.SubmitLeave(employee, "sick", "", start, start); err != nil {
		t.Fatalf("SubmitLeave: %v", err)
	}
	if _, err := a.SubmitExpense(employee, "travel", 10, start, ""); err != nil {
		t.Fatalf("SubmitExpense: %v", err)
	}
	lat, lng := 12.9, 77.6
	if _, err := a.Punch(employee, ActionCheckIn, &lat, &lng); err != nil {
		t.Fatalf("Punch: %v", err)
	}

	counts, err := a.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	want := DashboardCounts{Users: 1, PendingLeaves: 1, Expenses: 1, ActiveToday: 1}
	if counts != want {
		t.Fatalf("Dashboard = %+v, want %+v", counts, want)
	}
}
