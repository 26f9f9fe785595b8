package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"officedesk/pkg/domain"
)

const dateLayout = "2006-01-02"

type leaveRequestBody struct {
	LeaveType string `json:"leaveType"`
	Reason    string `json:"reason"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (s *Server) handleLeaves(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		var req leaveRequestBody
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid startDate (expect YYYY-MM-DD)")
			return
		}
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid endDate (expect YYYY-MM-DD)")
			return
		}
		leave, err := s.app.SubmitLeave(user, req.LeaveType, req.Reason, start, end)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, leave)
	case http.MethodGet:
		leaves, err := s.app.ListLeaves(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": leaves, "count": len(leaves)})
	default:
		methodNotAllowed(w)
	}
}

type leaveActionRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleAdminLeaveByID(w http.ResponseWriter, r *http.Request, _ domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/leaves/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req leaveActionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Action != "approve" && req.Action != "reject" {
		writeError(w, http.StatusBadRequest, "invalid action")
		return
	}
	leave, err := s.app.ModerateLeave(id, req.Action == "approve")
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leave)
}

type expenseRequest struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	ExpenseDate string  `json:"expenseDate"`
	Note        string  `json:"note"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		var req expenseRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		date, err := time.Parse(dateLayout, req.ExpenseDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid expenseDate (expect YYYY-MM-DD)")
			return
		}
		expense, err := s.app.SubmitExpense(user, req.Category, req.Amount, date, req.Note)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, expense)
	case http.MethodGet:
		expenses, err := s.app.ListExpenses(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": expenses, "count": len(expenses)})
	default:
		methodNotAllowed(w)
	}
}

type taskRequest struct {
	Title      string `json:"title"`
	Details    string `json:"details"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assignedTo"`
	DueAt      string `json:"dueAt"`
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		if user.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		var req taskRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		var dueAt *time.Time
		if req.DueAt != "" {
			parsed, err := time.Parse(time.RFC3339, req.DueAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid dueAt (expect RFC3339)")
				return
			}
			dueAt = &parsed
		}
		task, err := s.app.AssignTask(user, req.Title, req.Details, req.Priority, req.AssignedTo, dueAt)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, task)
	case http.MethodGet:
		tasks, err := s.app.MyTasks(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": tasks, "count": len(tasks)})
	default:
		methodNotAllowed(w)
	}
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPatch {
		methodNotAllowed(w)
		return
	}
	var req taskStatusRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	status, ok := parseTaskStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := s.app.UpdateTaskStatus(user, id, status); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func parseTaskStatus(status string) (domain.TaskStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(domain.TaskTodo):
		return domain.TaskTodo, true
	case string(domain.TaskInProgress):
		return domain.TaskInProgress, true
	case string(domain.TaskDone):
		return domain.TaskDone, true
	default:
		return "", false
	}
}

func (s *Server) handleAdminTasks(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	tasks, err := s.app.AssignedTasks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": tasks, "count": len(tasks)})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	counts, err := s.app.Dashboard()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	users, err := s.app.ListUsers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": users, "count": len(users)})
}

type roleRequest struct {
	Role string `json:"role"`
}

func (s *Server) handleAdminUserByID(w http.ResponseWriter, r *http.Request, actor domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/users/")
	id, action, found := strings.Cut(rest, "/")
	if !found || action != "role" || id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req roleRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	role, ok := parseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if err := s.app.SetUserRole(actor, id, role); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func parseRole(role string) (domain.UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(domain.RoleAdmin):
		return domain.RoleAdmin, true
	case string(domain.RoleEmployee):
		return domain.RoleEmployee, true
	default:
		return "", false
	}
}
