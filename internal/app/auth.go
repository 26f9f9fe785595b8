package app

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"officedesk/internal/session"
	"officedesk/internal/util"
	"officedesk/pkg/domain"
)

// Register creates an account. The very first registration becomes the
// admin; everyone after that is an employee.
func (a *App) Register(username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, errors.New("username and password are required")
	}
	if _, exists, err := a.store.GetUserByUsername(username); err != nil {
		return domain.User{}, fmt.Errorf("lookup username: %w", err)
	} else if exists {
		return domain.User{}, ErrUsernameTaken
	}
	count, err := a.store.UserCount()
	if err != nil {
		return domain.User{}, fmt.Errorf("count users: %w", err)
	}
	role := domain.RoleEmployee
	if count == 0 {
		role = domain.RoleAdmin
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           util.NewID(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    a.now(),
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (a *App) Login(username, password string) (domain.User, string, error) {
	user, ok, err := a.store.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		return domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	}
	if !ok {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("create session: %w", err)
	}
	return user, token, nil
}

// Logout revokes a session token.
func (a *App) Logout(token string) error {
	return a.sessions.DeleteSession(token)
}

// UserFromToken resolves a session token to its user.
func (a *App) UserFromToken(token string) (domain.User, bool, error) {
	userID, err := a.sessions.UserIDByToken(token)
	if errors.Is(err, session.ErrInvalidSession) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return a.store.GetUserByID(userID)
}

// SetUserRole promotes or demotes a user. Admins cannot demote
// themselves, so the portal always keeps at least one admin.
func (a *App) SetUserRole(actor domain.User, userID string, role domain.UserRole) error {
	if actor.ID == userID && role != domain.RoleAdmin {
		return errors.New("you cannot demote yourself")
	}
	if err := a.store.SetUserRole(userID, role); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

// ListUsers returns all accounts.
func (a *App) ListUsers() ([]domain.User, error) {
	return a.store.ListUsers()
}
