package app

import (
	"errors"
	"testing"

	"officedesk/pkg/domain"
)

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	a, _ := newTestApp(t)
	first, err := a.Register("alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if first.Role != domain.RoleAdmin {
		t.Fatalf("first user role = %q, want admin", first.Role)
	}
	second, err := a.Register("bob", "", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if second.Role != domain.RoleEmployee {
		t.Fatalf("second user role = %q, want employee", second.Role)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Register("alice", "", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := a.Register("alice", "", "other"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("got %v, want ErrUsernameTaken", err)
	}
}

func TestRegisterRequiresCredentials(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Register("  ", "", "pw"); err == nil {
		t.Fatal("blank username accepted")
	}
	if _, err := a.Register("alice", "", ""); err == nil {
		t.Fatal("empty password accepted")
	}
}

func TestLoginSessionLifecycle(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Register("alice", "", "s3cret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := a.Login("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := a.Login("nobody", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v, want ErrInvalidCredentials", err)
	}

	user, token, err := a.Login("alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty session token")
	}
	got, ok, err := a.UserFromToken(token)
	if err != nil || !ok || got.ID != user.ID {
		t.Fatalf("UserFromToken: %+v ok=%v err=%v", got, ok, err)
	}

	if err := a.Logout(token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok, err := a.UserFromToken(token); err != nil || ok {
		t.Fatalf("revoked token still resolved: ok=%v err=%v", ok, err)
	}
}

func TestSetUserRoleSelfDemotion(t *testing.T) {
	a, _ := newTestApp(t)
	admin, err := a.Register("alice", "", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	bob, err := a.Register("bob", "", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := a.SetUserRole(admin, admin.ID, domain.RoleEmployee); err == nil {
		t.Fatal("self-demotion accepted")
	}
	if err := a.SetUserRole(admin, bob.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("promote bob: %v", err)
	}
	users, err := a.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[1].Role != domain.RoleAdmin {
		t.Fatalf("promotion not persisted: %+v", users)
	}
}
