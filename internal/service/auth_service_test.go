package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-backoffice/internal/model"
)

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, login := range []string{"clerk", "clerk@example.com"} {
		resp, err := f.auth.Login(ctx, login, testPassword)
		if err != nil {
			t.Fatalf("Login(%q): %v", login, err)
		}
		if resp.Token == "" || resp.User.ID != f.clerk.ID || resp.Role == nil || resp.Role.Code != model.RoleEmployee {
			t.Fatalf("Login(%q) = %+v", login, resp)
		}
		if len(resp.Privileges) != len(model.EmployeePrivileges) {
			t.Fatalf("privileges = %v", resp.Privileges)
		}
	}

	if _, err := f.auth.Login(ctx, "clerk", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v", err)
	}
	if _, err := f.auth.Login(ctx, "nobody", testPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user = %v", err)
	}

	if err := f.users.SetLocked(ctx, f.clerk.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := f.auth.Login(ctx, "clerk", testPassword); !errors.Is(err, ErrUserLocked) {
		t.Fatalf("locked user = %v", err)
	}
}

func TestAuthService_SingleSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.auth.Login(ctx, "admin", testPassword)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.auth.ValidateToken(ctx, first.Token); err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	second, err := f.auth.Login(ctx, "admin", testPassword)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.auth.Authenticate(ctx, first.Token); !errors.Is(err, ErrSessionReplaced) {
		t.Fatalf("old token = %v, want ErrSessionReplaced", err)
	}
	claims, err := f.auth.Authenticate(ctx, second.Token)
	if err != nil || claims.UserID != f.admin.ID {
		t.Fatalf("Authenticate = %+v, %v", claims, err)
	}
	if _, err := f.auth.Authenticate(ctx, "not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func TestAuthService_IdleTimeout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.auth.(*authService)
	start := time.Now()
	svc.now = func() time.Time { return start }

	resp, err := f.auth.Login(ctx, "clerk", testPassword)
	if err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return start.Add(20 * time.Minute) }
	if err := f.auth.Heartbeat(ctx, f.clerk.ID); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	svc.now = func() time.Time { return start.Add(45 * time.Minute) }
	if _, err := f.auth.ValidateToken(ctx, resp.Token); err != nil {
		t.Fatalf("token within idle window rejected: %v", err)
	}

	svc.now = func() time.Time { return start.Add(time.Hour + 30*time.Minute) }
	if _, err := f.auth.ValidateToken(ctx, resp.Token); !errors.Is(err, ErrSessionTimeout) {
		t.Fatalf("idle token = %v, want ErrSessionTimeout", err)
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	old, _ := f.auth.Login(ctx, "clerk", testPassword)

	if err := f.auth.ResetPassword(ctx, "clerk", "bad", "newpass1"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("wrong old password = %v", err)
	}
	if err := f.auth.ResetPassword(ctx, "clerk", testPassword, "123"); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password = %v", err)
	}
	if err := f.auth.ResetPassword(ctx, "clerk", testPassword, "newpass1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := f.auth.Authenticate(ctx, old.Token); !errors.Is(err, ErrSessionReplaced) {
		t.Fatalf("token survived reset: %v", err)
	}
	if _, err := f.auth.Login(ctx, "clerk", "newpass1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
