package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/pkg/identity"
)

func TestGetOrCreateProvisionsWithClaimRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewUserService(repo, zap.NewNop())

	user, err := svc.GetOrCreateByClaims(context.Background(),
		&identity.Claims{UID: "u1", Email: "t@example.com", Name: "T", Role: model.RoleTeacher},
		model.RoleStudent)
	if err != nil {
		t.Fatalf("GetOrCreateByClaims: %v", err)
	}
	if user.Role != model.RoleTeacher {
		t.Fatalf("got role %s, want claim role TEACHER", user.Role)
	}
}

func TestGetOrCreateFallsBackToDefaultRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewUserService(repo, zap.NewNop())

	user, err := svc.GetOrCreateByClaims(context.Background(),
		&identity.Claims{UID: "u1", Email: "s@example.com"}, model.RoleStudent)
	if err != nil {
		t.Fatalf("GetOrCreateByClaims: %v", err)
	}
	if user.Role != model.RoleStudent {
		t.Fatalf("got role %s, want STUDENT", user.Role)
	}
	if user.Name != "Student" {
		t.Fatalf("got name %q, want placeholder", user.Name)
	}
}

func TestGetOrCreateKeepsExistingRow(t *testing.T) {
	repo := newMockRepository()
	svc := NewUserService(repo, zap.NewNop())

	claims := &identity.Claims{UID: "u1", Email: "s@example.com", Name: "Original"}
	first, _ := svc.GetOrCreateByClaims(context.Background(), claims, model.RoleStudent)

	// a later call with richer claims must not rewrite the stored row
	claims.Role = model.RoleAdmin
	claims.Name = "Changed"
	second, err := svc.GetOrCreateByClaims(context.Background(), claims, model.RoleStudent)
	if err != nil {
		t.Fatalf("GetOrCreateByClaims: %v", err)
	}
	if second.ID != first.ID || second.Role != model.RoleStudent {
		t.Fatalf("existing row mutated: %+v", second)
	}
}

func TestGetByClaimsNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.GetByClaims(context.Background(), &identity.Claims{UID: "ghost"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestUpdateRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewUserService(repo, zap.NewNop())

	user, _ := svc.GetOrCreateByClaims(context.Background(),
		&identity.Claims{UID: "u1", Email: "s@example.com"}, model.RoleStudent)

	resp, err := svc.UpdateRole(context.Background(), user.ID, "teacher")
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if resp.Role != model.RoleTeacher {
		t.Fatalf("got role %s, want TEACHER (case-normalized)", resp.Role)
	}

	if _, err := svc.UpdateRole(context.Background(), user.ID, "PRINCIPAL"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("got %v, want ErrInvalidRole", err)
	}
	if _, err := svc.UpdateRole(context.Background(), 99, model.RoleAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}
