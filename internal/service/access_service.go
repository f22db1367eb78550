package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/internal/repository"
	"github.com/Masaru124/Attendance-app/pkg/identity"
)

// ErrAccessDenied is matched by errors.Is against *AccessDeniedError.
var ErrAccessDenied = errors.New("access denied")

// AccessDeniedError carries the allowed set and the resolved role for
// diagnostics.
type AccessDeniedError struct {
	AllowedRoles []string
	Role         string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: required roles: %s, your role: %s",
		strings.Join(e.AllowedRoles, ", "), e.Role)
}

func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }

// RoleSource tags which branch of the resolution chain produced the role.
type RoleSource string

const (
	RoleSourceClaim   RoleSource = "claim"
	RoleSourceStore   RoleSource = "store"
	RoleSourceDefault RoleSource = "default"
)

// AccessService resolves a caller's role and decides authorization.
// Resolution is a pure read: it never provisions a user row.
type AccessService interface {
	// ResolveRole applies the ordered fallback chain: role embedded in the
	// claims, then the persisted user's role, then STUDENT.
	ResolveRole(ctx context.Context, claims *identity.Claims) (string, RoleSource, error)

	// Authorize returns the resolved role when it is in allowedRoles, or an
	// *AccessDeniedError. An ADMIN caller passes whenever ADMIN is allowed.
	Authorize(ctx context.Context, claims *identity.Claims, allowedRoles ...string) (string, error)
}

type accessService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAccessService creates an AccessService.
func NewAccessService(repo *repository.Repository, logger *zap.Logger) AccessService {
	return &accessService{repo: repo, logger: logger}
}

func (s *accessService) ResolveRole(ctx context.Context, claims *identity.Claims) (string, RoleSource, error) {
	if claims.Role != "" {
		return claims.Role, RoleSourceClaim, nil
	}

	user, err := s.repo.User.GetByFirebaseUID(ctx, claims.UID)
	if err == nil {
		return user.Role, RoleSourceStore, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("role lookup failed", zap.String("uid", claims.UID), zap.Error(err))
		return "", "", err
	}

	return model.RoleStudent, RoleSourceDefault, nil
}

func (s *accessService) Authorize(ctx context.Context, claims *identity.Claims, allowedRoles ...string) (string, error) {
	role, source, err := s.ResolveRole(ctx, claims)
	if err != nil {
		return "", err
	}

	// super-admin bypass
	if role == model.RoleAdmin && contains(allowedRoles, model.RoleAdmin) {
		return role, nil
	}

	if contains(allowedRoles, role) {
		return role, nil
	}

	s.logger.Debug("authorization denied",
		zap.String("uid", claims.UID),
		zap.String("role", role),
		zap.String("source", string(source)),
		zap.Strings("allowed", allowedRoles),
	)

	return "", &AccessDeniedError{AllowedRoles: allowedRoles, Role: role}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
