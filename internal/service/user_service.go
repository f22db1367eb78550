package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Masaru124/Attendance-app/internal/dto"
	"github.com/Masaru124/Attendance-app/internal/model"
	"github.com/Masaru124/Attendance-app/internal/repository"
	"github.com/Masaru124/Attendance-app/pkg/identity"
)

// ── user module errors ──

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

// UserService owns the persisted user records behind external identities.
type UserService interface {
	// GetOrCreateByClaims returns the user row for the verified identity,
	// provisioning one when absent. The stored role is the claims role when
	// valid, otherwise defaultRole. Existing rows are returned as-is.
	GetOrCreateByClaims(ctx context.Context, claims *identity.Claims, defaultRole string) (*model.User, error)
	GetByClaims(ctx context.Context, claims *identity.Claims) (*model.User, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	UpdateRole(ctx context.Context, userID uint, role string) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetOrCreateByClaims(ctx context.Context, claims *identity.Claims, defaultRole string) (*model.User, error) {
	user, err := s.repo.User.GetByFirebaseUID(ctx, claims.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := defaultRole
	if model.ValidRole(claims.Role) {
		role = claims.Role
	}
	name := claims.Name
	if name == "" {
		name = "Student"
	}

	user = &model.User{
		FirebaseUID: claims.UID,
		Email:       claims.Email,
		Name:        name,
		Role:        role,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		// lost a provisioning race: the row exists now
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.repo.User.GetByFirebaseUID(ctx, claims.UID)
		}
		s.logger.Error("provision user failed", zap.String("uid", claims.UID), zap.Error(err))
		return nil, err
	}

	return user, nil
}

func (s *userService) GetByClaims(ctx context.Context, claims *identity.Claims) (*model.User, error) {
	user, err := s.repo.User.GetByFirebaseUID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}

func (s *userService) UpdateRole(ctx context.Context, userID uint, role string) (*dto.UserResponse, error) {
	role = strings.ToUpper(role)
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.Uint("id", userID), zap.Error(err))
		return nil, err
	}

	user.Role = role
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update role failed", zap.Uint("id", userID), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		FirebaseUID: user.FirebaseUID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
}
