package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitetrack/internal/dto"
	"sitetrack/internal/models"
	"sitetrack/internal/permissions"
	"sitetrack/internal/policy"
	"sitetrack/internal/visibility"
	"sitetrack/internal/watch"
)

// UserService covers directory listing, admin edits, approval of pending
// accounts, and profile deletion.
type UserService struct {
	db       *gorm.DB
	hub      *watch.Hub
	resolver *visibility.Resolver
	roles    *policy.Registry
}

func NewUserService(db *gorm.DB, hub *watch.Hub, resolver *visibility.Resolver, roles *policy.Registry) *UserService {
	return &UserService{db: db, hub: hub, resolver: resolver, roles: roles}
}

// List returns the directory the actor may see: everyone for directory
// roles, only the actor's own record otherwise.
func (s *UserService) List(ctx context.Context, actor *models.User) ([]models.User, error) {
	return s.resolver.VisibleUsers(ctx, actor)
}

// Get loads a single user the actor may see.
func (s *UserService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error) {
	if actor.ID != id && !permissions.CanFetchAllUsers(actor) {
		return nil, ErrNotFound
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// Update edits a user's name or role. Role changes go through the
// grantable-role policy, same as approval.
func (s *UserService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	if !permissions.CanManageUsers(actor) {
		return nil, ErrPermissionDenied
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if !s.roles.IsGrantable(role) {
			return nil, fmt.Errorf("%w: role %q is not grantable", ErrInvalidInput, role)
		}
		updates["role"] = role
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.hub.Notify(ctx, watch.TopicUsers)
	return s.load(ctx, id)
}

// Approve grants a pending account its first role. Already-approved
// accounts are rejected here; role changes go through Update.
func (s *UserService) Approve(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.ApproveUserRequest) (*models.User, error) {
	if !permissions.CanApproveUsers(actor) {
		return nil, ErrPermissionDenied
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role.Granted() {
		return nil, fmt.Errorf("%w: account is already approved", ErrInvalidInput)
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !s.roles.IsGrantable(role) {
		return nil, fmt.Errorf("%w: role %q is not grantable", ErrInvalidInput, role)
	}

	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("approve user: %w", err)
	}

	s.hub.Notify(ctx, watch.TopicUsers)
	return s.load(ctx, id)
}

// Delete removes a user's profile and revokes their sessions. Project
// assignment arrays are left untouched: a stale id in an assignment
// array matches nothing and is harmless, and reassignment stays an
// explicit admin action. Self-deletion is refused.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !permissions.CanDeleteUser(actor, id) {
		if actor.ID == id {
			return ErrSelfDeletion
		}
		return ErrPermissionDenied
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.hub.Notify(ctx, watch.TopicUsers)
	return nil
}

func (s *UserService) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}
