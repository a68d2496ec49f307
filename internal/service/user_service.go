package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/policy"
	"github.com/helpdesk-pro/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// UserService manages the account directory. Management actions follow
// the delegation order: only a strictly higher rank may act on a target.
type UserService struct {
	users repository.UserRepository
}

// UserDependencies bundles user service inputs.
type UserDependencies struct {
	UserRepo repository.UserRepository
}

// UserListFilter narrows directory listings.
type UserListFilter struct {
	Roles     []domain.Role
	Status    *domain.UserStatus
	StaffOnly bool
	Limit     int
	Offset    int
}

// UserUpdateInput holds mutable profile fields. Nil fields are left as is.
type UserUpdateInput struct {
	Name       *string
	Role       *domain.Role
	Department *string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{users: deps.UserRepo}
}

// List returns directory entries. Restricted to directory-capable roles.
func (s *UserService) List(ctx context.Context, actor *domain.User, filter UserListFilter) ([]domain.User, error) {
	if !policy.CanViewRoute(actor.Role, policy.RouteUsers) {
		return nil, apperrors.NewForbidden("role may not browse the user directory")
	}
	repoFilter := repository.UserFilter{
		Roles:  filter.Roles,
		Status: filter.Status,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.StaffOnly && len(repoFilter.Roles) == 0 {
		repoFilter.Roles = []domain.Role{domain.RoleAgent, domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin}
	}
	users, err := s.users.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListAssignableAgents returns active staff accounts, for assignment pickers.
func (s *UserService) ListAssignableAgents(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !policy.IsStaff(actor.Role) {
		return nil, apperrors.NewForbidden("staff only")
	}
	status := domain.UserStatusActive
	users, err := s.users.List(ctx, repository.UserFilter{
		Roles:  []domain.Role{domain.RoleAgent, domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin},
		Status: &status,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get fetches one account for an actor allowed to see the directory, or
// the actor's own account.
func (s *UserService) Get(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	if userID != actor.ID && !policy.CanViewRoute(actor.Role, policy.RouteUsers) {
		return nil, apperrors.NewForbidden("role may not browse the user directory")
	}
	return s.getUser(ctx, userID)
}

// Update edits a target account. Self-edits may change name and
// department; role changes require management rank over both the
// target's current role and the role being granted.
func (s *UserService) Update(ctx context.Context, actor *domain.User, userID string, input UserUpdateInput) (*domain.User, error) {
	target, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	self := target.ID == actor.ID
	if !self && !policy.CanManageUser(actor.Role, target.Role) {
		return nil, apperrors.NewForbidden("insufficient rank to manage this user")
	}

	if input.Role != nil && *input.Role != target.Role {
		if self {
			return nil, apperrors.NewForbidden("cannot change own role")
		}
		if _, known := map[domain.Role]bool{
			domain.RoleCustomer:   true,
			domain.RoleAgent:      true,
			domain.RoleManager:    true,
			domain.RoleAdmin:      true,
			domain.RoleSuperAdmin: true,
		}[*input.Role]; !known {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		if policy.Rank(*input.Role) >= policy.Rank(actor.Role) {
			return nil, apperrors.NewForbidden("cannot grant a role at or above your own")
		}
		target.Role = *input.Role
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		target.Name = name
	}
	if input.Department != nil {
		target.Department = input.Department
	}

	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

// ToggleStatus flips the target between Active and Inactive.
func (s *UserService) ToggleStatus(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	target, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageUser(actor.Role, target.Role) {
		return nil, apperrors.NewForbidden("insufficient rank to manage this user")
	}
	if target.Status == domain.UserStatusActive {
		target.Status = domain.UserStatusInactive
	} else {
		target.Status = domain.UserStatusActive
	}
	if err := s.users.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}
	return target, nil
}

// Delete removes an account permanently.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, userID string) error {
	target, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !policy.CanManageUser(actor.Role, target.Role) {
		return apperrors.NewForbidden("insufficient rank to manage this user")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *UserService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
