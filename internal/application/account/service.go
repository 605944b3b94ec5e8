package account

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/dealer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/repository"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

// Service manages accounts: registration, role administration and the
// role-filtered user listing. It shares the dealer permission table so every
// role check lives in one place.
type Service struct {
	users repository.UserRepository
	log   logger.Logger
}

func NewService(users repository.UserRepository, log logger.Logger) *Service {
	return &Service{users: users, log: log}
}

// RegisterCommand carries the clear-text registration input. The password is
// hashed here and never stored.
type RegisterCommand struct {
	Username string
	Password string
	Name     string
	Surname  string
	Phone    string
	Email    string
}

// Register creates a CLIENT account. Staff roles are only ever granted via
// ChangeRole by an admin.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*user.User, error) {
	if cmd.Password == "" {
		return nil, user.ErrMissingField
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := user.NewUser(user.RoleClient, cmd.Username, string(hash), cmd.Name, cmd.Surname, cmd.Phone, cmd.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user %q: %w", cmd.Username, err)
	}

	s.log.Info("user registered", logger.Int64("user_id", u.ID), logger.String("username", u.Username))
	return u, nil
}

// ChangeRole updates a user's role. Admin only.
func (s *Service) ChangeRole(ctx context.Context, role user.Role, userID int64, newRole user.Role) error {
	if !dealer.Allowed(dealer.OpChangeUserRole, role) {
		return &dealer.PermissionError{Op: dealer.OpChangeUserRole, Role: role}
	}
	if !newRole.Valid() {
		return user.ErrUnknownRole
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user %d: %w", userID, err)
	}

	u.Role = newRole
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}

	s.log.Info("role changed",
		logger.Int64("user_id", u.ID),
		logger.String("role", newRole.String()),
	)
	return nil
}

// Delete removes an account. Admin only.
func (s *Service) Delete(ctx context.Context, role user.Role, userID int64) error {
	if !dealer.Allowed(dealer.OpDeleteUser, role) {
		return &dealer.PermissionError{Op: dealer.OpDeleteUser, Role: role}
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}

// Get returns one user record. Clients see only themselves; managers see
// clients and themselves but not other staff.
func (s *Service) Get(ctx context.Context, role user.Role, actorID, userID int64) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !visible(role, actorID, *u) {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

// List returns the user records the caller may see.
func (s *Service) List(ctx context.Context, role user.Role, actorID int64) ([]user.User, error) {
	if !dealer.Allowed(dealer.OpListUsers, role) {
		return nil, &dealer.PermissionError{Op: dealer.OpListUsers, Role: role}
	}

	all, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]user.User, 0, len(all))
	for _, u := range all {
		if visible(role, actorID, u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// visible implements the read gate: ADMIN sees everyone, MANAGER sees clients
// and their own record, CLIENT sees only themselves.
func visible(role user.Role, actorID int64, u user.User) bool {
	switch role {
	case user.RoleAdmin:
		return true
	case user.RoleManager:
		return u.Role == user.RoleClient || u.ID == actorID
	default:
		return u.ID == actorID
	}
}
