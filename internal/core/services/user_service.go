package services

import (
	"context"
	"errors"
	"log"

	"workclock/internal/adapters/persistence/models"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/core/domain"
	"workclock/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput carries self-service profile edits
type UpdateProfileInput struct {
	FullName   *string `json:"full_name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Email      *string `json:"email" validate:"omitempty,email"`
}

// ChangePasswordInput carries a password change
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AdminUpdateInput carries admin edits to any user
type AdminUpdateInput struct {
	FullName   *string `json:"full_name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Email      *string `json:"email" validate:"omitempty,email"`
	IsActive   *bool   `json:"is_active"`
}

// SetRoleInput carries an admin role change
type SetRoleInput struct {
	Role string `json:"role" validate:"required,oneof=employee admin"`
}

// List returns all users with pagination
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// GetByID returns one user
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getUser(ctx, id)
}

// UpdateProfile applies self-service edits to a user
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrUserAlreadyExists
		}
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Position != nil {
		user.Position = *input.Position
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AdminUpdate applies admin edits to a user. Deactivating yourself is
// refused, same as SetActive.
func (s *UserService) AdminUpdate(ctx context.Context, id, adminID uint, input *AdminUpdateInput) (*models.User, error) {
	if input.IsActive != nil && !*input.IsActive && id == adminID {
		return nil, domain.ErrForbidden
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrUserAlreadyExists
		}
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Position != nil {
		user.Position = *input.Position
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(input.CurrentPassword, user.Password) {
		return domain.ErrInvalidCredentials
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed

	return s.userRepo.Update(ctx, user)
}

// SetRole changes a user's role. An admin cannot demote themselves.
func (s *UserService) SetRole(ctx context.Context, id, adminID uint, role string) (*models.User, error) {
	if id == adminID && role != models.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Role of user %d set to %s by admin %d", id, role, adminID)
	return user, nil
}

// SetActive enables or disables a user account
func (s *UserService) SetActive(ctx context.Context, id, adminID uint, active bool) (*models.User, error) {
	if id == adminID && !active {
		return nil, domain.ErrForbidden
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete soft-deletes a user account
func (s *UserService) Delete(ctx context.Context, id, adminID uint) error {
	if id == adminID {
		return domain.ErrForbidden
	}
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) getUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
