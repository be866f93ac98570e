package service

import (
	"context"
	"os"
	"strings"

	"gastronauta/internal/middleware"
	"gastronauta/internal/models"
	"gastronauta/internal/repository"
	"gastronauta/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService provides profile and account business logic.
type UserService struct {
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository

	// removeFile is swapped in tests; defaults to os.Remove.
	removeFile func(path string) error
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, recipeRepo repository.RecipeRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
		removeFile: os.Remove,
	}
}

// WithFileRemover overrides how orphaned uploaded files are deleted.
func (s *UserService) WithFileRemover(fn func(path string) error) *UserService {
	s.removeFile = fn
	return s
}

// cleanupFile removes an uploaded file best-effort; failures are logged,
// never propagated.
func (s *UserService) cleanupFile(path string) {
	if path == "" {
		return
	}
	if err := s.removeFile(path); err != nil && !os.IsNotExist(err) {
		middleware.Logger.Warn("failed to remove uploaded file", "path", path, "error", err)
	}
}

// Profile returns a user's public profile with follow counts and the
// viewer's relationship annotations.
func (s *UserService) Profile(ctx context.Context, id, viewerID uint) (*models.User, error) {
	return s.userRepo.GetProfile(ctx, id, viewerID)
}

// ProfileInput carries the user-editable profile fields.
type ProfileInput struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Bio        string `json:"bio"`
	AvatarPath string `json:"avatar_path"`
}

// UpdateProfile rewrites the caller's profile. Username and email must stay
// unique across accounts.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username != "" && username != user.Username {
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewConflictError("Username already taken")
		}
		user.Username = username
	}

	if email != "" && email != user.Email {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewConflictError("Email already taken")
		}
		user.Email = email
	}

	user.FullName = in.FullName
	user.Bio = in.Bio
	oldAvatar := user.AvatarPath
	if in.AvatarPath != "" {
		user.AvatarPath = in.AvatarPath
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if in.AvatarPath != "" && oldAvatar != in.AvatarPath {
		s.cleanupFile(oldAvatar)
	}
	return user, nil
}

// ChangePassword swaps the caller's password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return models.NewForbiddenError("Current password is incorrect")
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hashed))
}

// DeleteAccount removes the account and all its content after a password
// confirmation. Uploaded files are cleaned up best-effort once the rows are
// gone.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint, password string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.NewForbiddenError("Password is incorrect")
	}

	// Collect file paths before the rows disappear, paging so accounts with
	// any number of recipes are fully swept.
	paths := []string{}
	if user.AvatarPath != "" {
		paths = append(paths, user.AvatarPath)
	}
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		recipes, err := s.recipeRepo.GetByUserID(ctx, userID, pageSize, offset, 0)
		if err != nil {
			return err
		}
		for _, r := range recipes {
			if r.ImagePath != "" {
				paths = append(paths, r.ImagePath)
			}
		}
		if len(recipes) < pageSize {
			break
		}
	}

	if err := s.userRepo.DeleteAccount(ctx, userID); err != nil {
		return err
	}

	for _, p := range paths {
		s.cleanupFile(p)
	}
	return nil
}
