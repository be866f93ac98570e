package service

import (
	"context"
	"fmt"
	"testing"

	"gastronauta/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashedPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Wrong current password", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Password: hashedPassword(t, "correct-pass1")}, nil
		}
		svc := NewUserService(userRepo, noopRecipeRepo())

		err := svc.ChangePassword(ctx, 1, "wrong-pass1", "new-password1")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeForbidden, appErr.Code)
	})

	t.Run("Weak new password", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Password: hashedPassword(t, "correct-pass1")}, nil
		}
		svc := NewUserService(userRepo, noopRecipeRepo())

		err := svc.ChangePassword(ctx, 1, "correct-pass1", "short")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("Success stores a bcrypt hash", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Password: hashedPassword(t, "correct-pass1")}, nil
		}
		var stored string
		userRepo.updatePasswordFn = func(_ context.Context, id uint, hashed string) error {
			assert.Equal(t, uint(1), id)
			stored = hashed
			return nil
		}
		svc := NewUserService(userRepo, noopRecipeRepo())

		require.NoError(t, svc.ChangePassword(ctx, 1, "correct-pass1", "new-password1"))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("new-password1")))
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Username conflict", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Username: "chef_maria", Email: "maria@example.com"}, nil
		}
		userRepo.getByUsernameFn = func(context.Context, string) (*models.User, error) {
			return &models.User{ID: 2, Username: "sous_chef"}, nil
		}
		svc := NewUserService(userRepo, noopRecipeRepo())

		_, err := svc.UpdateProfile(ctx, 1, ProfileInput{Username: "sous_chef"})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeConflict, appErr.Code)
	})

	t.Run("Replacing the avatar removes the old file", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Username: "chef_maria", AvatarPath: "/uploads/old-avatar.jpg"}, nil
		}
		svc := NewUserService(userRepo, noopRecipeRepo())
		removed := []string{}
		svc.removeFile = func(path string) error {
			removed = append(removed, path)
			return nil
		}

		_, err := svc.UpdateProfile(ctx, 1, ProfileInput{AvatarPath: "/uploads/new-avatar.jpg"})
		require.NoError(t, err)
		assert.Equal(t, []string{"/uploads/old-avatar.jpg"}, removed)
	})

	t.Run("Omitting the avatar keeps the file", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Username: "chef_maria", AvatarPath: "/uploads/old-avatar.jpg"}, nil
		}
		svc := NewUserService(userRepo, noopRecipeRepo())
		removed := []string{}
		svc.removeFile = func(path string) error {
			removed = append(removed, path)
			return nil
		}

		_, err := svc.UpdateProfile(ctx, 1, ProfileInput{Bio: "I cook."})
		require.NoError(t, err)
		assert.Empty(t, removed)
	})

	t.Run("Unchanged username skips the uniqueness check", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Username: "chef_maria", Email: "maria@example.com"}, nil
		}
		checked := false
		userRepo.getByUsernameFn = func(context.Context, string) (*models.User, error) {
			checked = true
			return nil, nil
		}
		svc := NewUserService(userRepo, noopRecipeRepo())

		_, err := svc.UpdateProfile(ctx, 1, ProfileInput{Username: "chef_maria", Bio: "I cook."})
		require.NoError(t, err)
		assert.False(t, checked)
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Wrong password", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Password: hashedPassword(t, "correct-pass1")}, nil
		}
		deleted := false
		userRepo.deleteAccountFn = func(context.Context, uint) error {
			deleted = true
			return nil
		}
		svc := NewUserService(userRepo, noopRecipeRepo())

		err := svc.DeleteAccount(ctx, 1, "wrong")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.CodeForbidden, appErr.Code)
		assert.False(t, deleted)
	})

	t.Run("Removes uploaded files after the rows", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Password: hashedPassword(t, "correct-pass1"), AvatarPath: "public/uploads/avatar.jpg"}, nil
		}
		deleted := false
		userRepo.deleteAccountFn = func(context.Context, uint) error {
			deleted = true
			return nil
		}

		recipeRepo := noopRecipeRepo()
		recipeRepo.getByUserIDFn = func(context.Context, uint, int, int, uint) ([]*models.Recipe, error) {
			return []*models.Recipe{
				{ID: 2, ImagePath: "public/uploads/paella.jpg"},
				{ID: 3},
			}, nil
		}

		svc := NewUserService(userRepo, recipeRepo)
		removed := []string{}
		svc.removeFile = func(path string) error {
			assert.True(t, deleted, "files must not be removed before the rows")
			removed = append(removed, path)
			return nil
		}

		require.NoError(t, svc.DeleteAccount(ctx, 1, "correct-pass1"))
		assert.ElementsMatch(t, []string{"public/uploads/avatar.jpg", "public/uploads/paella.jpg"}, removed)
	})

	t.Run("Pages through every recipe image", func(t *testing.T) {
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 1, Password: hashedPassword(t, "correct-pass1")}, nil
		}

		const total = 1203
		recipeRepo := noopRecipeRepo()
		recipeRepo.getByUserIDFn = func(_ context.Context, _ uint, limit, offset int, _ uint) ([]*models.Recipe, error) {
			page := []*models.Recipe{}
			for i := offset; i < total && i < offset+limit; i++ {
				page = append(page, &models.Recipe{ID: uint(i + 1), ImagePath: fmt.Sprintf("/uploads/r%d.jpg", i)})
			}
			return page, nil
		}

		svc := NewUserService(userRepo, recipeRepo)
		removed := 0
		svc.removeFile = func(string) error {
			removed++
			return nil
		}

		require.NoError(t, svc.DeleteAccount(ctx, 1, "correct-pass1"))
		assert.Equal(t, total, removed)
	})
}
