package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix   = "user:%d"
	recipeKeyPrefix = "recipe:%d"
)

const (
	// UserTTL bounds staleness of cached user profiles.
	UserTTL = 5 * time.Minute
	// RecipeTTL bounds staleness of cached recipe detail for anonymous reads.
	RecipeTTL = 10 * time.Minute
)

// UserKey returns the cache key for a user profile.
func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

// RecipeKey returns the cache key for a recipe detail.
func RecipeKey(recipeID uint) string {
	return fmt.Sprintf(recipeKeyPrefix, recipeID)
}

// Invalidate removes a key. A nil client is a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUser removes the cached profile for the user.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateRecipe removes the cached detail for the recipe.
func InvalidateRecipe(ctx context.Context, recipeID uint) {
	Invalidate(ctx, RecipeKey(recipeID))
}
