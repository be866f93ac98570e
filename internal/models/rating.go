// Package models contains data structures for the application's domain models.
package models

import "time"

// Rating is a user's 1-5 score on a recipe with an optional review comment.
// The (recipe_id, user_id) pair is unique; a second rating from the same user
// overwrites the first (upsert), keeping the previous comment when the re-rate
// omits a new one.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_ratings_recipe_user" json:"recipe_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ratings_recipe_user" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Score     int       `gorm:"not null" json:"score"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingStats is the aggregate rating projection for a recipe.
type RatingStats struct {
	AvgRating    float64 `json:"avg_rating"`
	RatingsCount int     `json:"ratings_count"`
}
