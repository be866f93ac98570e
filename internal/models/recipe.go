// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipe represents a recipe post owned by exactly one user.
type Recipe struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"not null;index" json:"user_id"`
	User          User   `gorm:"foreignKey:UserID" json:"user"`
	Title         string `gorm:"not null" json:"title"`
	Ingredients   string `gorm:"type:text;not null" json:"ingredients"`
	Steps         string `gorm:"type:text;not null" json:"steps"`
	Description   string `gorm:"type:text" json:"description"`
	PrepTime      string `json:"prep_time"`
	Difficulty    string `json:"difficulty"`
	Cost          string `json:"cost"`
	Servings      string `json:"servings"`
	CookingMethod string `json:"cooking_method"`
	ImagePath     string `json:"image_path"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this recipe (computed)
	Liked bool `gorm:"->" json:"liked"`
	// AvgRating is the average score across all raters, rounded to one decimal (computed)
	AvgRating float64 `gorm:"->" json:"avg_rating"`
	// RatingsCount is not persisted; computed at query time
	RatingsCount int `gorm:"->" json:"ratings_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Like marks that a user liked a recipe. Presence of the row is the "liked"
// state; the pair is unique and rows are hard-deleted on unlike.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_likes_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}
