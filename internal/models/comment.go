// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a recipe.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecipeID uint   `gorm:"not null;index" json:"recipe_id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Content  string `gorm:"type:text;not null" json:"content"`

	// Likes/Dislikes are not persisted; computed at query time
	Likes    int `gorm:"->" json:"likes"`
	Dislikes int `gorm:"->" json:"dislikes"`
	// MyReaction is the requesting user's reaction: "like", "dislike" or "" (computed)
	MyReaction string `gorm:"->" json:"my_reaction"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
