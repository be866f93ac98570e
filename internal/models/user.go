// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account on Gastronauta.
//
// ResetTokenHash and ResetTokenExpiry are mutually present-or-absent: both are
// set when a password reset is requested and both are nulled on redemption.
// The raw reset secret is never persisted, only its SHA-256 hash.
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Username         string         `gorm:"unique;not null" json:"username"`
	Email            string         `gorm:"unique;not null" json:"email"`
	Password         string         `gorm:"not null" json:"-"`
	FullName         string         `json:"full_name"`
	Bio              string         `json:"bio"`
	AvatarPath       string         `json:"avatar_path"`
	ResetTokenHash   *string        `gorm:"index" json:"-"`
	ResetTokenExpiry *time.Time     `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	Recipes          []Recipe       `gorm:"foreignKey:UserID" json:"recipes,omitempty"`

	// FollowerCount/FollowingCount are not persisted; computed at query time.
	FollowerCount  int `gorm:"->" json:"follower_count"`
	FollowingCount int `gorm:"->" json:"following_count"`
	// IsFollowing reports whether the requesting user follows this user (computed).
	IsFollowing bool `gorm:"->" json:"is_following"`
	// FollowsMe reports whether this user follows the requesting user (computed).
	FollowsMe bool `gorm:"->" json:"follows_me"`
}
