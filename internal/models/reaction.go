// Package models contains data structures for the application's domain models.
package models

import "time"

// ReactionKind is the type of a comment reaction.
type ReactionKind string

const (
	// ReactionLike marks a positive reaction on a comment.
	ReactionLike ReactionKind = "like"
	// ReactionDislike marks a negative reaction on a comment.
	ReactionDislike ReactionKind = "dislike"
	// ReactionNone means the user has no reaction on the comment.
	// It is never stored; absence of a row is the "none" state.
	ReactionNone ReactionKind = ""
)

// Valid reports whether k is a kind that can be stored.
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// CommentReaction holds a user's single reaction on a comment. The
// (comment_id, user_id) pair is unique: a user has at most one reaction per
// comment, and its kind transitions only among {absent, like, dislike}.
type CommentReaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CommentID uint         `gorm:"not null;uniqueIndex:idx_reactions_comment_user" json:"comment_id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_reactions_comment_user" json:"user_id"`
	Kind      ReactionKind `gorm:"type:varchar(10);not null" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
