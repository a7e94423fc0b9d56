package models

import "time"

// ReactionKind selects which independent reaction table an operation targets.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Valid reports whether k is a known reaction kind.
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Like represents a user's like on a post.
// The combination of PostID and UserID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"PostId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user;index" json:"UserId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Dislike mirrors Like in its own table; a user may hold both on one post.
type Dislike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_dislikes_post_user" json:"PostId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_dislikes_post_user;index" json:"UserId"`
	CreatedAt time.Time `json:"createdAt"`
}
