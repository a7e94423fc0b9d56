package models

import "time"

// Comment is a short reply attached to a post.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommentBody string    `gorm:"type:text;not null" json:"commentBody"`
	Username    string    `gorm:"size:15;not null" json:"username"`
	UserID      uint      `gorm:"not null;index" json:"UserId"`
	PostID      uint      `gorm:"not null;index" json:"PostId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
