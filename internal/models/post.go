package models

import "time"

// Post represents a travel post. JSON field names follow the web client's contract.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	PostText  string    `gorm:"type:text;not null" json:"postText"`
	Username  string    `gorm:"size:15;not null" json:"username"`
	ImageURL  *string   `gorm:"size:512" json:"imageUrl"`
	UserID    uint      `gorm:"not null;index" json:"UserId"`
	Likes     []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"Likes"`
	Dislikes  []Dislike `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"Dislikes"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EnsureReactions replaces nil reaction slices with empty ones so clients
// can always read .Likes.length.
func (p *Post) EnsureReactions() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Dislikes == nil {
		p.Dislikes = []Dislike{}
	}
}
