package models

import "time"

// BlogPost is an article published on the site blog.
type BlogPost struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	Slug         string     `gorm:"not null;index" json:"slug"`
	Excerpt      string     `gorm:"type:text;not null" json:"excerpt"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Author       string     `gorm:"not null" json:"author"`
	AuthorAvatar string     `json:"author_avatar,omitempty"`
	Image        string     `json:"image,omitempty"`
	Category     string     `gorm:"not null;index" json:"category"`
	Tags         []string   `gorm:"serializer:json;type:text" json:"tags"`
	Published    bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
