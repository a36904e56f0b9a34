package models

import "time"

// Comment is a public reply to a published post. The ID is a UUID
// generated by this service at creation time; deletion is admin-only
// and happens outside this service.
type Comment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PostID     uint      `gorm:"index;not null" json:"postId"`
	Content    string    `gorm:"size:500;not null" json:"content"`
	AuthorName string    `gorm:"size:20;not null" json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}
