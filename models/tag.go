package models

import "time"

// Tag labels posts through the post_tags join table. PostCount is a
// denormalized counter maintained by database triggers on post_tags;
// this service never writes it.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	PostCount int       `gorm:"not null;default:0" json:"postCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostTag is the many-to-many join between posts and tags. It has no
// identity of its own and is never exposed to clients.
type PostTag struct {
	PostID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}

// TableName keeps the join table name aligned with the trigger definitions.
func (PostTag) TableName() string {
	return "post_tags"
}
