package models

import "time"

// Post states. Only published posts are visible through this API; drafts
// stay with the admin service until it flips the state.
const (
	StatePublished = "published"
	StateDraft     = "draft"
)

// Post is a blog article. Rows are created, updated and deleted by the
// external admin service; this service only reads them and increments
// the views counter.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Summary   string    `gorm:"size:512" json:"summary"`
	State     string    `gorm:"size:16;index;default:'draft'" json:"state"`
	Views     uint64    `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
