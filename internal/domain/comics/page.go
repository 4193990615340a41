package comics

import "time"

// Page rows are appended one at a time during an ingestion run, strictly
// after their owning chapter exists, and never reordered afterwards.
// PageNumber is 1-based and contiguous within one run.
type Page struct {
	ID        string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChapterID string `gorm:"type:uuid;not null;index:idx_pages_chapter_number,priority:1" json:"chapter_id"`

	ImageURL   string `gorm:"column:image_url;not null" json:"image_url"`
	PageNumber int    `gorm:"not null;index:idx_pages_chapter_number,priority:2" json:"page_number"`

	CreatedAt time.Time `json:"created_at"`
}
