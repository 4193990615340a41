package comics

import "time"

// Chapter is fixed at creation: the ingestion pipeline writes it once and
// never updates it. ChapterNumber is a float so half-chapters (12.5) and
// specials sort where readers expect them; numbers need not be unique or
// contiguous, display order is ascending.
type Chapter struct {
	ID      string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ComicID string `gorm:"type:uuid;not null;index" json:"comic_id"`

	Title         string  `gorm:"not null" json:"title"`
	ChapterNumber float64 `gorm:"not null;index" json:"chapter_number"`

	Pages []Page `gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE;" json:"pages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
