package comics

import "time"

type Comic struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Title    string `gorm:"not null" json:"title"`
	Author   string `gorm:"not null" json:"author"`
	CoverURL string `gorm:"column:cover_url" json:"cover_url"`

	Chapters []Chapter `gorm:"foreignKey:ComicID;constraint:OnDelete:CASCADE;" json:"chapters,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
