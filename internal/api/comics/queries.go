package comics

import (
	domain "comic-shelf-app/internal/domain/comics"

	"gorm.io/gorm"
)

func comicChaptersQuery(db *gorm.DB, comicID string) *gorm.DB {
	return db.Model(&domain.Chapter{}).
		Where("comic_id = ?", comicID).
		Order("chapter_number ASC")
}

func chapterPagesQuery(db *gorm.DB, chapterID string) *gorm.DB {
	return db.Model(&domain.Page{}).
		Where("chapter_id = ?", chapterID).
		Order("page_number ASC")
}
