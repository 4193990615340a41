package readersession

import (
	"context"

	domain "comic-shelf-app/internal/domain/comics"

	"gorm.io/gorm"
)

// GormSource answers the navigator's queries from the record store, both
// already in display order.
type GormSource struct {
	DB *gorm.DB
}

func (s *GormSource) ChaptersByWork(ctx context.Context, comicID string) ([]domain.Chapter, error) {
	var chapters []domain.Chapter
	err := s.DB.WithContext(ctx).
		Where("comic_id = ?", comicID).
		Order("chapter_number ASC").
		Find(&chapters).Error
	return chapters, err
}

func (s *GormSource) PagesByChapter(ctx context.Context, chapterID string) ([]string, error) {
	var pages []domain.Page
	err := s.DB.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("page_number ASC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(pages))
	for _, p := range pages {
		urls = append(urls, p.ImageURL)
	}
	return urls, nil
}
