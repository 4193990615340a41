package ingest

import (
	"context"

	"comic-shelf-app/internal/domain/comics"

	"gorm.io/gorm"
)

// GormStore backs the pipeline with the shared gorm connection.
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) CreateChapter(ctx context.Context, ch *comics.Chapter) error {
	return s.DB.WithContext(ctx).Create(ch).Error
}

func (s *GormStore) CreatePage(ctx context.Context, p *comics.Page) error {
	return s.DB.WithContext(ctx).Create(p).Error
}
