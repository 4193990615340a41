package ingest

import (
	"context"
	"log/slog"

	"comic-shelf-app/internal/domain/comics"
)

// BlobStore is the write side of the object store. Implementations must
// request a collision-avoiding storage name so identically named uploads
// never overwrite each other.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) (url string, err error)
}

// Store is the slice of the record store the pipeline writes to.
type Store interface {
	CreateChapter(ctx context.Context, ch *comics.Chapter) error
	CreatePage(ctx context.Context, p *comics.Page) error
}

// ChapterResult reports one ingestion run. On partial failure Persisted is
// the count of pages that made it into the record store and Err is the
// triggering error; the chapter and those pages remain visible as a short
// chapter.
type ChapterResult struct {
	ChapterID string
	Total     int
	Persisted int
	Err       error
}

type Pipeline struct {
	blobs BlobStore
	store Store
	log   *slog.Logger
}

func NewPipeline(blobs BlobStore, store Store, log *slog.Logger) *Pipeline {
	return &Pipeline{blobs: blobs, store: store, log: log}
}

// Ingest creates one chapter of comicID from an unordered upload batch.
//
// The chapter record is created first because it is a foreign-key
// prerequisite for every page. Files are then processed strictly
// sequentially in sorted order, so the loop index is the single source of
// PageNumber. The first failed upload or insert halts the run at that
// index; nothing is rolled back and already-written blobs are left in
// place (they are inert, addressed by generated name).
func (p *Pipeline) Ingest(ctx context.Context, comicID, chapterTitle string, chapterNumber float64, files []NamedBlob) (*ChapterResult, error) {
	if comicID == "" {
		return nil, &ValidationError{Field: "comic_id", Reason: "no comic selected"}
	}
	if chapterTitle == "" {
		return nil, &ValidationError{Field: "title", Reason: "required"}
	}
	if chapterNumber <= 0 {
		return nil, &ValidationError{Field: "chapter_number", Reason: "must be positive"}
	}
	if len(files) == 0 {
		return nil, &ValidationError{Field: "pages", Reason: "empty file batch"}
	}

	ordered := Order(files)

	ch := &comics.Chapter{
		ComicID:       comicID,
		Title:         chapterTitle,
		ChapterNumber: chapterNumber,
	}
	if err := p.store.CreateChapter(ctx, ch); err != nil {
		return nil, &PersistError{Op: "create chapter", Err: err}
	}

	p.log.Info("chapter created", "chapter_id", ch.ID, "comic_id", comicID, "pages", len(ordered))

	res := &ChapterResult{ChapterID: ch.ID, Total: len(ordered)}
	for i, f := range ordered {
		url, err := p.blobs.Put(ctx, f.Name, f.Data)
		if err != nil {
			res.Err = &UploadError{Index: i, Name: f.Name, Err: err}
			p.log.Error("ingestion halted", "chapter_id", ch.ID, "persisted", res.Persisted, "total", res.Total, "error", res.Err)
			return res, res.Err
		}

		page := &comics.Page{
			ChapterID:  ch.ID,
			ImageURL:   url,
			PageNumber: i + 1,
		}
		if err := p.store.CreatePage(ctx, page); err != nil {
			res.Err = &PersistError{Op: "create page", Err: err}
			p.log.Error("ingestion halted", "chapter_id", ch.ID, "persisted", res.Persisted, "total", res.Total, "error", res.Err)
			return res, res.Err
		}
		res.Persisted = i + 1
	}

	p.log.Info("chapter ingested", "chapter_id", ch.ID, "pages", res.Persisted)
	return res, nil
}
