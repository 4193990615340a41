package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"comic-shelf-app/internal/domain/comics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlobStore serves uploads from memory and can be told to fail at a
// given call index.
type fakeBlobStore struct {
	ops    *[]string
	calls  int
	failAt int // 0-based call index to fail at; -1 = never
}

func (f *fakeBlobStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	idx := f.calls
	f.calls++
	if f.failAt >= 0 && idx == f.failAt {
		return "", errors.New("blob store unavailable")
	}
	*f.ops = append(*f.ops, "put:"+name)
	return "https://blob.test/" + name, nil
}

type fakeStore struct {
	ops        *[]string
	chapters   []*comics.Chapter
	pages      []*comics.Page
	failPageAt int // 0-based insert index to fail at; -1 = never
}

func (f *fakeStore) CreateChapter(ctx context.Context, ch *comics.Chapter) error {
	ch.ID = fmt.Sprintf("chapter-%d", len(f.chapters)+1)
	f.chapters = append(f.chapters, ch)
	*f.ops = append(*f.ops, "chapter")
	return nil
}

func (f *fakeStore) CreatePage(ctx context.Context, p *comics.Page) error {
	if f.failPageAt >= 0 && len(f.pages) == f.failPageAt {
		return errors.New("insert rejected")
	}
	f.pages = append(f.pages, p)
	*f.ops = append(*f.ops, fmt.Sprintf("page:%d", p.PageNumber))
	return nil
}

func newTestPipeline(failUploadAt, failPageAt int) (*Pipeline, *fakeBlobStore, *fakeStore) {
	ops := []string{}
	blobs := &fakeBlobStore{ops: &ops, failAt: failUploadAt}
	store := &fakeStore{ops: &ops, failPageAt: failPageAt}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPipeline(blobs, store, log), blobs, store
}

func TestIngest_Validation(t *testing.T) {
	p, _, store := newTestPipeline(-1, -1)

	cases := []struct {
		name  string
		run   func() (*ChapterResult, error)
		field string
	}{
		{"no comic", func() (*ChapterResult, error) {
			return p.Ingest(context.Background(), "", "Ch 1", 1, batch("a1.jpg"))
		}, "comic_id"},
		{"no title", func() (*ChapterResult, error) {
			return p.Ingest(context.Background(), "comic-1", "", 1, batch("a1.jpg"))
		}, "title"},
		{"bad number", func() (*ChapterResult, error) {
			return p.Ingest(context.Background(), "comic-1", "Ch 1", 0, batch("a1.jpg"))
		}, "chapter_number"},
		{"empty batch", func() (*ChapterResult, error) {
			return p.Ingest(context.Background(), "comic-1", "Ch 1", 1, nil)
		}, "pages"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.run()
			assert.Nil(t, res)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	// Validation happens before any remote call.
	assert.Empty(t, store.chapters)
	assert.Empty(t, store.pages)
}

func TestIngest_FullSuccess(t *testing.T) {
	p, _, store := newTestPipeline(-1, -1)

	res, err := p.Ingest(context.Background(), "comic-1", "Chapter 1", 1,
		batch("page2.jpg", "page10.jpg", "page1.jpg"))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Persisted)
	assert.Equal(t, "chapter-1", res.ChapterID)

	require.Len(t, store.chapters, 1)
	assert.Equal(t, "comic-1", store.chapters[0].ComicID)
	assert.Equal(t, "Chapter 1", store.chapters[0].Title)
	assert.Equal(t, 1.0, store.chapters[0].ChapterNumber)

	// Page numbers are exactly {1..N} and map to the sorted order.
	require.Len(t, store.pages, 3)
	wantURLs := []string{
		"https://blob.test/page1.jpg",
		"https://blob.test/page2.jpg",
		"https://blob.test/page10.jpg",
	}
	for i, page := range store.pages {
		assert.Equal(t, i+1, page.PageNumber)
		assert.Equal(t, wantURLs[i], page.ImageURL)
		assert.Equal(t, "chapter-1", page.ChapterID)
	}
}

func TestIngest_ChapterBeforeUploadsAndStrictlySequential(t *testing.T) {
	p, blobs, store := newTestPipeline(-1, -1)

	_, err := p.Ingest(context.Background(), "comic-1", "Ch", 2,
		batch("p1.jpg", "p2.jpg", "p3.jpg"))
	require.NoError(t, err)

	// The chapter insert completes before any upload begins, and every
	// upload's page insert completes before the next upload starts.
	assert.Equal(t, []string{
		"chapter",
		"put:p1.jpg", "page:1",
		"put:p2.jpg", "page:2",
		"put:p3.jpg", "page:3",
	}, *blobs.ops)
	assert.Len(t, store.pages, 3)
}

func TestIngest_UploadFailureHaltsAtIndex(t *testing.T) {
	p, blobs, store := newTestPipeline(2, -1)

	res, err := p.Ingest(context.Background(), "comic-1", "Ch", 1,
		batch("p1.jpg", "p2.jpg", "p3.jpg", "p4.jpg"))

	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, 2, uerr.Index)
	assert.Equal(t, "p3.jpg", uerr.Name)

	require.NotNil(t, res)
	assert.Equal(t, 2, res.Persisted)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, "chapter-1", res.ChapterID)

	// Exactly the pages before the failure index were persisted; the run
	// never reached later files.
	require.Len(t, store.pages, 2)
	assert.Equal(t, 3, blobs.calls)

	// Chapter and partial pages stay: no rollback.
	assert.Len(t, store.chapters, 1)
}

func TestIngest_PageInsertFailureHalts(t *testing.T) {
	p, _, store := newTestPipeline(-1, 1)

	res, err := p.Ingest(context.Background(), "comic-1", "Ch", 1,
		batch("p1.jpg", "p2.jpg", "p3.jpg"))

	var perr *PersistError
	require.ErrorAs(t, err, &perr)

	require.NotNil(t, res)
	assert.Equal(t, 1, res.Persisted)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, store.pages, 1)
}

func TestIngest_SingleFile(t *testing.T) {
	p, _, store := newTestPipeline(-1, -1)

	res, err := p.Ingest(context.Background(), "comic-1", "One-shot", 1, batch("only.png"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Persisted)
	require.Len(t, store.pages, 1)
	assert.Equal(t, 1, store.pages[0].PageNumber)
}
