package reader

import (
	"context"
	"errors"
	"sort"

	"comic-shelf-app/internal/domain/comics"
)

// State is the navigator's explicit position in the traversal protocol.
// Loading flags and the data they guard live in one value and only change
// through the defined events, so they cannot desync.
type State int

const (
	Uninitialized State = iota
	ChaptersLoading
	ChaptersReady
	PagesLoading
	PagesReady
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case ChaptersLoading:
		return "chapters_loading"
	case ChaptersReady:
		return "chapters_ready"
	case PagesLoading:
		return "pages_loading"
	case PagesReady:
		return "pages_ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Boundary notices. Next/Prev at the edge of the chapter list change
// nothing and report these instead.
var (
	ErrAtFirstChapter = errors.New("already at the first chapter")
	ErrAtLastChapter  = errors.New("already at the last chapter")
)

// ErrChapterOutOfRange rejects a SelectChapter index outside
// [0, chapter count); the navigator state is untouched.
var ErrChapterOutOfRange = errors.New("chapter index out of range")

// Source is what the navigator reads from. Both queries return results in
// display order (ascending chapter number / page number).
type Source interface {
	ChaptersByWork(ctx context.Context, comicID string) ([]comics.Chapter, error)
	PagesByChapter(ctx context.Context, chapterID string) ([]string, error)
}

// Navigator drives one reader's traversal of a comic: chapters in
// ascending number order, pages of the current chapter in ascending page
// order. It is not safe for concurrent use; each reading session owns one.
type Navigator struct {
	src Source

	state    State
	err      error
	chapters []comics.Chapter
	current  int // -1 until a chapter is selected
	pages    []string

	// fetchSeq is the latest issued page-fetch token. A response carrying
	// an older token was superseded by a later chapter change and is
	// discarded, so request-issue order never has to match response
	// arrival order.
	fetchSeq uint64

	// OnChapterChange, if set, runs after every successful chapter switch.
	// The HTTP layer uses it to reset the reader's scroll position.
	OnChapterChange func(index int)
}

func New(src Source) *Navigator {
	return &Navigator{src: src, current: -1}
}

func (n *Navigator) State() State               { return n.state }
func (n *Navigator) Err() error                 { return n.err }
func (n *Navigator) Chapters() []comics.Chapter { return n.chapters }
func (n *Navigator) ChapterCount() int          { return len(n.chapters) }
func (n *Navigator) CurrentIndex() int          { return n.current }
func (n *Navigator) Pages() []string            { return n.pages }

// CurrentChapter returns the selected chapter, if any. The second return
// is false for a comic with no chapters.
func (n *Navigator) CurrentChapter() (comics.Chapter, bool) {
	if n.current < 0 || n.current >= len(n.chapters) {
		return comics.Chapter{}, false
	}
	return n.chapters[n.current], true
}

// OpenWork loads the chapter list of comicID and, when it is non-empty,
// selects chapter 0 and loads its pages. A comic with zero chapters lands
// in ChaptersReady with no current chapter and no page fetch is issued.
func (n *Navigator) OpenWork(ctx context.Context, comicID string) error {
	n.state = ChaptersLoading
	n.err = nil
	n.chapters = nil
	n.current = -1
	n.pages = nil

	chs, err := n.src.ChaptersByWork(ctx, comicID)
	if err != nil {
		return n.fail(err)
	}
	sort.SliceStable(chs, func(i, j int) bool {
		return chs[i].ChapterNumber < chs[j].ChapterNumber
	})

	n.chapters = chs
	n.state = ChaptersReady
	if len(chs) == 0 {
		return nil
	}

	n.current = 0
	n.notifyChapterChange()
	return n.loadPages(ctx)
}

// SelectChapter jumps to the chapter at index.
func (n *Navigator) SelectChapter(ctx context.Context, index int) error {
	if index < 0 || index >= len(n.chapters) {
		return ErrChapterOutOfRange
	}
	n.current = index
	n.notifyChapterChange()
	return n.loadPages(ctx)
}

// Next advances to the following chapter. At the last chapter it is a
// no-op reporting ErrAtLastChapter.
func (n *Navigator) Next(ctx context.Context) error {
	if n.current < 0 {
		return ErrChapterOutOfRange
	}
	if n.current >= len(n.chapters)-1 {
		return ErrAtLastChapter
	}
	n.current++
	n.notifyChapterChange()
	return n.loadPages(ctx)
}

// Prev moves back one chapter. At the first chapter it is a no-op
// reporting ErrAtFirstChapter.
func (n *Navigator) Prev(ctx context.Context) error {
	if n.current < 0 {
		return ErrChapterOutOfRange
	}
	if n.current == 0 {
		return ErrAtFirstChapter
	}
	n.current--
	n.notifyChapterChange()
	return n.loadPages(ctx)
}

// BeginPageLoad clears the displayed pages (the previous chapter's content
// must never show under the new chapter's heading), enters PagesLoading
// and issues a fresh fetch token. Callers fetching asynchronously hand the
// token back to CompletePageLoad.
func (n *Navigator) BeginPageLoad() uint64 {
	n.fetchSeq++
	n.pages = nil
	n.state = PagesLoading
	return n.fetchSeq
}

// CompletePageLoad applies a page-fetch response. A response whose token is
// not the latest issued one belongs to a superseded chapter change and is
// discarded; the return reports whether the response was applied.
func (n *Navigator) CompletePageLoad(token uint64, pages []string, err error) bool {
	if token != n.fetchSeq {
		return false
	}
	if err != nil {
		n.fail(err)
		return true
	}
	n.pages = pages
	n.state = PagesReady
	n.err = nil
	return true
}

func (n *Navigator) loadPages(ctx context.Context) error {
	token := n.BeginPageLoad()
	pages, err := n.src.PagesByChapter(ctx, n.chapters[n.current].ID)
	n.CompletePageLoad(token, pages, err)
	return err
}

func (n *Navigator) notifyChapterChange() {
	if n.OnChapterChange != nil {
		n.OnChapterChange(n.current)
	}
}

func (n *Navigator) fail(err error) error {
	n.state = Failed
	n.err = err
	return err
}
