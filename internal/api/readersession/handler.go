package readersession

import (
	"errors"
	"net/http"
	"time"

	"comic-shelf-app/database"
	domain "comic-shelf-app/internal/domain/comics"
	"comic-shelf-app/internal/reader"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionTTL = 30 * time.Minute

// Handler exposes reader sessions over HTTP. Each session owns one
// navigator; every endpoint below is one event of the traversal protocol.
type Handler struct {
	registry *Registry
	source   reader.Source
}

func NewHandler(source reader.Source) *Handler {
	return &Handler{
		registry: NewRegistry(sessionTTL),
		source:   source,
	}
}

type ChapterMetaDTO struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	ChapterNumber float64 `json:"chapter_number"`
}

// SnapshotDTO is the session state a reading client renders from. Pages is
// null while no chapter is selected and empty (not null) for a chapter
// with no pages yet, so "no chapters", "empty chapter", "loading" and
// "failed" all look different.
type SnapshotDTO struct {
	SessionID    string          `json:"session_id"`
	State        string          `json:"state"`
	Error        string          `json:"error,omitempty"`
	ChapterCount int             `json:"chapter_count"`
	ChapterIndex int             `json:"chapter_index"`
	Chapter      *ChapterMetaDTO `json:"chapter,omitempty"`
	Pages        []string        `json:"pages"`
	PageCount    int             `json:"page_count"`
	ScrollReset  bool            `json:"scroll_reset,omitempty"`
	Notice       string          `json:"notice,omitempty"`
}

// CreateSession opens a comic for reading: the navigator loads the chapter
// list and, when there is one, the first chapter's pages.
func (h *Handler) CreateSession(c *gin.Context) {
	var input struct {
		ComicID string `json:"comic_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var comic domain.Comic
	err := database.DB.First(&comic, "id = ?", input.ComicID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comic not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comic"})
		return
	}

	s := &session{nav: reader.New(h.source)}
	s.nav.OnChapterChange = func(int) { s.scrollReset = true }

	s.mu.Lock()
	defer s.mu.Unlock()

	// A failed open still gets a session: re-opening it is the reader's
	// recovery path and the Failed snapshot carries the error.
	_ = s.nav.OpenWork(c.Request.Context(), input.ComicID)

	id := h.registry.add(s)
	c.JSON(http.StatusCreated, h.snapshotLocked(id, s, ""))
}

func (h *Handler) GetSession(c *gin.Context) {
	h.withSession(c, func(id string, s *session) {
		c.JSON(http.StatusOK, h.snapshotLocked(id, s, ""))
	})
}

func (h *Handler) NextChapter(c *gin.Context) {
	h.withSession(c, func(id string, s *session) {
		err := s.nav.Next(c.Request.Context())
		h.respondEvent(c, id, s, err)
	})
}

func (h *Handler) PrevChapter(c *gin.Context) {
	h.withSession(c, func(id string, s *session) {
		err := s.nav.Prev(c.Request.Context())
		h.respondEvent(c, id, s, err)
	})
}

func (h *Handler) SelectChapter(c *gin.Context) {
	var input struct {
		Index *int `json:"index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.withSession(c, func(id string, s *session) {
		err := s.nav.SelectChapter(c.Request.Context(), *input.Index)
		if errors.Is(err, reader.ErrChapterOutOfRange) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.respondEvent(c, id, s, err)
	})
}

func (h *Handler) withSession(c *gin.Context, fn func(id string, s *session)) {
	id := c.Param("id")
	s, ok := h.registry.get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fn(id, s)
}

// respondEvent maps a navigator event result onto HTTP. Boundary notices
// are not errors: the snapshot is unchanged and the notice rides along.
func (h *Handler) respondEvent(c *gin.Context, id string, s *session, err error) {
	switch {
	case errors.Is(err, reader.ErrAtFirstChapter), errors.Is(err, reader.ErrAtLastChapter):
		c.JSON(http.StatusOK, h.snapshotLocked(id, s, err.Error()))
	case errors.Is(err, reader.ErrChapterOutOfRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		// Fetch failures land the navigator in Failed; the snapshot
		// carries the error and re-selecting a chapter recovers.
		c.JSON(http.StatusOK, h.snapshotLocked(id, s, ""))
	}
}

func (h *Handler) snapshotLocked(id string, s *session, notice string) SnapshotDTO {
	nav := s.nav

	out := SnapshotDTO{
		SessionID:    id,
		State:        nav.State().String(),
		ChapterCount: nav.ChapterCount(),
		ChapterIndex: nav.CurrentIndex(),
		Notice:       notice,
	}
	if err := nav.Err(); err != nil {
		out.Error = err.Error()
	}
	if ch, ok := nav.CurrentChapter(); ok {
		out.Chapter = &ChapterMetaDTO{
			ID:            ch.ID,
			Title:         ch.Title,
			ChapterNumber: ch.ChapterNumber,
		}
		out.Pages = nav.Pages()
		if out.Pages == nil && nav.State() == reader.PagesReady {
			out.Pages = []string{}
		}
		out.PageCount = len(out.Pages)
	}
	if s.scrollReset {
		out.ScrollReset = true
		s.scrollReset = false
	}
	return out
}
