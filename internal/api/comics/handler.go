package comics

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"comic-shelf-app/database"
	domain "comic-shelf-app/internal/domain/comics"
	"comic-shelf-app/internal/infra/blob"
	"comic-shelf-app/internal/ingest"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ------------------------------
// Public reads
// ------------------------------

func ListComics(c *gin.Context) {
	var list []domain.Comic
	err := database.DB.Order("created_at DESC").Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comics": list})
}

func GetComic(c *gin.Context) {
	var comic domain.Comic
	err := database.DB.First(&comic, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comic not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comic"})
		return
	}
	c.JSON(http.StatusOK, comic)
}

// ListChapters returns the comic's chapters in reading order. An empty
// list is a legitimate state ("no chapters yet"), not an error.
func ListChapters(c *gin.Context) {
	comicID := c.Param("id")

	var comic domain.Comic
	err := database.DB.First(&comic, "id = ?", comicID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comic not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comic"})
		return
	}

	var chapters []domain.Chapter
	if err := comicChaptersQuery(database.DB, comicID).Find(&chapters).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chapters"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comic_id": comicID, "chapters": chapters})
}

// ListPages returns the chapter's page URLs in reading order. A chapter
// with zero pages (a halted ingestion run, or one still in progress)
// returns an empty list.
func ListPages(c *gin.Context) {
	chapterID := c.Param("id")

	var chapter domain.Chapter
	err := database.DB.First(&chapter, "id = ?", chapterID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chapter"})
		return
	}

	var pages []domain.Page
	if err := chapterPagesQuery(database.DB, chapterID).Find(&pages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pages"})
		return
	}

	out := ChapterPagesDTO{ChapterID: chapterID, Pages: make([]string, 0, len(pages))}
	for _, p := range pages {
		out.Pages = append(out.Pages, p.ImageURL)
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// Admin writes
// ------------------------------

// CreateComic handles the single-step create form: title, author and a
// cover image uploaded in one multipart request.
func CreateComic(blobs *blob.Client, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.PostForm("title")
		author := c.PostForm("author")
		if title == "" || author == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and author are required"})
			return
		}

		fh, err := c.FormFile("cover")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cover image is required"})
			return
		}
		data, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read cover upload"})
			return
		}

		res, err := blobs.Put(c.Request.Context(), fh.Filename, data, blob.PutOptions{
			AllowRename: true,
			ContentType: fh.Header.Get("Content-Type"),
		})
		if err != nil {
			log.Error("cover upload failed", "filename", fh.Filename, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload cover"})
			return
		}

		comic := domain.Comic{Title: title, Author: author, CoverURL: res.URL}
		if err := database.DB.Create(&comic).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comic"})
			return
		}
		c.JSON(http.StatusCreated, comic)
	}
}

// UploadChapter runs one ingestion: the multipart batch under "pages"
// becomes one new chapter of the comic. Files arrive unordered; the
// pipeline sorts them and numbers pages from its loop index.
func UploadChapter(pipeline *ingest.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		comicID := c.Param("id")

		var comic domain.Comic
		err := database.DB.First(&comic, "id = ?", comicID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comic not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comic"})
			return
		}

		title := c.PostForm("title")
		chapterNumber, _ := strconv.ParseFloat(c.PostForm("chapter_number"), 64)

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return
		}

		files := make([]ingest.NamedBlob, 0, len(form.File["pages"]))
		for _, fh := range form.File["pages"] {
			data, err := readUpload(fh)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload " + fh.Filename})
				return
			}
			files = append(files, ingest.NamedBlob{Name: fh.Filename, Data: data})
		}

		res, err := pipeline.Ingest(c.Request.Context(), comicID, title, chapterNumber, files)

		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		if err != nil && res == nil {
			// Chapter insert itself failed; nothing was persisted.
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, IngestReportDTO{
				ChapterID: res.ChapterID,
				Persisted: res.Persisted,
				Total:     res.Total,
				Error:     res.Err.Error(),
			})
			return
		}

		c.JSON(http.StatusCreated, IngestReportDTO{
			ChapterID: res.ChapterID,
			Persisted: res.Persisted,
			Total:     res.Total,
		})
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
