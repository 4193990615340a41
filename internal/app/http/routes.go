package routes

import (
	"log/slog"

	"comic-shelf-app/config"
	"comic-shelf-app/database"
	authapi "comic-shelf-app/internal/api/auth"
	comicsapi "comic-shelf-app/internal/api/comics"
	"comic-shelf-app/internal/api/readersession"
	"comic-shelf-app/internal/app/http/middleware"
	"comic-shelf-app/internal/infra/blob"
	"comic-shelf-app/internal/ingest"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, log *slog.Logger) {
	blobClient := blob.NewClient(config.BLOB_BASE_URL, config.BLOB_TOKEN)
	pipeline := ingest.NewPipeline(
		blob.Uploader{Client: blobClient},
		&ingest.GormStore{DB: database.DB},
		log,
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public reads
	r.GET("/comics", comicsapi.ListComics)
	r.GET("/comics/:id", comicsapi.GetComic)
	r.GET("/comics/:id/chapters", comicsapi.ListChapters)
	r.GET("/chapters/:id/pages", comicsapi.ListPages)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.POST("/login", authapi.Login)

	// Reader sessions (public, read-only traversal)
	readerHandler := readersession.NewHandler(&readersession.GormSource{DB: database.DB})
	sessions := r.Group("/reader")
	sessions.POST("/sessions", readerHandler.CreateSession)
	sessions.GET("/sessions/:id", readerHandler.GetSession)
	sessions.POST("/sessions/:id/next", readerHandler.NextChapter)
	sessions.POST("/sessions/:id/prev", readerHandler.PrevChapter)
	sessions.POST("/sessions/:id/chapter", readerHandler.SelectChapter)

	// Admin routes (cookie gate; handlers trust the gate and do no
	// checks of their own)
	admin := r.Group("/admin")
	admin.Use(middleware.AdminCookieMiddleware())
	admin.POST("/comics", comicsapi.CreateComic(blobClient, log))
	admin.POST("/comics/:id/chapters", comicsapi.UploadChapter(pipeline))
}
