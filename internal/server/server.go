package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"apptrack/internal/common"
	"apptrack/internal/export"
	"apptrack/internal/extract"
	"apptrack/internal/ingest"
	"apptrack/internal/repository"
	"apptrack/internal/resume"
)

// IngestFactory opens a mailbox-backed ingest service on demand. IMAP
// sessions are per-request: providers drop idle connections, so a
// long-lived session buys nothing. The returned closer tears the
// session down.
type IngestFactory func(ctx context.Context) (*ingest.Service, func(), error)

// Server wires the HTTP API over the application services.
type Server struct {
	cfg       common.ServerConfig
	apps      *repository.ApplicationRepository
	profiles  *repository.ProfileStore
	extractor *extract.Extractor
	builder   *resume.Builder
	exporter  *export.Service
	newIngest IngestFactory
	uploadDir string
	resumeDir string
	logger    *slog.Logger
}

type Deps struct {
	Apps      *repository.ApplicationRepository
	Profiles  *repository.ProfileStore
	Extractor *extract.Extractor
	Builder   *resume.Builder
	Exporter  *export.Service
	NewIngest IngestFactory
	UploadDir string
	ResumeDir string
}

func New(cfg common.ServerConfig, d Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		apps:      d.Apps,
		profiles:  d.Profiles,
		extractor: d.Extractor,
		builder:   d.Builder,
		exporter:  d.Exporter,
		newIngest: d.NewIngest,
		uploadDir: d.UploadDir,
		resumeDir: d.ResumeDir,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if s.cfg.AuthUsername != "" && s.cfg.AuthPassword != "" {
		api.Use(gin.BasicAuth(gin.Accounts{s.cfg.AuthUsername: s.cfg.AuthPassword}))
	}

	api.GET("/applications", s.listApplications)
	api.POST("/applications", s.createApplication)
	api.GET("/applications/:id", s.getApplication)
	api.PUT("/applications/:id", s.updateApplication)
	api.DELETE("/applications/:id", s.deleteApplication)
	api.POST("/applications/upload-image", s.uploadImage)
	api.GET("/stats", s.getStats)

	api.POST("/emails/sync", s.syncEmails)
	api.GET("/emails", s.listEmails)
	api.POST("/emails/:uid/process", s.processEmail)

	api.GET("/profile", s.getProfile)
	api.POST("/profile", s.saveProfile)
	api.POST("/profile/portfolio", s.extractPortfolio)

	api.POST("/resume/generate", s.generateResume)

	api.GET("/export", s.exportApplications)

	r.Static("/uploads", s.uploadDir)
	r.Static("/resumes", s.resumeDir)

	return r
}

// requestLogger attaches a request id and logs one line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := uuid.New().String()
		c.Set("req_id", rid)
		c.Header("X-Request-ID", rid)
		start := time.Now()

		c.Next()

		s.logger.Info("http.request",
			"req_id", rid,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

// fail writes a JSON error, mapping known error kinds to status codes.
func (s *Server) fail(c *gin.Context, status int, err error) {
	rid, _ := c.Get("req_id")
	s.logger.Error("http.error",
		"req_id", rid,
		"path", c.FullPath(),
		"status", status,
		"error", err,
	)
	c.JSON(status, gin.H{"error": err.Error()})
}
