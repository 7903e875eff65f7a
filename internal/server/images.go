package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"apptrack/constants"
	"apptrack/internal/entity"
	"apptrack/internal/extract"
)

// uploadImage ingests a job posting screenshot: the file is saved
// first, then sent through vision extraction. When no vision model is
// installed the upload still produces a record with placeholder fields
// so the artifact is not lost, and the response carries the
// remediation steps.
func (s *Server) uploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("missing file: %w", err))
		return
	}

	ext := constants.NormalizeExt(filepath.Ext(file.Filename))
	if !constants.IsAllowedImage(ext) {
		s.fail(c, http.StatusBadRequest,
			fmt.Errorf("unsupported image type %q; allowed: jpg, jpeg, png, gif, webp", ext))
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		s.fail(c, http.StatusInternalServerError, fmt.Errorf("create upload dir: %w", err))
		return
	}
	savedName := uuid.New().String() + "." + ext
	savedPath := filepath.Join(s.uploadDir, savedName)
	if err := c.SaveUploadedFile(file, savedPath); err != nil {
		s.fail(c, http.StatusInternalServerError, fmt.Errorf("save upload: %w", err))
		return
	}

	data, err := os.ReadFile(savedPath)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	res, err := s.extractor.Extract(c.Request.Context(), extract.Request{
		Kind:  extract.KindImage,
		Image: data,
	})

	now := time.Now().UTC()
	app := &entity.Application{
		CompanyName: constants.UnknownCompany,
		Position:    constants.UnspecifiedPosition,
		AppliedDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Status:      string(constants.StatusPending),
		Source:      strPtr(constants.SourceImage),
		ImagePath:   strPtr(savedPath),
	}

	warning := ""
	switch {
	case err == nil:
		f := res.Fields
		if f.CompanyName != nil {
			app.CompanyName = *f.CompanyName
		}
		if f.Position != nil {
			app.Position = *f.Position
		}
		app.Location = f.Location
		app.JobURL = f.JobURL
		app.ContactEmail = f.ContactEmail
		app.SalaryRange = f.SalaryRange
		app.Notes = f.Notes
	case extract.IsKind(err, extract.KindCapabilityUnavailable):
		var ee *extract.Error
		if errors.As(err, &ee) {
			warning = ee.Remediation
			app.Notes = strPtr(ee.Remediation)
		}
	default:
		// Extraction failed outright; remove the orphaned file.
		_ = os.Remove(savedPath)
		s.fail(c, http.StatusBadGateway, err)
		return
	}

	if err := s.apps.Create(c.Request.Context(), app); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	resp := gin.H{"application": app, "image_path": savedPath}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusCreated, resp)
}
