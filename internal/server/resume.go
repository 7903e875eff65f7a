package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"apptrack/internal/common"
)

func (s *Server) generateResume(c *gin.Context) {
	var body struct {
		JobDescription string `json:"job_description"`
		Company        string `json:"company"`
		ApplicationID  uint   `json:"application_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.JobDescription == "" {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("job_description is required"))
		return
	}

	company := body.Company
	if body.ApplicationID > 0 && company == "" {
		app, err := s.apps.GetByID(c.Request.Context(), body.ApplicationID)
		if errors.Is(err, common.ErrNotFound) {
			s.fail(c, http.StatusNotFound, fmt.Errorf("application %d not found", body.ApplicationID))
			return
		}
		if err != nil {
			s.fail(c, http.StatusInternalServerError, err)
			return
		}
		company = app.CompanyName
	}

	gen, err := s.builder.Generate(c.Request.Context(), body.JobDescription, company, body.ApplicationID)
	if err != nil {
		s.fail(c, http.StatusBadGateway, err)
		return
	}

	if body.ApplicationID > 0 {
		if _, err := s.apps.Update(c.Request.Context(), body.ApplicationID,
			map[string]any{"resume_path": gen.Path}); err != nil && !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn("resume.link_failed",
				"application_id", body.ApplicationID, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"file_name": gen.FileName,
		"path":      gen.Path,
		"url":       "/resumes/" + gen.FileName,
		"resume":    gen.Resume,
	})
}
