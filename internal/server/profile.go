package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"apptrack/internal/entity"
	"apptrack/internal/extract"
)

func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.profiles.Load()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) saveProfile(c *gin.Context) {
	var p entity.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	if err := s.profiles.Save(p); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// extractPortfolio turns free-form resume or portfolio text into the
// structured profile. Extracted sections overwrite the stored ones; the
// raw text is kept as portfolio_text for resume grounding.
func (s *Server) extractPortfolio(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Text == "" {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("text is required"))
		return
	}

	res, err := s.extractor.Extract(c.Request.Context(), extract.Request{
		Kind: extract.KindPortfolio,
		Text: body.Text,
	})
	if err != nil {
		s.fail(c, http.StatusBadGateway, err)
		return
	}

	profile, err := s.profiles.Load()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	for k, v := range res.Document {
		profile[k] = v
	}
	profile["portfolio_text"] = body.Text

	if err := s.profiles.Save(profile); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
