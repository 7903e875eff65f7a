package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"apptrack/constants"
	"apptrack/internal/common"
	"apptrack/internal/entity"
	"apptrack/internal/repository"
)

// applicationPayload is the create/update request body. Dates arrive as
// strings in the same layouts the extraction pipeline accepts.
type applicationPayload struct {
	CompanyName     *string `json:"company_name"`
	Position        *string `json:"position"`
	AppliedDate     *string `json:"applied_date"`
	Status          *string `json:"status"`
	InterviewDate   *string `json:"interview_date"`
	RejectionDate   *string `json:"rejection_date"`
	RejectionReason *string `json:"rejection_reason"`
	Notes           *string `json:"notes"`
	JobURL          *string `json:"job_url"`
	ContactEmail    *string `json:"contact_email"`
	Location        *string `json:"location"`
	SalaryRange     *string `json:"salary_range"`
}

func (s *Server) listApplications(c *gin.Context) {
	filter := repository.ListFilter{
		Status: c.Query("status"),
		Limit:  intQuery(c, "limit", 100),
		Offset: intQuery(c, "offset", 0),
	}
	if filter.Status != "" && !constants.IsValidStatus(filter.Status) {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", filter.Status))
		return
	}

	apps, total, err := s.apps.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"total":        total,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})
}

func (s *Server) getApplication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return
	}
	app, err := s.apps.GetByID(c.Request.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		s.fail(c, http.StatusNotFound, fmt.Errorf("application %d not found", id))
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) createApplication(c *gin.Context) {
	var p applicationPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	if p.CompanyName == nil || *p.CompanyName == "" {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("company_name is required"))
		return
	}
	if p.Position == nil || *p.Position == "" {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("position is required"))
		return
	}

	app := &entity.Application{
		CompanyName: *p.CompanyName,
		Position:    *p.Position,
		Status:      string(constants.StatusPending),
		Source:      strPtr(constants.SourceManual),
	}
	if p.Status != nil {
		app.Status = string(constants.NormalizeStatus(*p.Status))
	}
	if p.AppliedDate != nil {
		t, err := parseDate(*p.AppliedDate)
		if err != nil {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("applied_date: %w", err))
			return
		}
		app.AppliedDate = t
	} else {
		now := time.Now().UTC()
		app.AppliedDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if p.InterviewDate != nil {
		t, err := parseDate(*p.InterviewDate)
		if err != nil {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("interview_date: %w", err))
			return
		}
		app.InterviewDate = &t
	}
	if p.RejectionDate != nil {
		t, err := parseDate(*p.RejectionDate)
		if err != nil {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("rejection_date: %w", err))
			return
		}
		app.RejectionDate = &t
	}
	app.RejectionReason = p.RejectionReason
	app.Notes = p.Notes
	app.JobURL = p.JobURL
	app.ContactEmail = p.ContactEmail
	app.Location = p.Location
	app.SalaryRange = p.SalaryRange

	if err := s.apps.Create(c.Request.Context(), app); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (s *Server) updateApplication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return
	}
	var p applicationPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	values := map[string]any{}
	if p.CompanyName != nil {
		values["company_name"] = *p.CompanyName
	}
	if p.Position != nil {
		values["position"] = *p.Position
	}
	if p.Status != nil {
		if !constants.IsValidStatus(*p.Status) {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", *p.Status))
			return
		}
		values["status"] = *p.Status
	}
	for key, raw := range map[string]*string{
		"applied_date":   p.AppliedDate,
		"interview_date": p.InterviewDate,
		"rejection_date": p.RejectionDate,
	} {
		if raw == nil {
			continue
		}
		if *raw == "" {
			values[key] = nil
			continue
		}
		t, err := parseDate(*raw)
		if err != nil {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("%s: %w", key, err))
			return
		}
		values[key] = t
	}
	if p.RejectionReason != nil {
		values["rejection_reason"] = *p.RejectionReason
	}
	if p.Notes != nil {
		values["notes"] = *p.Notes
	}
	if p.JobURL != nil {
		values["job_url"] = *p.JobURL
	}
	if p.ContactEmail != nil {
		values["contact_email"] = *p.ContactEmail
	}
	if p.Location != nil {
		values["location"] = *p.Location
	}
	if p.SalaryRange != nil {
		values["salary_range"] = *p.SalaryRange
	}

	app, err := s.apps.Update(c.Request.Context(), id, values)
	if errors.Is(err, common.ErrNotFound) {
		s.fail(c, http.StatusNotFound, fmt.Errorf("application %d not found", id))
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) deleteApplication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return
	}
	err := s.apps.Delete(c.Request.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		s.fail(c, http.StatusNotFound, fmt.Errorf("application %d not found", id))
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.apps.GetStats(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// parseDate accepts the two date layouts used across the system.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or YYYY-MM-DD HH:MM, got %q", s)
}

func strPtr(s string) *string { return &s }
