package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) syncEmails(c *gin.Context) {
	if s.newIngest == nil {
		s.fail(c, http.StatusServiceUnavailable, fmt.Errorf("email sync not configured; set EMAIL_ADDRESS and EMAIL_APP_PASSWORD"))
		return
	}
	svc, closer, err := s.newIngest(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusBadGateway, err)
		return
	}
	defer closer()

	sum, err := svc.SyncInbox(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) listEmails(c *gin.Context) {
	if s.newIngest == nil {
		s.fail(c, http.StatusServiceUnavailable, fmt.Errorf("email sync not configured; set EMAIL_ADDRESS and EMAIL_APP_PASSWORD"))
		return
	}
	svc, closer, err := s.newIngest(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusBadGateway, err)
		return
	}
	defer closer()

	previews, err := svc.ListEmails(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"emails": previews, "count": len(previews)})
}

func (s *Server) processEmail(c *gin.Context) {
	if s.newIngest == nil {
		s.fail(c, http.StatusServiceUnavailable, fmt.Errorf("email sync not configured; set EMAIL_ADDRESS and EMAIL_APP_PASSWORD"))
		return
	}
	uid64, err := strconv.ParseUint(c.Param("uid"), 10, 32)
	if err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid uid"))
		return
	}

	svc, closer, err := s.newIngest(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusBadGateway, err)
		return
	}
	defer closer()

	decision, err := svc.ProcessSingle(c.Request.Context(), uint32(uid64))
	if err != nil {
		s.fail(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"action":         decision.Action,
		"application_id": decision.Target,
		"reason":         decision.Reason,
	})
}
