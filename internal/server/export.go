package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"apptrack/constants"
)

func (s *Server) exportApplications(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !constants.IsValidStatus(status) {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", status))
		return
	}

	data, err := s.exporter.ExportApplicationsXLSX(c.Request.Context(), status)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	name := fmt.Sprintf("applications_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
