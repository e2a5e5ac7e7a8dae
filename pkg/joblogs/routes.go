package joblogs

import (
	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/jobs"
)

// RegisterRoutes registers job log routes on the admin jobs group.
func RegisterRoutes(jobsGroup *echo.Group, jobLogService *Service, jobService *jobs.Service) {
	h := &handler{
		jobLogService: jobLogService,
		jobService:    jobService,
	}

	jobsGroup.GET("/:id/logs", h.listLogs)
}
