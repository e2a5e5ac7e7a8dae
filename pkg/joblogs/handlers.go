package joblogs

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/jobs"
	"github.com/pkg/errors"
)

type handler struct {
	jobLogService *Service
	jobService    *jobs.Service
}

func (h *handler) listLogs(c echo.Context) error {
	ctx := c.Request().Context()

	jobID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Job")
	}

	params := ListJobLogsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	job, err := h.jobService.RetrieveJob(ctx, jobs.RetrieveJobOptions{ID: &jobID})
	if err != nil {
		return errors.WithStack(err)
	}

	lines, err := h.jobLogService.ListJobLogs(ctx, ListJobLogsOptions{
		JobID:   job.ID,
		AfterID: params.AfterID,
		Levels:  params.Level,
		Limit:   &params.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &ListJobLogsResponse{Job: job, Logs: lines}))
}
