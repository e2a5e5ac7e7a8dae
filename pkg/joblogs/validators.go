package joblogs

import (
	"github.com/pepysdiary/pepysdiary/pkg/models"
)

type ListJobLogsQuery struct {
	AfterID *int     `query:"after_id" json:"after_id,omitempty" validate:"omitempty,min=0"`
	Level   []string `query:"level" json:"level,omitempty" validate:"dive,oneof=info warn error"`
	Limit   int      `query:"limit" json:"limit,omitempty" default:"500" validate:"min=1,max=5000"`
}

// ListJobLogsResponse carries the job alongside its lines so a log viewer can
// stop polling once the job has finished.
type ListJobLogsResponse struct {
	Job  *models.Job      `json:"job"`
	Logs []*models.JobLog `json:"logs"`
}
