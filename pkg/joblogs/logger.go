package joblogs

import (
	"context"
	"runtime/debug"

	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const maxDataValueLen = 1024

// JobLogger writes each message to the process log and to the job's own log
// in the database.
type JobLogger struct {
	jobID   int
	service *Service
	log     logger.Logger
	ctx     context.Context
}

// NewJobLogger creates a JobLogger for a specific job. Its messages carry the
// job_id field in the process log.
func (svc *Service) NewJobLogger(ctx context.Context, jobID int, log logger.Logger) *JobLogger {
	return &JobLogger{
		jobID:   jobID,
		service: svc,
		log:     log.Data(logger.Data{"job_id": jobID}),
		ctx:     ctx,
	}
}

func (l *JobLogger) Info(msg string, data logger.Data) {
	l.log.Info(msg, data)
	l.persist(models.JobLogLevelInfo, msg, data, nil)
}

func (l *JobLogger) Warn(msg string, data logger.Data) {
	l.log.Warn(msg, data)
	l.persist(models.JobLogLevelWarn, msg, data, nil)
}

// Error logs err along with the current stack.
func (l *JobLogger) Error(msg string, err error, data logger.Data) {
	l.log.Err(err).Error(msg, data)
	if data == nil {
		data = logger.Data{}
	}
	if err != nil {
		data["error"] = err.Error()
	}
	stack := string(debug.Stack())
	l.persist(models.JobLogLevelError, msg, data, &stack)
}

// persist is best effort. A job shouldn't fail because its log line couldn't
// be written.
func (l *JobLogger) persist(level, msg string, data logger.Data, stackTrace *string) {
	var dataStr *string
	if len(data) > 0 {
		truncated := make(logger.Data, len(data))
		for k, v := range data {
			if s, ok := v.(string); ok && len(s) > maxDataValueLen {
				truncated[k] = truncateMiddle(s, maxDataValueLen)
			} else {
				truncated[k] = v
			}
		}
		if b, err := json.Marshal(truncated); err == nil {
			s := string(b)
			dataStr = &s
		}
	}

	jobLog := &models.JobLog{
		JobID:      l.jobID,
		Level:      level,
		Message:    msg,
		Data:       dataStr,
		StackTrace: stackTrace,
	}

	if err := l.service.CreateJobLog(l.ctx, jobLog); err != nil {
		l.log.Err(err).Warn("failed to persist job log")
	}
}

func truncateMiddle(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	half := (maxLen - 5) / 2
	return s[:half] + " ... " + s[len(s)-half:]
}
