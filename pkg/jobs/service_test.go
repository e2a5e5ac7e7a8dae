package jobs

import (
	"context"
	"testing"

	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/testutils"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutils.SetupDB(t))
}

func TestCreateAndRetrieveJob(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	job := &models.Job{
		Type:       models.JobTypeFetchWikipedia,
		DataParsed: &models.JobFetchWikipediaData{Num: pointerutil.Int(5)},
	}
	require.NoError(t, svc.CreateJob(ctx, job))
	assert.Equal(t, models.JobStatusPending, job.Status)
	assert.JSONEq(t, `{"num":5}`, job.Data)

	got, err := svc.RetrieveJob(ctx, RetrieveJobOptions{ID: &job.ID})
	require.NoError(t, err)
	data, ok := got.DataParsed.(*models.JobFetchWikipediaData)
	require.True(t, ok)
	assert.Equal(t, 5, *data.Num)

	rebuild := &models.Job{Type: models.JobTypeRebuildSearchIndex}
	require.NoError(t, svc.CreateJob(ctx, rebuild))
	assert.Equal(t, "{}", rebuild.Data)

	_, err = svc.RetrieveJob(ctx, RetrieveJobOptions{ID: pointerutil.Int(9999)})
	assert.Equal(t, errcodes.NotFound("Job"), err)
}

func TestHasActiveJobByType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		jobType  string
		status   string
		expected bool
	}{
		{"pending", models.JobTypeFetchWikipedia, models.JobStatusPending, true},
		{"in progress", models.JobTypeFetchWikipedia, models.JobStatusInProgress, true},
		{"completed", models.JobTypeFetchWikipedia, models.JobStatusCompleted, false},
		{"failed", models.JobTypeFetchWikipedia, models.JobStatusFailed, false},
		{"different type", models.JobTypeRebuildSearchIndex, models.JobStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			ctx := context.Background()

			require.NoError(t, svc.CreateJob(ctx, &models.Job{Type: tt.jobType, Status: tt.status}))

			hasActive, err := svc.HasActiveJobByType(ctx, models.JobTypeFetchWikipedia)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hasActive)
		})
	}
}

func TestListJobs(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	first := &models.Job{Type: models.JobTypeFetchWikipedia}
	require.NoError(t, svc.CreateJob(ctx, first))
	claimed := &models.Job{Type: models.JobTypeRebuildSearchIndex, Status: models.JobStatusInProgress, ProcessID: pointerutil.String("abc")}
	require.NoError(t, svc.CreateJob(ctx, claimed))
	done := &models.Job{Type: models.JobTypeFetchWikipedia, Status: models.JobStatusCompleted}
	require.NoError(t, svc.CreateJob(ctx, done))

	jobs, total, err := svc.ListJobsWithTotal(ctx, ListJobsOptions{Latest: true})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, done.ID, jobs[0].ID)

	jobs, err = svc.ListJobs(ctx, ListJobsOptions{
		Statuses:           []string{models.JobStatusPending, models.JobStatusInProgress},
		ProcessIDToExclude: pointerutil.String("abc"),
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, first.ID, jobs[0].ID)

	jobs, err = svc.ListJobs(ctx, ListJobsOptions{Type: pointerutil.String(models.JobTypeRebuildSearchIndex)})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, claimed.ID, jobs[0].ID)
}

func TestUpdateJob(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	job := &models.Job{Type: models.JobTypeRebuildSearchIndex}
	require.NoError(t, svc.CreateJob(ctx, job))

	job.Status = models.JobStatusCompleted
	job.Result = pointerutil.String(`{"topic":1}`)
	require.NoError(t, svc.UpdateJob(ctx, job, UpdateJobOptions{Columns: []string{"status", "result"}}))

	got, err := svc.RetrieveJob(ctx, RetrieveJobOptions{ID: &job.ID})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	assert.Equal(t, `{"topic":1}`, *got.Result)

	missing := &models.Job{ID: 9999}
	assert.Equal(t, errcodes.NotFound("Job"), svc.UpdateJob(ctx, missing, UpdateJobOptions{Columns: []string{"status"}}))
}
