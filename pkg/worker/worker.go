// Package worker runs queued background jobs and schedules the recurring
// Wikipedia refresh.
package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/encyclopedia"
	"github.com/pepysdiary/pepysdiary/pkg/joblogs"
	"github.com/pepysdiary/pepysdiary/pkg/jobs"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

const (
	defaultPollInterval = 5 * time.Second
	jobLogRetention     = 30 * 24 * time.Hour
)

// TopicFetcher refreshes encyclopedia topics from Wikipedia.
type TopicFetcher interface {
	FetchWikipediaTexts(ctx context.Context, opts encyclopedia.FetchWikipediaOptions) (*encyclopedia.FetchWikipediaResult, error)
}

// IndexRebuilder repopulates the search index.
type IndexRebuilder interface {
	RebuildAll(ctx context.Context) (map[string]int, error)
}

type processFunc func(ctx context.Context, job *models.Job, log *joblogs.JobLogger) (interface{}, error)

type Worker struct {
	config       *config.Config
	log          logger.Logger
	processID    string
	processes    int
	pollInterval time.Duration

	processFuncs map[string]processFunc

	jobService    *jobs.Service
	jobLogService *joblogs.Service
	topics        TopicFetcher
	index         IndexRebuilder

	queue          chan *models.Job
	shutdown       chan struct{}
	doneFetching   chan struct{}
	doneScheduling chan struct{}
	doneProcessing chan struct{}
}

func New(cfg *config.Config, db *bun.DB, topics TopicFetcher, index IndexRebuilder) *Worker {
	processes := cfg.WorkerProcesses
	if processes < 1 {
		processes = 1
	}

	w := &Worker{
		config:       cfg,
		log:          logger.New(),
		processID:    uuid.New().String(),
		processes:    processes,
		pollInterval: defaultPollInterval,

		jobService:    jobs.NewService(db),
		jobLogService: joblogs.NewService(db),
		topics:        topics,
		index:         index,

		queue:          make(chan *models.Job, processes),
		shutdown:       make(chan struct{}),
		doneFetching:   make(chan struct{}),
		doneScheduling: make(chan struct{}),
		doneProcessing: make(chan struct{}, processes),
	}

	w.processFuncs = map[string]processFunc{
		models.JobTypeFetchWikipedia:     w.processFetchWikipediaJob,
		models.JobTypeRebuildSearchIndex: w.processRebuildSearchIndexJob,
	}

	return w
}

func (w *Worker) Start() {
	w.pruneJobLogs(context.Background())
	go w.fetchJobs()
	go w.scheduleJobs()
	for i := 0; i < w.processes; i++ {
		go w.processJobs()
	}
}

// fetchJobs claims one waiting job per poll and hands it to the processors.
// Jobs left in progress by an earlier process are picked up again.
func (w *Worker) fetchJobs() {
	timer := time.NewTimer(w.pollInterval)
	defer timer.Stop()

	for {
		select {
		case <-w.shutdown:
			// We're shutting down, so stop adding more jobs to the queue.
			w.doneFetching <- struct{}{}
			return
		case <-timer.C:
			ctx := context.Background()
			j, err := w.jobService.ListJobs(ctx, jobs.ListJobsOptions{
				Limit:              pointerutil.Int(1),
				Statuses:           []string{models.JobStatusPending, models.JobStatusInProgress},
				ProcessIDToExclude: &w.processID,
			})
			if err != nil {
				w.log.Err(err).Error("list jobs error")
				timer.Reset(w.pollInterval)
				continue
			}
			for _, job := range j {
				// Claim the job before queueing it so the next poll skips it.
				job.Status = models.JobStatusInProgress
				job.ProcessID = &w.processID
				if err := w.jobService.UpdateJob(ctx, job, jobs.UpdateJobOptions{Columns: []string{"status", "process_id"}}); err != nil {
					w.log.Err(err).Error("update job error", logger.Data{"job_id": job.ID})
					continue
				}
				select {
				case w.queue <- job:
				case <-w.shutdown:
					w.doneFetching <- struct{}{}
					return
				}
			}
			timer.Reset(w.pollInterval)
		}
	}
}

// pruneJobLogs drops log lines older than jobLogRetention.
func (w *Worker) pruneJobLogs(ctx context.Context) {
	n, err := w.jobLogService.DeleteJobLogsBefore(ctx, time.Now().UTC().Add(-jobLogRetention))
	if err != nil {
		w.log.Err(err).Error("prune job logs error")
		return
	}
	if n > 0 {
		w.log.Info("pruned job logs", logger.Data{"count": n})
	}
}

// scheduleJobs enqueues a Wikipedia refresh every wikipedia_fetch_interval.
// A zero interval turns the schedule off.
func (w *Worker) scheduleJobs() {
	interval := w.config.WikipediaFetchInterval
	if interval <= 0 {
		<-w.shutdown
		w.doneScheduling <- struct{}{}
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			w.doneScheduling <- struct{}{}
			return
		case <-ticker.C:
			if _, err := w.EnqueueWikipediaFetch(context.Background()); err != nil {
				w.log.Err(err).Error("schedule wikipedia fetch error")
			}
		}
	}
}

// EnqueueWikipediaFetch adds a job refreshing wikipedia_fetch_batch topics.
// Nothing is added while another fetch is pending or running, and the
// returned job is nil in that case.
func (w *Worker) EnqueueWikipediaFetch(ctx context.Context) (*models.Job, error) {
	active, err := w.jobService.HasActiveJobByType(ctx, models.JobTypeFetchWikipedia)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if active {
		return nil, nil
	}

	job := &models.Job{
		Type:       models.JobTypeFetchWikipedia,
		Status:     models.JobStatusPending,
		DataParsed: &models.JobFetchWikipediaData{Num: pointerutil.Int(w.config.WikipediaFetchBatch)},
	}
	if err := w.jobService.CreateJob(ctx, job); err != nil {
		return nil, errors.WithStack(err)
	}
	return job, nil
}

func (w *Worker) processJobs() {
	for {
		select {
		case <-w.shutdown:
			w.doneProcessing <- struct{}{}
			return
		case job := <-w.queue:
			w.run(job)
		}
	}
}

// run processes a claimed job and records how it ended.
func (w *Worker) run(job *models.Job) {
	// Prep the context to be passed down to the process function.
	log := w.log.ID(uuid.New().String()).Root(logger.Data{"job_id": job.ID, "type": job.Type, "process_id": w.processID})
	ctx := log.WithContext(context.Background())
	jobLog := w.jobLogService.NewJobLogger(ctx, job.ID, log)

	result, err := w.process(ctx, job, jobLog)
	if err != nil {
		jobLog.Error("job failed", err, nil)
		job.Status = models.JobStatusFailed
		msg := err.Error()
		job.Result = &msg
	} else {
		job.Status = models.JobStatusCompleted
		if result != nil {
			b, err := json.Marshal(result)
			if err != nil {
				log.Err(err).Error("marshal job result error")
			} else {
				s := string(b)
				job.Result = &s
			}
		}
	}

	// Record the outcome so that the job isn't picked up again.
	if err := w.jobService.UpdateJob(ctx, job, jobs.UpdateJobOptions{Columns: []string{"status", "result"}}); err != nil {
		log.Err(err).Error("update job error")
	}
}

func (w *Worker) process(ctx context.Context, job *models.Job, jobLog *joblogs.JobLogger) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	// Find and invoke the appropriate process function.
	fn, ok := w.processFuncs[job.Type]
	if !ok {
		return nil, errors.Errorf("no process function for job type %q", job.Type)
	}
	if job.DataParsed == nil {
		if err := job.UnmarshalData(); err != nil {
			return nil, err
		}
	}
	return fn(ctx, job, jobLog)
}

func (w *Worker) processFetchWikipediaJob(ctx context.Context, job *models.Job, log *joblogs.JobLogger) (interface{}, error) {
	data, ok := job.DataParsed.(*models.JobFetchWikipediaData)
	if !ok {
		return nil, errors.Errorf("unexpected data %T for fetch_wikipedia job", job.DataParsed)
	}

	log.Info("fetching wikipedia texts", logger.Data{"topic_ids": data.TopicIDs, "num": data.Num, "all": data.All})
	result, err := w.topics.FetchWikipediaTexts(ctx, encyclopedia.FetchWikipediaOptions{
		TopicIDs: data.TopicIDs,
		Num:      data.Num,
		All:      data.All,
	})
	if err != nil {
		return nil, err
	}

	if len(result.Failure) > 0 {
		log.Warn("some wikipedia fetches failed", logger.Data{"topic_ids": result.Failure})
	}
	log.Info("fetched wikipedia texts", logger.Data{"success": len(result.Success), "failure": len(result.Failure)})
	return result, nil
}

func (w *Worker) processRebuildSearchIndexJob(ctx context.Context, _ *models.Job, log *joblogs.JobLogger) (interface{}, error) {
	log.Info("rebuilding search index", nil)
	counts, err := w.index.RebuildAll(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("rebuilt search index", logger.Data{"counts": counts})
	return counts, nil
}

func (w *Worker) Shutdown() {
	close(w.shutdown)

	<-w.doneFetching
	<-w.doneScheduling
	for i := 0; i < w.processes; i++ {
		<-w.doneProcessing
	}
}
