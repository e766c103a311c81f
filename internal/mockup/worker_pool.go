package mockup

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/toteworks/mockup-renderer/pkg/models"
)

// renderJob is one compositing request queued for a worker. It carries
// the submitting caller's context so a worker stops compositing for a
// caller that has already gone away.
type renderJob struct {
	ctx    context.Context
	req    *models.RenderRequest
	tier   models.Tier
	result chan *jobResult
}

// jobResult carries the outcome of a render job back to the submitter.
type jobResult struct {
	res *models.RenderResult
	err error
}

// WorkerPool bounds the number of composites in flight. Image codecs are
// CPU-bound; letting every request run one keeps memory and scheduling
// behavior sane under load while requests still run in parallel up to the
// worker count.
type WorkerPool struct {
	workers    int
	jobQueue   chan *renderJob
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	compositor *Compositor
	logger     *zap.Logger
}

// NewWorkerPool creates a pool with the given worker count.
func NewWorkerPool(workers int, compositor *Compositor, logger *zap.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 4
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workers:    workers,
		jobQueue:   make(chan *renderJob, workers*2),
		ctx:        ctx,
		cancel:     cancel,
		compositor: compositor,
		logger:     logger,
	}
}

// Start launches all worker goroutines.
func (wp *WorkerPool) Start() {
	wp.logger.Info("Starting render worker pool",
		zap.Int("workers", wp.workers),
		zap.Int("queue_size", cap(wp.jobQueue)))

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop gracefully shuts down the worker pool.
func (wp *WorkerPool) Stop() {
	wp.logger.Info("Stopping render worker pool")
	wp.cancel()
	close(wp.jobQueue)
	wp.wg.Wait()
	wp.logger.Info("Render worker pool stopped")
}

// Submit queues a render and blocks until a worker finishes it or ctx is
// done.
func (wp *WorkerPool) Submit(ctx context.Context, req *models.RenderRequest, tier models.Tier) (*models.RenderResult, error) {
	resultChan := make(chan *jobResult, 1)

	job := &renderJob{
		ctx:    ctx,
		req:    req,
		tier:   tier,
		result: resultChan,
	}

	select {
	case wp.jobQueue <- job:
		// Job submitted
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-wp.ctx.Done():
		return nil, fmt.Errorf("worker pool is shutting down")
	}

	select {
	case result := <-resultChan:
		return result.res, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-wp.ctx.Done():
		return nil, fmt.Errorf("worker pool is shutting down")
	}
}

// worker is the main loop for a single worker.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	wp.logger.Debug("Render worker started", zap.Int("worker_id", id))

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				wp.logger.Debug("Render worker stopping (queue closed)", zap.Int("worker_id", id))
				return
			}
			wp.processJob(id, job)
		case <-wp.ctx.Done():
			wp.logger.Debug("Render worker stopping (context cancelled)", zap.Int("worker_id", id))
			return
		}
	}
}

// processJob handles a single render job.
func (wp *WorkerPool) processJob(workerID int, job *renderJob) {
	res, err := wp.compositor.Compose(job.ctx, job.req, job.tier)

	job.result <- &jobResult{res: res, err: err}
	close(job.result)

	if err != nil {
		wp.logger.Debug("Worker completed job with error",
			zap.Int("worker_id", workerID),
			zap.String("tier", job.tier.String()),
			zap.Error(err))
	} else {
		wp.logger.Debug("Worker completed job",
			zap.Int("worker_id", workerID),
			zap.String("tier", job.tier.String()))
	}
}
