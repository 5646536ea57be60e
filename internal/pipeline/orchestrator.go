package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/notedoc/internal/config"
	"github.com/dgallion1/notedoc/internal/parser"
	"github.com/dgallion1/notedoc/internal/stats"
)

var (
	ErrQueueFull = errors.New("import queue is full")
	ErrStopped   = errors.New("import pipeline is stopped")
)

const cleanupInterval = 5 * time.Minute

// Orchestrator owns the job store and a bounded queue drained by a fixed
// pool of workers.
type Orchestrator struct {
	store   *JobStore
	pending chan *Job
	ops     *stats.Ops
	log     *slog.Logger
	cfg     config.Config

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewOrchestrator(cfg config.Config, ops *stats.Ops, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:   NewJobStore(cfg.JobTTL),
		pending: make(chan *Job, cfg.MaxQueueSize),
		ops:     ops,
		log:     log,
		cfg:     cfg,
	}
}

// Start launches the workers and the expired-job sweeper. They run until
// ctx is cancelled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, o.cancel = context.WithCancel(ctx)

	opts := parser.Options{PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext}
	o.wg.Add(o.cfg.WorkerCount + 1)
	for i := 0; i < o.cfg.WorkerCount; i++ {
		go o.runWorker(ctx, i, NewWorker(o.store, o.ops, o.log, opts))
	}
	go o.sweep(ctx)
}

func (o *Orchestrator) runWorker(ctx context.Context, id int, w *Worker) {
	defer o.wg.Done()
	o.log.Debug("import worker started", "worker", id)
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-o.pending:
			w.Process(ctx, job)
		}
	}
}

func (o *Orchestrator) sweep(ctx context.Context) {
	defer o.wg.Done()
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before := o.store.Len()
			o.store.Cleanup()
			if removed := before - o.store.Len(); removed > 0 {
				o.log.Debug("expired import jobs removed", "count", removed)
			}
		}
	}
}

// Stop cancels the workers and waits for in-flight jobs to return. Jobs
// still queued are left as they are; later Submits fail with ErrStopped.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.stopped = true
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit registers job and queues it. A full queue fails the job
// immediately so pollers see a terminal status.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return ErrStopped
	}

	o.store.Put(job)
	select {
	case o.pending <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

func (o *Orchestrator) GetJob(id string) *Job {
	return o.store.Get(id)
}

// QueueDepth reports how many jobs are waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.pending)
}
