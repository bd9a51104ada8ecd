package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/codefind/pkg/util"
)

// searchJob is one file to search.
type searchJob struct {
	FilePath string
	JobID    int
}

// searchResult holds the matches found in one file.
type searchResult struct {
	FilePath string
	Matches  []Match
	JobID    int
}

// processFunc searches a single file and returns its matches.
type processFunc func(path string) ([]Match, error)

// searchPool fans file jobs out to worker goroutines. Results and
// per-file errors flow back on separate channels; a failed file never
// aborts the pool.
//
// Worker count defaults to the parser pool size so workers never block
// each other waiting for a parser.
type searchPool struct {
	numWorkers int
	jobs       chan searchJob
	results    chan searchResult
	errors     chan FileError
	wg         sync.WaitGroup
	process    processFunc
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// newSearchPool creates a pool whose lifetime is bounded by ctx: when
// the caller's context is cancelled, blocked workers and submitters
// unwind instead of waiting on channels nobody drains. numWorkers 0
// auto-detects from the CPU count, matching the parser pool size.
func newSearchPool(ctx context.Context, numWorkers int, process processFunc, logger *slog.Logger) *searchPool {
	if numWorkers == 0 {
		numWorkers = util.GetOptimalPoolSize()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &searchPool{
		numWorkers: numWorkers,
		jobs:       make(chan searchJob, numWorkers*2),
		results:    make(chan searchResult, numWorkers),
		errors:     make(chan FileError, numWorkers),
		process:    process,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// start spawns the worker goroutines. Must be called before submit.
func (sp *searchPool) start() {
	if !sp.started.CompareAndSwap(false, true) {
		sp.logger.Warn("search pool already started")
		return
	}

	sp.logger.Debug("starting search pool", "workers", sp.numWorkers)

	for i := 0; i < sp.numWorkers; i++ {
		sp.wg.Add(1)
		go sp.worker(i)
	}
}

func (sp *searchPool) worker(id int) {
	defer sp.wg.Done()

	for {
		select {
		case <-sp.ctx.Done():
			return

		case job, ok := <-sp.jobs:
			if !ok {
				return
			}

			matches, err := sp.process(job.FilePath)
			if err != nil {
				sp.jobsFailed.Add(1)
				select {
				case sp.errors <- FileError{FilePath: job.FilePath, Error: err}:
				case <-sp.ctx.Done():
					return
				}
				continue
			}

			sp.jobsProcessed.Add(1)
			select {
			case sp.results <- searchResult{
				FilePath: job.FilePath,
				Matches:  matches,
				JobID:    job.JobID,
			}:
			case <-sp.ctx.Done():
				return
			}
		}
	}
}

// submit enqueues a job. Blocks when the jobs channel is full.
func (sp *searchPool) submit(job searchJob) error {
	if sp.stopped.Load() {
		return fmt.Errorf("search pool is stopped")
	}

	sp.jobsSubmitted.Add(1)

	select {
	case <-sp.ctx.Done():
		return fmt.Errorf("search pool cancelled")
	case sp.jobs <- job:
		return nil
	}
}

// finishSubmitting closes the jobs channel so workers drain and exit.
// Idempotent.
func (sp *searchPool) finishSubmitting() {
	if sp.jobsClosed.CompareAndSwap(false, true) {
		close(sp.jobs)
	}
}

// stop shuts the pool down: closes jobs if still open, waits for
// in-flight work, then closes the result and error channels. Idempotent.
func (sp *searchPool) stop() {
	if !sp.stopped.CompareAndSwap(false, true) {
		return
	}

	if sp.jobsClosed.CompareAndSwap(false, true) {
		close(sp.jobs)
	}

	// Cancel before waiting so workers blocked on an undrained result
	// channel unwind. Stop only runs once the collector has finished,
	// so no counted result is abandoned.
	sp.cancel()
	sp.wg.Wait()

	close(sp.results)
	close(sp.errors)

	sp.logger.Debug("search pool stopped",
		"jobs_submitted", sp.jobsSubmitted.Load(),
		"jobs_processed", sp.jobsProcessed.Load(),
		"jobs_failed", sp.jobsFailed.Load())
}
