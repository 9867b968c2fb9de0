// Package worker provides background processing for library-wide re-tag
// jobs.
package worker

import (
	"context"
	"log"
	"sync"
)

// Retagger re-resolves and rewrites metadata for one song by id.
type Retagger interface {
	RetagByID(ctx context.Context, songID string) error
}

// Job represents one background re-tag task.
type Job struct {
	SongID string
}

// Pool manages background workers for async jobs.
type Pool struct {
	retagger Retagger
	jobs     chan Job
	wg       sync.WaitGroup
}

// NewPool creates a worker pool with the given queue size.
func NewPool(retagger Retagger, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{retagger: retagger, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking; a full queue drops the job.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		log.Printf("WARN worker: dropping retag job for %s", job.SongID)
		return false
	}
}

func (p *Pool) processJob(job Job) {
	if err := p.retagger.RetagByID(context.Background(), job.SongID); err != nil {
		log.Printf("WARN worker: retag of %s failed: %v", job.SongID, err)
		return
	}
	log.Printf("worker: retagged %s", job.SongID)
}
