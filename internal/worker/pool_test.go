package worker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
)

type recordingRetagger struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (r *recordingRetagger) RetagByID(ctx context.Context, songID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, songID)
	return r.err
}

func (r *recordingRetagger) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func TestPool_ProcessesAllJobs(t *testing.T) {
	retagger := &recordingRetagger{}
	pool := NewPool(retagger, 10)
	pool.Start(2)

	for _, id := range []string{"s1", "s2", "s3"} {
		if !pool.Submit(Job{SongID: id}) {
			t.Fatalf("job %s dropped with free queue capacity", id)
		}
	}
	pool.Stop()

	got := retagger.seen()
	sort.Strings(got)
	if len(got) != 3 || got[0] != "s1" || got[1] != "s2" || got[2] != "s3" {
		t.Fatalf("processed %v, want all three", got)
	}
}

func TestPool_FullQueueDropsJob(t *testing.T) {
	// no workers started: the queue fills
	pool := NewPool(&recordingRetagger{}, 1)

	if !pool.Submit(Job{SongID: "s1"}) {
		t.Fatal("first submit must be accepted")
	}
	if pool.Submit(Job{SongID: "s2"}) {
		t.Fatal("submit on a full queue must report a drop")
	}
}

func TestPool_FailedJobDoesNotStopWorkers(t *testing.T) {
	retagger := &recordingRetagger{err: errors.New("retag failed")}
	pool := NewPool(retagger, 10)
	pool.Start(1)

	pool.Submit(Job{SongID: "s1"})
	pool.Submit(Job{SongID: "s2"})
	pool.Stop()

	if got := retagger.seen(); len(got) != 2 {
		t.Fatalf("processed %v, want both despite errors", got)
	}
}
