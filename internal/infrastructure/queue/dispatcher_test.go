package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gcredit/registration-api/internal/core/domain"
)

type stubAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
	block  chan struct{}
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *stubAuditRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDispatcher_WritesRecordedEvents(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for _, id := range []string{"acc-1", "acc-2", "acc-3"} {
		d.Record(domain.AuditEvent{Action: domain.AuditActionRegistered, AccountID: id})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == 3 })
}

func TestDispatcher_PreservesPerAccountOrder(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 50; i++ {
		d.Record(domain.AuditEvent{AccountID: "acc-1", OccurredAt: time.Unix(int64(i), 0)})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == 50 })
	events := repo.snapshot()
	for i := 1; i < len(events); i++ {
		if events[i].OccurredAt.Before(events[i-1].OccurredAt) {
			t.Fatalf("events out of order at %d", i)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &stubAuditRepo{}, zerolog.Nop())
	first := d.shardIndex("acc-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("acc-42"); got != first {
			t.Fatalf("shard changed: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	// Not started: nothing consumes, so the buffer fills and Record must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(domain.AuditEvent{AccountID: "acc-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full queue")
	}
	if n := len(d.workers[0]); n != channelBuffer {
		t.Fatalf("expected full buffer of %d, got %d", channelBuffer, n)
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	repo := &stubAuditRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 0; i < 5; i++ {
		d.Record(domain.AuditEvent{AccountID: "acc-1"})
	}
	cancel()
	close(repo.block)
	d.Wait()

	if got := len(repo.snapshot()); got != 5 {
		t.Fatalf("expected 5 events flushed, got %d", got)
	}
}

func TestDispatcher_WriteFailureIsNotFatal(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("store down")}
	d := NewDispatcher(1, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.Record(domain.AuditEvent{AccountID: "acc-1"})
	cancel()
	d.Wait()

	if len(repo.snapshot()) != 0 {
		t.Fatalf("failed writes must not be stored")
	}
}
