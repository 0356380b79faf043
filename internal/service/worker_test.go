package service

import (
	"testing"

	"go.uber.org/zap"
)

func TestWorker_EnqueueAfterStop(t *testing.T) {
	w := NewWorker(nil, 1, zap.NewNop())
	w.Stop()

	if w.Enqueue(Job{Kind: JobScoreUser, UserID: "u1"}) {
		t.Fatalf("enqueue should fail after stop")
	}
}

func TestWorker_EnqueueFullQueueDropsJob(t *testing.T) {
	w := NewWorker(nil, 1, zap.NewNop())
	// Sin Start no hay consumidores, asi que la cola se llena.
	for i := 0; i < 100; i++ {
		if !w.Enqueue(Job{Kind: JobProcessSource, SourceID: "s"}) {
			t.Fatalf("queue filled earlier than expected at %d", i)
		}
	}
	if w.Enqueue(Job{Kind: JobProcessSource, SourceID: "overflow"}) {
		t.Fatalf("enqueue on full queue should drop")
	}
	w.Stop()
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	w := NewWorker(nil, 2, zap.NewNop())
	w.Stop()
	w.Stop()
}
