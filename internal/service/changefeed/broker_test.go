package changefeed

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"applytrack/internal/domain/models"
)

func newTestBroker() *Broker {
	return NewBroker(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublishReachesOnlyThatUser(t *testing.T) {
	b := newTestBroker()
	mine, unsubMine := b.Subscribe("u1")
	defer unsubMine()
	theirs, unsubTheirs := b.Subscribe("u2")
	defer unsubTheirs()

	b.Publish("u1", models.ChangeEvent{Type: models.ChangeJobCreated, ID: "j1"})

	select {
	case ev := <-mine:
		if ev.Type != models.ChangeJobCreated || ev.ID != "j1" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event")
	}

	select {
	case ev := <-theirs:
		t.Errorf("other user received %+v", ev)
	default:
	}
}

func TestUnsubscribeClosesAndIsIdempotent(t *testing.T) {
	b := newTestBroker()
	ch, unsubscribe := b.Subscribe("u1")
	if b.Subscribers("u1") != 1 {
		t.Fatalf("Subscribers() = %d, want 1", b.Subscribers("u1"))
	}

	unsubscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	if b.Subscribers("u1") != 0 {
		t.Errorf("Subscribers() = %d, want 0", b.Subscribers("u1"))
	}
	// publishing with no listeners must not panic
	b.Publish("u1", models.ChangeEvent{Type: models.ChangeJobDeleted})
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	b := newTestBroker()
	_, unsubscribe := b.Subscribe("u1")
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < DefaultBufferSize*3; i++ {
			b.Publish("u1", models.ChangeEvent{Type: models.ChangeJobUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a subscriber that never reads")
	}
}
