package events

import (
	"testing"
	"time"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Publish(EventContactAdded, MutationData{ID: 7})

	for _, sub := range []<-chan Event{a, b} {
		select {
		case e := <-sub:
			if e.Type != EventContactAdded {
				t.Errorf("type = %v, want contact_added", e.Type)
			}
			data, ok := e.Data.(MutationData)
			if !ok || data.ID != 7 {
				t.Errorf("data = %+v", e.Data)
			}
			if e.Timestamp.IsZero() {
				t.Error("timestamp not set")
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestBus_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewBus()
	bus.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		// Overflow the subscriber buffer; publishes must drop, not block.
		for i := 0; i < 200; i++ {
			bus.PublishLog("info", "message")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic or block.
	bus.Publish(EventExported, TransferData{Path: "x.csv", Count: 3})
}

func TestEventType_String(t *testing.T) {
	tests := []struct {
		t    EventType
		want string
	}{
		{EventContactAdded, "contact_added"},
		{EventContactUpdated, "contact_updated"},
		{EventContactsDeleted, "contacts_deleted"},
		{EventImported, "imported"},
		{EventExported, "exported"},
		{EventLog, "log"},
		{EventType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.t), got, tt.want)
		}
	}
}
