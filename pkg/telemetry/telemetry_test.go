package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()
	require.NotNil(t, hub)
	assert.NotNil(t, hub.subscribers)
	assert.Equal(t, DefaultSubscriberBuffer, hub.buffer)
	assert.False(t, hub.closed)
}

func TestHub_PublishSubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsub := hub.Subscribe()
	defer unsub()

	hub.Publish(Event{Type: EventFrameDrawn, SessionID: "s", Frame: 3})

	select {
	case received := <-ch:
		assert.Equal(t, EventFrameDrawn, received.Type)
		assert.Equal(t, uint64(3), received.Frame)
		assert.False(t, received.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestHub_MultipleSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch1, unsub1 := hub.Subscribe()
	defer unsub1()
	ch2, unsub2 := hub.Subscribe()
	defer unsub2()
	assert.Equal(t, 2, hub.Subscribers())

	hub.Publish(Event{Type: EventResized})

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventResized, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed event")
		}
	}
}

func TestHub_DropsWhenFull(t *testing.T) {
	hub := NewHubWithBuffer(1)
	defer hub.Close()

	ch, unsub := hub.Subscribe()
	defer unsub()

	hub.Publish(Event{Type: EventFrameDrawn, Frame: 1})
	hub.Publish(Event{Type: EventFrameDrawn, Frame: 2})

	ev := <-ch
	assert.Equal(t, uint64(1), ev.Frame)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event %v", extra)
	default:
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsub := hub.Subscribe()
	unsub()
	unsub()

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
	assert.Zero(t, hub.Subscribers())
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	ch, _ := hub.Subscribe()

	hub.Close()
	hub.Close()
	hub.Publish(Event{Type: EventDisplayClosed})

	_, ok := <-ch
	assert.False(t, ok)

	late, unsub := hub.Subscribe()
	unsub()
	_, ok = <-late
	assert.False(t, ok, "subscribing after close yields a closed channel")
}

func TestHub_NilPublish(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() { hub.Publish(Event{Type: EventCleared}) })
}

func TestHub_ConcurrentPublish(t *testing.T) {
	hub := NewHubWithBuffer(1000)
	defer hub.Close()
	ch, unsub := hub.Subscribe()
	defer unsub()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				hub.Publish(Event{Type: EventFrameDrawn})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, ch, 100)
}
