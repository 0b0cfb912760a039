package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHubNotifyReachesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("g1")
	defer cancel()

	hub.Notify("g1")

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive notification")
	}
}

func TestHubNotifyOtherGroupNotDelivered(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("g1")
	defer cancel()

	hub.Notify("g2")

	select {
	case <-ch:
		t.Fatal("received notification for a different group")
	default:
	}
}

func TestHubNotificationsCoalesce(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("g1")
	defer cancel()

	// Several notifications before the subscriber drains collapse into one
	hub.Notify("g1")
	hub.Notify("g1")
	hub.Notify("g1")

	<-ch
	select {
	case <-ch:
		t.Fatal("coalesced notifications delivered more than once")
	default:
	}
}

func TestHubCancelReleasesSubscription(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("g1")
	assert.Equal(t, 1, hub.SubscriberCount("g1"))

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount("g1"))

	// Notifying with no subscribers must not panic
	hub.Notify("g1")
}

func TestHubMultipleSubscribers(t *testing.T) {
	hub := NewHub()
	ch1, cancel1 := hub.Subscribe("g1")
	ch2, cancel2 := hub.Subscribe("g1")
	defer cancel1()
	defer cancel2()

	hub.Notify("g1")

	for _, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("a subscriber missed the notification")
		}
	}
}
