package event

import "testing"

func TestNotifierPublishSubscribe(t *testing.T) {
	n := NewNotifier()

	var got []any
	n.Subscribe(TopicExpansionCompleted, func(payload any) {
		got = append(got, payload)
	})

	n.Publish(TopicExpansionCompleted, Usage{Trigger: "sig", Domain: "example.com"})
	n.Publish(TopicAdvisory, Advisory{Kind: AdvisoryNothingToUndo})

	if len(got) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(got))
	}
	u, ok := got[0].(Usage)
	if !ok {
		t.Fatalf("payload type = %T, want Usage", got[0])
	}
	if u.Trigger != "sig" || u.Domain != "example.com" {
		t.Errorf("usage = %+v", u)
	}
}

func TestNotifierMultipleObservers(t *testing.T) {
	n := NewNotifier()

	count := 0
	n.Subscribe(TopicAdvisory, func(any) { count++ })
	n.Subscribe(TopicAdvisory, func(any) { count++ })

	n.Publish(TopicAdvisory, Advisory{})

	if count != 2 {
		t.Errorf("deliveries = %d, want 2", count)
	}
}

func TestNotifierUnsubscribe(t *testing.T) {
	n := NewNotifier()

	count := 0
	sub := n.Subscribe(TopicAdvisory, func(any) { count++ })

	n.Publish(TopicAdvisory, Advisory{})
	sub.Unsubscribe()
	n.Publish(TopicAdvisory, Advisory{})

	if count != 1 {
		t.Errorf("deliveries = %d, want 1", count)
	}
}

func TestNotifierObserverPanicRecovered(t *testing.T) {
	n := NewNotifier()

	delivered := false
	n.Subscribe(TopicAdvisory, func(any) { panic("bad observer") })
	n.Subscribe(TopicAdvisory, func(any) { delivered = true })

	n.Publish(TopicAdvisory, Advisory{})

	if !delivered {
		t.Error("panicking observer must not block later observers")
	}
}

func TestNotifierPublishNoObservers(t *testing.T) {
	n := NewNotifier()
	// Must not panic.
	n.Publish(TopicDictionaryReloaded, DictionaryReload{})
}
