package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/sprintpoker/sprintpoker/internal/core"
)

// fakeSub records delivered frames; it stands in for a transport
// connection in hub and orchestrator tests.
type fakeSub struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (f *fakeSub) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("buffer full")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeSub) Close() {}

func (f *fakeSub) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

// decode unmarshals the i-th delivered frame into a generic envelope.
func (f *fakeSub) decode(t *testing.T, i int) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.frames) {
		t.Fatalf("frame %d not delivered, have %d", i, len(f.frames))
	}
	var m map[string]any
	if err := json.Unmarshal(f.frames[i], &m); err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	return m
}

func (f *fakeSub) lastType(t *testing.T) string {
	t.Helper()
	m := f.decode(t, f.count()-1)
	s, _ := m["type"].(string)
	return s
}

func TestHubBroadcastReachesAllSubscribers(t *testing.T) {
	h := NewHub(SimplePolicy{})
	a, b := &fakeSub{}, &fakeSub{}
	h.Subscribe("s1", "c1", a)
	h.Subscribe("s1", "c2", b)
	h.Subscribe("s2", "c3", &fakeSub{})

	h.Broadcast("s1", map[string]string{"type": "hello"})

	if a.count() != 1 || b.count() != 1 {
		t.Fatalf("delivery counts = %d, %d; want 1, 1", a.count(), b.count())
	}
	if got := a.lastType(t); got != "hello" {
		t.Fatalf("frame type = %q", got)
	}
}

func TestHubBroadcastUnknownSessionIsNoop(t *testing.T) {
	h := NewHub(SimplePolicy{})
	h.Broadcast("nope", map[string]string{"type": "hello"})
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub(SimplePolicy{})
	a := &fakeSub{}
	h.Subscribe("s1", "c1", a)
	h.Unsubscribe("s1", "c1")

	h.Broadcast("s1", map[string]string{"type": "hello"})
	if a.count() != 0 {
		t.Fatalf("unsubscribed connection still got %d frames", a.count())
	}
}

func TestHubDropsBackpressuredSubscriber(t *testing.T) {
	h := NewHub(SimplePolicy{})
	slow := &fakeSub{fail: true}
	ok := &fakeSub{}
	h.Subscribe("s1", "slow", slow)
	h.Subscribe("s1", "ok", ok)

	h.Broadcast("s1", map[string]string{"type": "one"})
	if h.RoomSize("s1") != 1 {
		t.Fatalf("room size = %d, want 1 after drop", h.RoomSize("s1"))
	}

	h.Broadcast("s1", map[string]string{"type": "two"})
	if ok.count() != 2 {
		t.Fatalf("healthy subscriber got %d frames, want 2", ok.count())
	}
}

func TestHubDropRemovesRoom(t *testing.T) {
	h := NewHub(SimplePolicy{})
	a := &fakeSub{}
	h.Subscribe("s1", "c1", a)
	h.Drop("s1")

	h.Broadcast("s1", map[string]string{"type": "hello"})
	if a.count() != 0 {
		t.Fatal("dropped room still receives broadcasts")
	}
}
