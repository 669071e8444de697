package channel

import (
	"fmt"
	"testing"

	"github.com/cbsinteractive/keyframes/keyframe"
	"github.com/cbsinteractive/keyframes/timeline"
	"github.com/google/go-cmp/cmp"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func newChannel(t *testing.T, id ID, opts ...Option) *Channel {
	t.Helper()
	c, err := New(id, opts...)
	if err != nil {
		t.Fatalf("New(%v): %v", id, err)
	}
	return c
}

// recorder logs notifications along with what the channel looked like at
// the time.
type recorder struct {
	events []string
}

func (r *recorder) Added(ch *Channel, t int) {
	r.events = append(r.events, fmt.Sprintf("added %d present=%v", t, ch.KeyframeAt(t) != nil))
}

func (r *recorder) Removing(ch *Channel, t int) {
	r.events = append(r.events, fmt.Sprintf("removing %d present=%v", t, ch.KeyframeAt(t) != nil))
}

func (r *recorder) Updated(ch *Channel, s timeline.Span) {
	r.events = append(r.events, "updated "+s.String())
}

func TestNewHasAnchor(t *testing.T) {
	c := newChannel(t, Opacity)
	if c.KeyframeAt(0) == nil || c.KeyframeCount() != 1 {
		t.Fatalf("new channel has %d keyframes, want the anchor only", c.KeyframeCount())
	}
	if c.KeyframeAt(0).Kind() != keyframe.KindScalar {
		t.Errorf("anchor kind = %q", c.KeyframeAt(0).Kind())
	}
	if _, err := New(ID{ID: "mesh", Kind: "mesh"}); err != keyframe.ErrUnknownKind {
		t.Errorf("New with unknown kind: want ErrUnknownKind, got %v", err)
	}
}

func TestRemoveAnchorRecreates(t *testing.T) {
	c := newChannel(t, Raster)
	for i := 0; i < 3; i++ {
		old := c.KeyframeAt(0)
		c.RemoveKeyframe(0)
		k := c.KeyframeAt(0)
		if k == nil {
			t.Fatalf("removal %d left no keyframe at 0", i)
		}
		if k == old {
			t.Errorf("removal %d kept the old anchor", i)
		}
	}
}

func TestNotificationOrder(t *testing.T) {
	c := newChannel(t, Opacity)
	rec := &recorder{}
	unsubscribe := c.Subscribe(rec)

	c.AddKeyframe(10)
	c.RemoveKeyframe(10)
	c.RemoveKeyframe(0)
	c.RemoveKeyframe(42) // nothing there

	want := []string{
		"added 10 present=true",
		"updated [10, inf)",
		"removing 10 present=true",
		"updated [10, inf)",
		"removing 0 present=true",
		"updated [0, inf)",
		"added 0 present=true",
		"updated [0, inf)",
		"removing 42 present=false",
		"updated [0, inf)",
	}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	unsubscribe()
	c.AddKeyframe(3)
	if len(rec.events) != len(want) {
		t.Errorf("notified after unsubscribe: %v", rec.events[len(want):])
	}
}

func TestUpdatedSpanUsesMode(t *testing.T) {
	c := newChannel(t, Opacity)
	c.InsertKeyframe(10, keyframe.NewScalar(1, keyframe.Constant))

	var spans []timeline.Span
	c.Subscribe(Funcs{OnUpdated: func(_ *Channel, s timeline.Span) { spans = append(spans, s) }})

	c.InsertKeyframe(0, keyframe.NewScalar(0, keyframe.Linear))
	c.InsertKeyframe(0, keyframe.NewScalar(0, keyframe.Constant))
	want := []timeline.Span{timeline.Between(0, 0), timeline.Between(0, 9)}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Errorf("updated spans mismatch (-want +got):\n%s", diff)
	}
}

func TestObserverMayUnsubscribeDuringNotification(t *testing.T) {
	c := newChannel(t, Opacity)
	calls := 0
	var unsubscribe func()
	unsubscribe = c.Subscribe(Funcs{OnAdded: func(*Channel, int) {
		calls++
		unsubscribe()
	}})
	other := 0
	c.Subscribe(Funcs{OnAdded: func(*Channel, int) { other++ }})

	c.AddKeyframe(1)
	c.AddKeyframe(2)
	if calls != 1 || other != 2 {
		t.Errorf("calls=%d other=%d, want 1 and 2", calls, other)
	}
}

func TestInsertNilIsIgnored(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	c := newChannel(t, Opacity, WithLogger(logger))
	notified := false
	c.Subscribe(Funcs{OnAdded: func(*Channel, int) { notified = true }})

	c.InsertKeyframe(5, nil)
	if c.KeyframeAt(5) != nil || notified {
		t.Error("nil insert changed the channel")
	}
	if e := hook.LastEntry(); e == nil || e.Message != "inserting a nil keyframe" {
		t.Errorf("expected an error log, got %v", e)
	}
}

func TestInsertTypedNilIsIgnored(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	c := newChannel(t, Opacity, WithLogger(logger))
	anchor := c.KeyframeAt(0)
	c.InsertKeyframe(10, keyframe.NewScalar(1, keyframe.Constant))

	c.InsertKeyframe(0, (*keyframe.Scalar)(nil))
	if c.KeyframeAt(0) != anchor {
		t.Fatalf("typed nil replaced the anchor: %v", c.KeyframeAt(0))
	}
	if got := c.AffectedFrames(5); got != timeline.Between(0, 9) {
		t.Errorf("AffectedFrames(5) = %v", got)
	}
	if e := hook.LastEntry(); e == nil || e.Message != "inserting a nil keyframe" {
		t.Errorf("expected an error log, got %v", e)
	}
}

func TestQueriesPassThrough(t *testing.T) {
	c := newChannel(t, Opacity, WithClock(func() int { return 7 }))
	c.AddKeyframe(5)
	c.InsertKeyframe(10, keyframe.NewScalar(2, keyframe.Linear))

	if got, ok := c.ActiveKeyframeTime(7); !ok || got != 5 {
		t.Errorf("ActiveKeyframeTime(7) = %d,%v", got, ok)
	}
	if got, ok := c.PreviousKeyframeTime(5); !ok || got != 0 {
		t.Errorf("PreviousKeyframeTime(5) = %d,%v", got, ok)
	}
	if got, ok := c.NextKeyframeTime(5); !ok || got != 10 {
		t.Errorf("NextKeyframeTime(5) = %d,%v", got, ok)
	}
	if got, _ := c.LastKeyframeTime(); got != 10 {
		t.Errorf("LastKeyframeTime() = %d", got)
	}
	if got := c.ActiveKeyframeAt(12); got != c.KeyframeAt(10) {
		t.Errorf("ActiveKeyframeAt(12) = %v", got)
	}
	if got := c.AffectedFrames(6); got != timeline.Between(5, 9) {
		t.Errorf("AffectedFrames(6) = %v", got)
	}
	if got := c.IdenticalFrames(12); got != timeline.From(10) {
		t.Errorf("IdenticalFrames(12) = %v", got)
	}
	if c.Hash() != 15 || c.CurrentTime() != 7 {
		t.Errorf("Hash()=%d CurrentTime()=%d", c.Hash(), c.CurrentTime())
	}
	if diff := cmp.Diff([]int{0, 5, 10}, c.KeyframeTimes()); diff != "" {
		t.Errorf("KeyframeTimes() mismatch (-want +got):\n%s", diff)
	}
}
