// Package channel implements keyframe channels: one animatable property
// track holding keyframes at integer frame times.
//
// A channel always has a keyframe at frame 0. Removing it replaces it with
// a fresh default keyframe.
//
// Channels are not safe for concurrent use; all mutation must happen on
// the goroutine owning the channel.
package channel

import (
	"io/ioutil"
	"reflect"

	"github.com/cbsinteractive/keyframes/keyframe"
	"github.com/cbsinteractive/keyframes/timeline"
	"github.com/sirupsen/logrus"
)

// Factory creates default keyframes for a channel.
type Factory func() keyframe.Keyframe

// Clock reports the document's current frame.
type Clock func() int

// Channel owns a time index of keyframes.
type Channel struct {
	id      ID
	keys    timeline.Index
	factory Factory
	clock   Clock
	log     logrus.FieldLogger
	subs    []*subscription

	// set once a negative frame time is seen while loading
	brokenFrameTime bool
}

// Option configures a Channel.
type Option func(*Channel)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Channel) { c.log = l }
}

// WithFactory overrides the default keyframe factory of the channel's kind.
func WithFactory(f Factory) Option {
	return func(c *Channel) { c.factory = f }
}

// WithClock sets the current time oracle.
func WithClock(clk Clock) Option {
	return func(c *Channel) { c.clock = clk }
}

// New creates a channel with a default keyframe at frame 0.
func New(id ID, opts ...Option) (*Channel, error) {
	c := &Channel{id: id}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		l := logrus.New()
		l.Out = ioutil.Discard
		c.log = l
	}
	c.log = c.log.WithField("channel", id.ID)
	if c.factory == nil {
		codec, err := keyframe.Lookup(id.Kind)
		if err != nil {
			return nil, err
		}
		c.factory = codec.New
	}
	c.keys.Insert(0, c.factory())
	return c, nil
}

func (c *Channel) ID() ID       { return c.id }
func (c *Channel) Name() string { return c.id.Name }

// CurrentTime returns the document's current frame, 0 without a clock.
func (c *Channel) CurrentTime() int {
	if c.clock == nil {
		return 0
	}
	return c.clock()
}

// AddKeyframe inserts a default keyframe at t.
func (c *Channel) AddKeyframe(t int) {
	c.InsertKeyframe(t, c.factory())
}

// InsertKeyframe puts k at t, replacing any keyframe already there.
// Inserting a nil keyframe, typed nil pointers included, is a programming
// error; it is logged and ignored.
func (c *Channel) InsertKeyframe(t int, k keyframe.Keyframe) {
	if isNil(k) {
		c.log.WithField("time", t).Error("inserting a nil keyframe")
		return
	}
	c.keys.Insert(t, k)
	c.notifyAdded(t)
}

// RemoveKeyframe removes the keyframe at t. Removing frame 0 immediately
// inserts a new default keyframe there. Observers are told about the
// removal even when no keyframe is at t.
func (c *Channel) RemoveKeyframe(t int) {
	c.notifyRemoving(t)
	if _, ok := c.keys.Remove(t); !ok {
		c.log.WithField("time", t).Debug("no keyframe to remove")
		return
	}
	if t == 0 {
		c.AddKeyframe(0)
	}
}

func (c *Channel) KeyframeAt(t int) keyframe.Keyframe { return c.keys.Lookup(t) }
func (c *Channel) KeyframeCount() int                 { return c.keys.Len() }

// ActiveKeyframeAt returns the keyframe in effect at t.
func (c *Channel) ActiveKeyframeAt(t int) keyframe.Keyframe {
	at, ok := c.keys.ActiveTime(t)
	if !ok {
		return nil
	}
	return c.keys.Lookup(at)
}

func (c *Channel) ActiveKeyframeTime(t int) (int, bool)   { return c.keys.ActiveTime(t) }
func (c *Channel) PreviousKeyframeTime(t int) (int, bool) { return c.keys.PreviousTime(t) }
func (c *Channel) NextKeyframeTime(t int) (int, bool)     { return c.keys.NextTime(t) }
func (c *Channel) FirstKeyframeTime() (int, bool)         { return c.keys.FirstTime() }
func (c *Channel) LastKeyframeTime() (int, bool)          { return c.keys.LastTime() }
func (c *Channel) AllKeyframeTimes() map[int]struct{}     { return c.keys.AllTimes() }
func (c *Channel) KeyframeTimes() []int                   { return c.keys.Times() }

// AffectedFrames returns the frames invalidated by a change to the
// keyframe active at t.
func (c *Channel) AffectedFrames(t int) timeline.Span { return c.keys.AffectedSpan(t) }

// IdenticalFrames returns the frames that render exactly like t.
func (c *Channel) IdenticalFrames(t int) timeline.Span { return c.keys.IdenticalFrames(t) }

// Hash changes whenever keyframes are added, removed or moved.
func (c *Channel) Hash() int { return c.keys.Hash() }

func isNil(k keyframe.Keyframe) bool {
	if k == nil {
		return true
	}
	v := reflect.ValueOf(k)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
