package channel

import "github.com/cbsinteractive/keyframes/timeline"

// Observer receives channel notifications. They are delivered
// synchronously on the mutating goroutine: Removing before the keyframe is
// erased, Added after it is present. Each is followed by Updated with the
// frames affected by the change. Observers may query the channel but must
// not mutate it.
type Observer interface {
	Added(ch *Channel, t int)
	Removing(ch *Channel, t int)
	Updated(ch *Channel, span timeline.Span)
}

// Funcs adapts plain functions to an Observer. Nil fields are ignored.
type Funcs struct {
	OnAdded    func(ch *Channel, t int)
	OnRemoving func(ch *Channel, t int)
	OnUpdated  func(ch *Channel, span timeline.Span)
}

func (f Funcs) Added(ch *Channel, t int) {
	if f.OnAdded != nil {
		f.OnAdded(ch, t)
	}
}

func (f Funcs) Removing(ch *Channel, t int) {
	if f.OnRemoving != nil {
		f.OnRemoving(ch, t)
	}
}

func (f Funcs) Updated(ch *Channel, span timeline.Span) {
	if f.OnUpdated != nil {
		f.OnUpdated(ch, span)
	}
}

type subscription struct {
	o Observer
}

// Subscribe registers o and returns a function that unregisters it.
func (c *Channel) Subscribe(o Observer) (unsubscribe func()) {
	s := &subscription{o: o}
	c.subs = append(c.subs, s)
	return func() {
		for i, x := range c.subs {
			if x == s {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// snapshot lets observers (un)subscribe while being notified.
func (c *Channel) snapshot() []*subscription {
	return append([]*subscription(nil), c.subs...)
}

func (c *Channel) notifyAdded(t int) {
	subs := c.snapshot()
	for _, s := range subs {
		s.o.Added(c, t)
	}
	c.notifyUpdated(subs, t)
}

func (c *Channel) notifyRemoving(t int) {
	subs := c.snapshot()
	for _, s := range subs {
		s.o.Removing(c, t)
	}
	c.notifyUpdated(subs, t)
}

func (c *Channel) notifyUpdated(subs []*subscription, t int) {
	if len(subs) == 0 {
		return
	}
	span := c.keys.AffectedSpan(t)
	for _, s := range subs {
		s.o.Updated(c, span)
	}
}
