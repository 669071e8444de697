package channel

import (
	"errors"
	"fmt"

	"github.com/cbsinteractive/keyframes/db"
	"github.com/cbsinteractive/keyframes/keyframe"
	"github.com/sirupsen/logrus"
)

var ErrKindMismatch = errors.New("document kind does not match channel")

// Document serializes the channel. Keyframes are written in ascending time
// order. The document ID is left for the caller to set.
func (c *Channel) Document() (*db.Channel, error) {
	doc := &db.Channel{
		Name:      c.id.ID,
		Kind:      c.id.Kind,
		Keyframes: make([]db.Keyframe, 0, c.keys.Len()),
	}
	var err error
	c.keys.Each(func(t int, k keyframe.Keyframe) bool {
		var codec keyframe.Codec
		if codec, err = keyframe.Lookup(k.Kind()); err != nil {
			return false
		}
		rec := db.Keyframe{Time: t, ColorLabel: k.ColorLabel()}
		if rec.Payload, err = codec.Marshal(k); err != nil {
			err = fmt.Errorf("keyframe at %d: %w", t, err)
			return false
		}
		doc.Keyframes = append(doc.Keyframes, rec)
		return true
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FromDocument creates a channel and loads doc into it. Channels with a
// well-known name get its display name and kind.
func FromDocument(doc *db.Channel, opts ...Option) (*Channel, error) {
	id, ok := Known(doc.Name)
	if !ok {
		id = ID{ID: doc.Name, Name: doc.Name, Kind: doc.Kind}
	}
	c, err := New(id, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Load(doc); err != nil {
		return nil, err
	}
	return c, nil
}

// Load replaces the channel's keyframes with the records of doc. Records
// are inserted directly, without notifications. A record whose payload
// cannot be decoded is skipped. Negative times, written by old buggy
// savers, are moved to the first free frame at or after 0. If the
// document has no keyframe at 0 a default one is added.
func (c *Channel) Load(doc *db.Channel) error {
	if doc.Kind != "" && doc.Kind != c.id.Kind {
		return fmt.Errorf("%w: %q into %q", ErrKindMismatch, doc.Kind, c.id.Kind)
	}
	codec, err := keyframe.Lookup(c.id.Kind)
	if err != nil {
		return err
	}
	if doc.Skipped > 0 {
		c.log.WithField("skipped", doc.Skipped).Warn("dropped malformed keyframe records")
	}

	for c.keys.Len() > 0 {
		t, _ := c.keys.FirstTime()
		c.keys.Remove(t)
	}
	c.brokenFrameTime = false

	for _, rec := range doc.Keyframes {
		k, err := codec.Unmarshal(rec.Payload)
		if err != nil {
			c.log.WithError(err).WithField("time", rec.Time).Warn("skipping keyframe")
			continue
		}
		k.SetColorLabel(rec.ColorLabel)
		c.keys.Insert(c.sanitizeTime(rec.Time), k)
	}
	if c.keys.Lookup(0) == nil {
		c.keys.Insert(0, c.factory())
	}
	return nil
}

// sanitizeTime maps a loaded time to a non-negative one. Once a negative
// time has been seen, every following record is shifted past occupied
// frames too.
func (c *Channel) sanitizeTime(t int) int {
	if t < 0 {
		c.log.WithFields(logrus.Fields{"time": t}).Warn(
			"loading a negative frame time written by a buggy version, moving it to the first free frame")
		c.brokenFrameTime = true
		t = 0
	}
	if c.brokenFrameTime {
		for c.keys.Lookup(t) != nil {
			t++
		}
	}
	return t
}
