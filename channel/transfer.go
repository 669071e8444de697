package channel

import (
	"github.com/cbsinteractive/keyframes/keyframe"
	"github.com/sirupsen/logrus"
)

// Clone returns a channel with the same id holding duplicates of c's
// keyframes. Observers are not carried over. opts replace the logger,
// factory or clock inherited from c.
func (c *Channel) Clone(opts ...Option) *Channel {
	d := &Channel{id: c.id, factory: c.factory, clock: c.clock, log: c.log}
	for _, o := range opts {
		o(d)
	}
	if d.log != c.log {
		d.log = d.log.WithField("channel", d.id.ID)
	}
	c.keys.Each(func(t int, k keyframe.Keyframe) bool {
		d.keys.Insert(t, k.Duplicate())
		return true
	})
	return d
}

// MoveKeyframe moves the keyframe at srcTime in src to dstTime in dst.
// Moving across channels stores a duplicate in dst.
func MoveKeyframe(src *Channel, srcTime int, dst *Channel, dstTime int) {
	k := src.KeyframeAt(srcTime)
	if k == nil {
		src.log.WithFields(logrus.Fields{"time": srcTime}).Error("moving a missing keyframe")
		return
	}
	src.RemoveKeyframe(srcTime)
	if src != dst {
		k = k.Duplicate()
	}
	dst.InsertKeyframe(dstTime, k)
}

// CopyKeyframe stores a duplicate of the keyframe at srcTime in src at
// dstTime in dst.
func CopyKeyframe(src *Channel, srcTime int, dst *Channel, dstTime int) {
	k := src.KeyframeAt(srcTime)
	if k == nil {
		src.log.WithFields(logrus.Fields{"time": srcTime}).Error("copying a missing keyframe")
		return
	}
	dst.InsertKeyframe(dstTime, k.Duplicate())
}

// SwapKeyframes exchanges the keyframe at timeA in a with the one at timeB
// in b.
func SwapKeyframes(a *Channel, timeA int, b *Channel, timeB int) {
	kb := b.KeyframeAt(timeB)
	if kb == nil || a.KeyframeAt(timeA) == nil {
		a.log.WithFields(logrus.Fields{"timeA": timeA, "timeB": timeB}).Error("swapping a missing keyframe")
		return
	}
	MoveKeyframe(a, timeA, b, timeB)
	if a != b {
		kb = kb.Duplicate()
	}
	a.InsertKeyframe(timeA, kb)
}
