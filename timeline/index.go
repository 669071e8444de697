// Package timeline implements the time index of a keyframe channel: an
// ordered mapping from integer frame times to keyframes, with the queries
// used to find the keyframe in effect at a frame and the range of frames a
// keyframe determines.
//
// An Index is not safe for concurrent use.
package timeline

import (
	"sort"

	"github.com/cbsinteractive/keyframes/keyframe"
)

type entry struct {
	t int
	k keyframe.Keyframe
}

// Index is an ordered time to keyframe mapping. The zero value is an empty
// index ready to use.
type Index struct {
	entries []entry
}

// lowerBound returns the position of the first entry with time >= t.
func (x *Index) lowerBound(t int) int {
	return sort.Search(len(x.entries), func(i int) bool { return x.entries[i].t >= t })
}

// upperBound returns the position of the first entry with time > t.
func (x *Index) upperBound(t int) int {
	return sort.Search(len(x.entries), func(i int) bool { return x.entries[i].t > t })
}

// find returns the position of the entry at exactly t, or -1.
func (x *Index) find(t int) int {
	i := x.lowerBound(t)
	if i < len(x.entries) && x.entries[i].t == t {
		return i
	}
	return -1
}

// active returns the position of the last entry with time <= t, or -1 if t
// is before the first entry.
func (x *Index) active(t int) int {
	return x.upperBound(t) - 1
}

// Insert puts k at time t, replacing whatever was there.
func (x *Index) Insert(t int, k keyframe.Keyframe) {
	i := x.lowerBound(t)
	if i < len(x.entries) && x.entries[i].t == t {
		x.entries[i].k = k
		return
	}
	x.entries = append(x.entries, entry{})
	copy(x.entries[i+1:], x.entries[i:])
	x.entries[i] = entry{t: t, k: k}
}

// Remove erases the entry at t and returns it.
func (x *Index) Remove(t int) (keyframe.Keyframe, bool) {
	i := x.find(t)
	if i < 0 {
		return nil, false
	}
	k := x.entries[i].k
	copy(x.entries[i:], x.entries[i+1:])
	x.entries[len(x.entries)-1] = entry{}
	x.entries = x.entries[:len(x.entries)-1]
	return k, true
}

// Lookup returns the keyframe at exactly t, or nil.
func (x *Index) Lookup(t int) keyframe.Keyframe {
	if i := x.find(t); i >= 0 {
		return x.entries[i].k
	}
	return nil
}

func (x *Index) Len() int { return len(x.entries) }

// ActiveTime returns the time of the keyframe in effect at t: the greatest
// key <= t.
func (x *Index) ActiveTime(t int) (int, bool) {
	i := x.active(t)
	if i < 0 {
		return 0, false
	}
	return x.entries[i].t, true
}

// PreviousTime returns the key before the keyframe at t. When there is no
// keyframe at t it is the same as ActiveTime.
func (x *Index) PreviousTime(t int) (int, bool) {
	i := x.find(t)
	if i < 0 {
		return x.ActiveTime(t)
	}
	if i == 0 {
		return 0, false
	}
	return x.entries[i-1].t, true
}

// NextTime returns the smallest key > t.
func (x *Index) NextTime(t int) (int, bool) {
	i := x.upperBound(t)
	if i == len(x.entries) {
		return 0, false
	}
	return x.entries[i].t, true
}

func (x *Index) FirstTime() (int, bool) {
	if len(x.entries) == 0 {
		return 0, false
	}
	return x.entries[0].t, true
}

func (x *Index) LastTime() (int, bool) {
	if len(x.entries) == 0 {
		return 0, false
	}
	return x.entries[len(x.entries)-1].t, true
}

// AllTimes returns the set of keys.
func (x *Index) AllTimes() map[int]struct{} {
	set := make(map[int]struct{}, len(x.entries))
	for _, e := range x.entries {
		set[e.t] = struct{}{}
	}
	return set
}

// Times returns the keys in ascending order.
func (x *Index) Times() []int {
	times := make([]int, len(x.entries))
	for i, e := range x.entries {
		times[i] = e.t
	}
	return times
}

// Each calls fn for every entry in ascending time order until fn returns
// false. fn must not mutate the index.
func (x *Index) Each(fn func(t int, k keyframe.Keyframe) bool) {
	for _, e := range x.entries {
		if !fn(e.t, e.k) {
			return
		}
	}
}

// Hash is the sum of all keys. It changes when keyframes are added,
// removed or moved, not when their content changes.
func (x *Index) Hash() int {
	h := 0
	for _, e := range x.entries {
		h += e.t
	}
	return h
}

// AffectedSpan returns the frames whose content is determined by the
// keyframe active at t, i.e. the frames that must be invalidated when it
// changes.
func (x *Index) AffectedSpan(t int) Span {
	i := x.active(t)

	var from, next int
	if i < 0 {
		// t precedes the first keyframe
		from, next = 0, 0
	} else {
		from, next = x.entries[i].t, i+1
	}
	if next == len(x.entries) {
		return From(from)
	}

	mode := keyframe.Constant
	if i >= 0 {
		mode = keyframe.ModeOf(x.entries[i].k)
	}
	if mode.Interpolating() {
		return Between(from, from)
	}
	return Between(from, x.entries[next].t-1)
}

// IdenticalFrames returns the frames that look exactly like frame t. Inside
// an interpolated segment only t itself qualifies.
func (x *Index) IdenticalFrames(t int) Span {
	i := x.active(t)
	if i >= 0 && i+1 < len(x.entries) && keyframe.ModeOf(x.entries[i].k).Interpolating() {
		return Between(t, t)
	}
	return x.AffectedSpan(t)
}
