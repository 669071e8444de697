package timeline

import (
	"fmt"
	"math"

	"github.com/cbsinteractive/pkg/timecode"
)

// MaxTime is the end reported for an infinite span. Contains and
// Intersects do not compare against it.
const MaxTime = math.MaxInt32

// Span is a closed interval of frame times. An infinite span has no upper
// bound; To is ignored and End reports MaxTime.
type Span struct {
	From     int  `json:"from"`
	To       int  `json:"to"`
	Infinite bool `json:"infinite,omitempty"`
}

// Between returns the span [from, to].
func Between(from, to int) Span {
	return Span{From: from, To: to}
}

// From returns the span [from, +inf).
func From(from int) Span {
	return Span{From: from, To: MaxTime, Infinite: true}
}

// End returns the last frame of the span.
func (s Span) End() int {
	if s.Infinite {
		return MaxTime
	}
	return s.To
}

func (s Span) Contains(t int) bool {
	return t >= s.From && (s.Infinite || t <= s.To)
}

func (s Span) Intersects(o Span) bool {
	return (o.Infinite || s.From <= o.To) && (s.Infinite || o.From <= s.To)
}

// Range converts a bounded span into a timecode range in seconds at the
// given frame rate. The second result is false for infinite spans or a
// non-positive fps.
func (s Span) Range(fps float64) (timecode.Range, bool) {
	if s.Infinite || fps <= 0 {
		return timecode.Range{}, false
	}
	// the span includes its last frame, so the range ends where the
	// following frame begins
	return timecode.Range{float64(s.From) / fps, float64(s.To+1) / fps}, true
}

// Timecodes formats the span bounds as HH:MM:SS:FF. The end is empty for
// an infinite span.
func (s Span) Timecodes(fps float64) (from, to string) {
	if r, ok := s.Range(fps); ok {
		return r.Timecodes(fps)
	}
	if fps <= 0 {
		return "", ""
	}
	from, _ = timecode.Range{float64(s.From) / fps, 0}.Timecodes(fps)
	return from, ""
}

func (s Span) String() string {
	if s.Infinite {
		return fmt.Sprintf("[%d, inf)", s.From)
	}
	return fmt.Sprintf("[%d, %d]", s.From, s.To)
}
