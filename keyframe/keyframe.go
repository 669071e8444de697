// Package keyframe defines the handles stored in a keyframe channel.
//
// A keyframe is the value of an animatable property at one frame time. The
// channel owning the keyframe only cares about two pieces of metadata: the
// color label shown in the timeline, and, for kinds that can be
// interpolated, the interpolation mode. Everything else is kind specific
// and opaque to the channel; it is serialized by the kind's Codec.
package keyframe

// Kind identifies the concrete type of a keyframe.
type Kind string

const (
	KindRaster = Kind("raster")
	KindScalar = Kind("scalar")
)

// Mode is the interpolation mode of a keyframe.
type Mode string

const (
	// Constant holds the keyframe's value until the next keyframe.
	Constant = Mode("constant")
	Linear   = Mode("linear")
	Bezier   = Mode("bezier")
)

// Interpolating reports whether values between this keyframe and the next
// one differ from frame to frame.
func (m Mode) Interpolating() bool {
	return m != "" && m != Constant
}

// Keyframe is a handle owned by a channel.
type Keyframe interface {
	Kind() Kind
	ColorLabel() uint8
	SetColorLabel(uint8)

	// Duplicate returns an independent copy, used when a keyframe is
	// transferred to another channel.
	Duplicate() Keyframe
}

// Interpolated is implemented by keyframes that carry an interpolation
// mode. Keyframes that don't implement it behave as Constant.
type Interpolated interface {
	Mode() Mode
}

// ModeOf returns the interpolation mode of k, Constant when k is nil or has
// no mode.
func ModeOf(k Keyframe) Mode {
	if i, ok := k.(Interpolated); ok && i.Mode() != "" {
		return i.Mode()
	}
	return Constant
}

type label struct {
	color uint8
}

func (l *label) ColorLabel() uint8     { return l.color }
func (l *label) SetColorLabel(c uint8) { l.color = c }
