package keyframe

// Scalar is a numeric keyframe (opacity, transform components).
type Scalar struct {
	label
	Value         float64 `json:"value"`
	Interpolation Mode    `json:"interpolation,omitempty"`
}

// NewScalar returns a scalar keyframe holding v with mode m.
func NewScalar(v float64, m Mode) *Scalar {
	return &Scalar{Value: v, Interpolation: m}
}

func (s *Scalar) Kind() Kind { return KindScalar }

func (s *Scalar) Mode() Mode {
	if s.Interpolation == "" {
		return Constant
	}
	return s.Interpolation
}

func (s *Scalar) Duplicate() Keyframe {
	d := *s
	return &d
}
