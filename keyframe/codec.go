package keyframe

import (
	"encoding/json"
	"errors"
	"sort"

	pkgerrors "github.com/pkg/errors"
)

var codecs = map[Kind]Codec{}

var (
	ErrRegistered  = errors.New("keyframe kind is already registered")
	ErrUnknownKind = errors.New("unknown keyframe kind")
	ErrWrongKind   = errors.New("keyframe has the wrong kind for this codec")
)

// Codec knows how to create and serialize keyframes of one kind. The color
// label is not part of the payload; channels store it next to the time.
type Codec interface {
	New() Keyframe
	Marshal(Keyframe) (json.RawMessage, error)
	Unmarshal(json.RawMessage) (Keyframe, error)
}

func init() {
	mustRegister(KindRaster, rasterCodec{})
	mustRegister(KindScalar, scalarCodec{})
}

func mustRegister(k Kind, c Codec) {
	if err := Register(k, c); err != nil {
		panic(err)
	}
}

// Register adds a codec for the kind k.
func Register(k Kind, c Codec) error {
	if _, ok := codecs[k]; ok {
		return ErrRegistered
	}
	codecs[k] = c
	return nil
}

// Lookup returns the codec registered for k.
func Lookup(k Kind) (Codec, error) {
	c, ok := codecs[k]
	if !ok {
		return nil, ErrUnknownKind
	}
	return c, nil
}

// Kinds returns the registered kinds, alphabetically ordered.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(codecs))
	for k := range codecs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

type rasterCodec struct{}

func (rasterCodec) New() Keyframe { return NewRaster(0) }

func (rasterCodec) Marshal(k Keyframe) (json.RawMessage, error) {
	r, ok := k.(*Raster)
	if !ok {
		return nil, ErrWrongKind
	}
	return json.Marshal(r)
}

func (rasterCodec) Unmarshal(data json.RawMessage) (Keyframe, error) {
	r := &Raster{}
	if len(data) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding raster keyframe")
	}
	return r, nil
}

type scalarCodec struct{}

func (scalarCodec) New() Keyframe { return NewScalar(0, Constant) }

func (scalarCodec) Marshal(k Keyframe) (json.RawMessage, error) {
	s, ok := k.(*Scalar)
	if !ok {
		return nil, ErrWrongKind
	}
	return json.Marshal(s)
}

func (scalarCodec) Unmarshal(data json.RawMessage) (Keyframe, error) {
	s := &Scalar{}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding scalar keyframe")
	}
	switch s.Interpolation {
	case "", Constant, Linear, Bezier:
	default:
		return nil, pkgerrors.Errorf("unknown interpolation mode %q", s.Interpolation)
	}
	return s, nil
}
