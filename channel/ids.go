package channel

import "github.com/cbsinteractive/keyframes/keyframe"

// ID names an animatable property.
type ID struct {
	ID   string
	Name string
	Kind keyframe.Kind
}

var (
	Raster             = ID{"content", "Content", keyframe.KindRaster}
	Opacity            = ID{"opacity", "Opacity", keyframe.KindScalar}
	TransformArguments = ID{"transform_arguments", "Transform", keyframe.KindScalar}
	TransformPositionX = ID{"transform_pos_x", "Position (X)", keyframe.KindScalar}
	TransformPositionY = ID{"transform_pos_y", "Position (Y)", keyframe.KindScalar}
	TransformScaleX    = ID{"transform_scale_x", "Scale (X)", keyframe.KindScalar}
	TransformScaleY    = ID{"transform_scale_y", "Scale (Y)", keyframe.KindScalar}
	TransformShearX    = ID{"transform_shear_x", "Shear (X)", keyframe.KindScalar}
	TransformShearY    = ID{"transform_shear_y", "Shear (Y)", keyframe.KindScalar}
	TransformRotationX = ID{"transform_rotation_x", "Rotation (X)", keyframe.KindScalar}
	TransformRotationY = ID{"transform_rotation_y", "Rotation (Y)", keyframe.KindScalar}
	TransformRotationZ = ID{"transform_rotation_z", "Rotation (Z)", keyframe.KindScalar}
)

var known = map[string]ID{}

func init() {
	for _, id := range []ID{
		Raster, Opacity, TransformArguments,
		TransformPositionX, TransformPositionY,
		TransformScaleX, TransformScaleY,
		TransformShearX, TransformShearY,
		TransformRotationX, TransformRotationY, TransformRotationZ,
	} {
		known[id.ID] = id
	}
}

// Known returns the well-known channel with the given id.
func Known(id string) (ID, bool) {
	k, ok := known[id]
	return k, ok
}
