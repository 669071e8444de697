package keyframe

// Raster references the pixel content of one frame. Raster keyframes are
// never interpolated.
type Raster struct {
	label
	Frame int `json:"frame"`
}

// NewRaster returns a raster keyframe pointing at frame id.
func NewRaster(id int) *Raster {
	return &Raster{Frame: id}
}

func (r *Raster) Kind() Kind { return KindRaster }

func (r *Raster) Duplicate() Keyframe {
	d := *r
	return &d
}
