package renderer

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/icza/mjpeg"
)

// VideoWriter appends rendered frames to an MJPEG AVI file.
type VideoWriter struct {
	aw     mjpeg.AviWriter
	buf    bytes.Buffer
	opts   jpeg.Options
	width  int
	height int
	frames int
	path   string
}

// NewVideoWriter creates path and writes frames of width x height at fps.
// quality is the JPEG quality (1-100, 0 = 85).
func NewVideoWriter(path string, width, height, fps, quality int) (*VideoWriter, error) {
	if width <= 0 || height <= 0 || fps <= 0 {
		return nil, fmt.Errorf("video %dx%d@%d: dimensions and fps must be positive", width, height, fps)
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	aw, err := mjpeg.New(path, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("creating video %s: %w", path, err)
	}
	return &VideoWriter{
		aw:     aw,
		opts:   jpeg.Options{Quality: quality},
		width:  width,
		height: height,
		path:   path,
	}, nil
}

// AddFrame encodes img as JPEG and appends it. The image must match the video size.
func (v *VideoWriter) AddFrame(img image.Image) error {
	if b := img.Bounds(); b.Dx() != v.width || b.Dy() != v.height {
		return fmt.Errorf("frame size %dx%d does not match video %dx%d", b.Dx(), b.Dy(), v.width, v.height)
	}
	v.buf.Reset()
	if err := jpeg.Encode(&v.buf, img, &v.opts); err != nil {
		return fmt.Errorf("encoding frame %d: %w", v.frames, err)
	}
	if err := v.aw.AddFrame(v.buf.Bytes()); err != nil {
		return fmt.Errorf("adding frame %d: %w", v.frames, err)
	}
	v.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (v *VideoWriter) Frames() int { return v.frames }

// Path returns the output file path.
func (v *VideoWriter) Path() string { return v.path }

// Close finalises the AVI index and closes the file.
func (v *VideoWriter) Close() error {
	if err := v.aw.Close(); err != nil {
		return fmt.Errorf("closing video %s: %w", v.path, err)
	}
	return nil
}
