package vg

import (
	"bytes"
	"image"

	// Codec registration for ImageData probing and for decoding by the
	// scene target.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageData is the placement and encoded bytes of an embedded image.
// It is the record stored in the canonical image table: two images with
// the same placement and the same bytes share one entry.
type ImageData struct {
	// X, Y position the image in user space.
	X, Y float32

	// Width and Height are the display size in user units. Zero values
	// are back-filled from the encoded image's natural size when
	// probing succeeds.
	Width, Height float32

	// Encoded is the raw image file. PNG, JPEG, GIF, BMP, TIFF and WebP
	// are recognized.
	Encoded []byte
}

// NaturalSize probes the encoded bytes for the image's pixel dimensions
// without decoding pixel data.
func (d *ImageData) NaturalSize() (w, h int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(d.Encoded))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// Decode decodes the encoded bytes into an image.
func (d *ImageData) Decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(d.Encoded))
	return img, err
}

// imageKey is the comparable canonical identity of an image record.
type imageKey struct {
	x, y, w, h float32
	data       string
}

func (d *ImageData) key() imageKey {
	return imageKey{x: d.X, y: d.Y, w: d.Width, h: d.Height, data: string(d.Encoded)}
}
