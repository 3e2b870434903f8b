// SPDX-License-Identifier: GPL-2.0-or-later

// Package image writes prepared textures as PNG files.
package image

import (
	"image"
	"image/png"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Write expects RGBA 8bit data
func Write(w io.Writer, data []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid image size %dx%d", width, height)
	}
	if len(data) < width*height*4 {
		return errors.New("tried to write an image but there is not enough data")
	}
	img := &image.NRGBA{
		Pix:    data,
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
	return png.Encode(w, img)
}

func WriteFile(name string, data []byte, width, height int) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Write(f, data, width, height); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	return f.Close()
}
