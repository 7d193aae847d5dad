package recognize

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
)

// rotateImage decodes img, rotates it clockwise by the given hypothesis and
// re-encodes it as PNG for the OCR engine. Rotate0 returns the input bytes
// untouched to keep the common case free.
func rotateImage(img []byte, rotation Rotation) ([]byte, error) {
	if rotation == Rotate0 {
		return img, nil
	}
	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	var dst *image.RGBA
	switch rotation {
	case Rotate90, Rotate270:
		dst = image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	case Rotate180:
		dst = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	default:
		return nil, fmt.Errorf("unsupported rotation %d", rotation)
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px, py := x-b.Min.X, y-b.Min.Y
			switch rotation {
			case Rotate90:
				dst.Set(b.Dy()-1-py, px, src.At(x, y))
			case Rotate180:
				dst.Set(b.Dx()-1-px, b.Dy()-1-py, src.At(x, y))
			case Rotate270:
				dst.Set(py, b.Dx()-1-px, src.At(x, y))
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode rotated image: %w", err)
	}
	return buf.Bytes(), nil
}
