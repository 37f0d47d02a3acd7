package figure

import (
	"fmt"
	"image"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// downscale resizes the PNG at path in place to at most maxWidth pixels
// wide, keeping the aspect ratio. Narrower images are left untouched.
func downscale(path string, maxWidth int) (bool, error) {
	f, err := os.Open(path) // #nosec G304 -- path built by the renderer
	if err != nil {
		return false, fmt.Errorf("opening figure: %w", err)
	}
	img, err := png.Decode(f)
	_ = f.Close()
	if err != nil {
		return false, fmt.Errorf("decoding figure: %w", err)
	}

	bounds := img.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return false, nil
	}

	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, maxWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	out, err := os.Create(path) // #nosec G304 -- path built by the renderer
	if err != nil {
		return false, fmt.Errorf("writing figure: %w", err)
	}
	if err := png.Encode(out, dst); err != nil {
		_ = out.Close()
		return false, fmt.Errorf("encoding figure: %w", err)
	}
	if err := out.Close(); err != nil {
		return false, fmt.Errorf("writing figure: %w", err)
	}
	return true, nil
}
