package chessboard

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawCornerOverlay returns a copy of img with the detected corner pattern
// drawn on it and each corner labeled with its detector index.
func (b Board) DrawCornerOverlay(img, corners gocv.Mat, found bool) (image.Image, error) {
	withCorners := img.Clone()
	defer withCorners.Close()
	gocv.DrawChessboardCorners(&withCorners, b.Size(), corners, found)

	base, err := withCorners.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "error converting overlay to image")
	}
	bounds := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), base, bounds.Min, draw.Src)

	for i, pt := range CornerPoints(corners) {
		d := &font.Drawer{
			Dst:  out,
			Src:  image.NewUniform(color.RGBA{0, 255, 255, 255}),
			Face: basicfont.Face7x13,
			Dot:  fixed.Point26_6{fixed.I(int(pt.X)), fixed.I(int(pt.Y))},
		}
		d.DrawString(strconv.Itoa(i))
	}
	return out, nil
}

// SaveCornerOverlay writes the corner overlay for img to path as a PNG.
func (b Board) SaveCornerOverlay(path string, img, corners gocv.Mat, found bool) error {
	overlay, err := b.DrawCornerOverlay(img, corners, found)
	if err != nil {
		return err
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "error creating overlay file")
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return png.Encode(f, overlay)
}
