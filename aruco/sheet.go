package aruco

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Sheet layout, in pixels.
const (
	sheetMargin   = 40
	sheetGap      = 40
	sheetCaption  = 20
	sheetMaxCols  = 4
	sheetBaseline = 14
)

// WriteMarkerSheet writes a printable PNG sheet of the first count markers,
// each captioned with its id.
func WriteMarkerSheet(path string, count, sidePixels int) error {
	if err := checkMarkerArgs(count, sidePixels); err != nil {
		return err
	}
	cols := count
	if cols > sheetMaxCols {
		cols = sheetMaxCols
	}
	rows := (count + cols - 1) / cols
	width := 2*sheetMargin + cols*sidePixels + (cols-1)*sheetGap
	height := 2*sheetMargin + rows*(sidePixels+sheetCaption) + (rows-1)*sheetGap

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	for id := 0; id < count; id++ {
		img := gocv.NewMat()
		gocv.ArucoGenerateImageMarker(dictionary, id, sidePixels, img, markerBorderBits)
		decoded, err := img.ToImage()
		closeErr := img.Close()
		if err != nil {
			return errors.Wrapf(err, "cannot render marker %d", id)
		}
		if closeErr != nil {
			return closeErr
		}
		x := sheetMargin + (id%cols)*(sidePixels+sheetGap)
		y := sheetMargin + (id/cols)*(sidePixels+sheetCaption+sheetGap)
		dc.DrawImage(decoded, x, y)
		dc.DrawString(fmt.Sprintf("id %d", id), float64(x), float64(y+sidePixels+sheetBaseline))
	}
	if err := dc.SavePNG(path); err != nil {
		return errors.Wrapf(err, "cannot write marker sheet to %q", path)
	}
	return nil
}
