// Package testutils renders the synthetic checkerboard images and camera
// models the package tests share.
package testutils

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"go.viam.com/test"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcal/transform"
	"go.viam.com/camcal/utils"
)

// RenderChessboard draws a synthetic calibration checkerboard with the given
// inner corner grid. Squares are squarePx on a side and the board sits inside
// a white margin of marginPx.
func RenderChessboard(width, height, squarePx, marginPx int) image.Image {
	cols, rows := width+1, height+1
	dc := gg.NewContext(cols*squarePx+2*marginPx, rows*squarePx+2*marginPx)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if (x+y)%2 == 0 {
				dc.DrawRectangle(
					float64(marginPx+x*squarePx), float64(marginPx+y*squarePx),
					float64(squarePx), float64(squarePx))
			}
		}
	}
	dc.Fill()
	return dc.Image()
}

// ChessboardMat renders the same board as RenderChessboard as a Mat. The
// caller owns the returned Mat.
func ChessboardMat(t *testing.T, width, height, squarePx, marginPx int) gocv.Mat {
	t.Helper()
	m, err := gocv.ImageToMatRGB(RenderChessboard(width, height, squarePx, marginPx))
	test.That(t, err, test.ShouldBeNil)
	return m
}

// WriteImagePNG writes img to path and fails the test if it cannot.
func WriteImagePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	//nolint:gosec
	f, err := os.Create(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, png.Encode(f, img), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)
}

// WarpToQuad warps src so its full frame lands on the given four corner
// points, keeping the canvas size. The caller owns the returned Mat.
func WarpToQuad(t *testing.T, src gocv.Mat, quad []image.Point) gocv.Mat {
	t.Helper()
	full := []image.Point{{0, 0}, {src.Cols(), 0}, {src.Cols(), src.Rows()}, {0, src.Rows()}}
	h, err := transform.NewHomography(utils.GetPerspectiveTransform(full, quad))
	test.That(t, err, test.ShouldBeNil)
	return transform.Warp(src, h, src.Cols(), src.Rows())
}

// viewQuads are frame corner placements, as fractions of the image size,
// simulating varied camera poses.
var viewQuads = [][4][2]float64{
	{{0.02, 0.02}, {0.98, 0.04}, {0.97, 0.96}, {0.03, 0.98}},
	{{0.06, 0.11}, {0.94, 0.03}, {0.88, 0.93}, {0.12, 0.89}},
	{{0.09, 0.03}, {0.97, 0.14}, {0.91, 0.89}, {0.05, 0.82}},
	{{0.19, 0.14}, {0.88, 0.21}, {0.81, 0.86}, {0.16, 0.79}},
	{{0.22, 0.07}, {0.78, 0.09}, {0.94, 0.89}, {0.06, 0.88}},
	{{0.05, 0.13}, {0.95, 0.11}, {0.78, 0.86}, {0.23, 0.84}},
	{{0.03, 0.06}, {0.90, 0.02}, {0.85, 0.95}, {0.10, 0.90}},
	{{0.12, 0.04}, {0.92, 0.08}, {0.88, 0.92}, {0.08, 0.96}},
}

// WriteCheckerboardViews renders a checkerboard with the given inner corner
// grid and writes n views of it, each warped to a different simulated camera
// pose, into dir as view<i>.png.
func WriteCheckerboardViews(t *testing.T, dir string, width, height, n int) {
	t.Helper()
	if n > len(viewQuads) {
		t.Fatalf("at most %d views available, requested %d", len(viewQuads), n)
	}
	board := ChessboardMat(t, width, height, 40, 40)
	defer board.Close()
	w, h := float64(board.Cols()), float64(board.Rows())
	for i := 0; i < n; i++ {
		quad := make([]image.Point, 4)
		for j, f := range viewQuads[i] {
			quad[j] = image.Pt(int(f[0]*w), int(f[1]*h))
		}
		view := WarpToQuad(t, board, quad)
		img, err := view.ToImage()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, view.Close(), test.ShouldBeNil)
		WriteImagePNG(t, filepath.Join(dir, fmt.Sprintf("view%d.png", i)), img)
	}
}

// FlatCoefficients returns a distortion free camera model with an identity
// working-plane homography, for tests that only exercise plumbing.
func FlatCoefficients() *transform.CameraCoefficients {
	return &transform.CameraCoefficients{
		K: mat.NewDense(3, 3, []float64{
			500, 0, 320,
			0, 500, 240,
			0, 0, 1,
		}),
		D: mat.NewVecDense(5, nil),
		H: &transform.Homography{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	}
}
