// Package transform applies saved calibration parameters to images and
// points: lens undistortion, perspective warping onto the working plane, and
// pixel to world-plane mapping.
package transform

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Homography is a 3x3 matrix (represented as a 2D array) that maps
// homogeneous pixel coordinates in an undistorted image to homogeneous
// working-plane coordinates in millimeters. Indices are [row][column].
type Homography [3][3]float64

// NewHomography creates a Homography from a 3x3 gonum matrix.
func NewHomography(m mat.Matrix) (*Homography, error) {
	rows, cols := m.Dims()
	if rows != 3 || cols != 3 {
		return nil, errors.Errorf("homography must be 3x3, got %dx%d", rows, cols)
	}
	var h Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			h[r][c] = m.At(r, c)
		}
	}
	return &h, nil
}

// At returns the value of the homography at the given location.
func (h *Homography) At(row, col int) float64 {
	return h[row][col]
}

// Apply maps an image point to its working-plane point.
func (h *Homography) Apply(pt r2.Point) r2.Point {
	x := h.At(0, 0)*pt.X + h.At(0, 1)*pt.Y + h.At(0, 2)
	y := h.At(1, 0)*pt.X + h.At(1, 1)*pt.Y + h.At(1, 2)
	z := h.At(2, 0)*pt.X + h.At(2, 1)*pt.Y + h.At(2, 2)
	return r2.Point{X: x / z, Y: y / z}
}

// Dense returns the homography as a gonum matrix.
func (h *Homography) Dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			d.Set(r, c, h.At(r, c))
		}
	}
	return d
}
