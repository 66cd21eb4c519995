// Package chessboard describes calibration checkerboards and wraps the
// vision library's corner detection for them.
package chessboard

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Board describes a calibration checkerboard by its inner corner grid and
// printed square size. Width and Height count inner corners, not squares.
type Board struct {
	Width  int
	Height int
	// SquareSize is the printed edge length of one square in millimeters.
	SquareSize float64
}

// DefaultBoard returns the board geometry assumed when none is specified:
// 10x7 inner corners with 25mm squares.
func DefaultBoard() Board {
	return Board{Width: 10, Height: 7, SquareSize: 25}
}

// CheckValid checks if the fields for Board have valid inputs.
func (b Board) CheckValid() error {
	if b.Width < 2 || b.Height < 2 {
		return errors.Errorf("board needs at least 2x2 inner corners, got %dx%d", b.Width, b.Height)
	}
	if b.SquareSize <= 0 {
		return errors.Errorf("board square size must be positive, got %v", b.SquareSize)
	}
	return nil
}

// Size returns the inner corner pattern size in the form the detector expects.
func (b Board) Size() image.Point {
	return image.Pt(b.Width, b.Height)
}

// Corners returns the number of inner corners on the board.
func (b Board) Corners() int {
	return b.Width * b.Height
}

// ObjectPoints returns the corner grid on the board plane in detector order,
// row by row with x varying fastest. Coordinates are in square units with
// z always zero; calibration is invariant to the object scale.
func (b Board) ObjectPoints() []gocv.Point3f {
	pts := make([]gocv.Point3f, 0, b.Corners())
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			pts = append(pts, gocv.Point3f{X: float32(x), Y: float32(y), Z: 0})
		}
	}
	return pts
}

// WorldPlanePoints returns the corner grid in working-plane millimeters,
// scaled by the square size and shifted by one square so the origin sits on
// the board's outer corner.
func (b Board) WorldPlanePoints() []gocv.Point2f {
	pts := make([]gocv.Point2f, 0, b.Corners())
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			pts = append(pts, gocv.Point2f{
				X: float32((float64(x) + 1) * b.SquareSize),
				Y: float32((float64(y) + 1) * b.SquareSize),
			})
		}
	}
	return pts
}
