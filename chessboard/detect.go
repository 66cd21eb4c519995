package chessboard

import (
	"image"

	"gocv.io/x/gocv"
)

// Subpixel refinement searches an 11x11 window around each corner and stops
// after 30 iterations or a shift under 0.001 pixels.
const (
	refineWinSize = 11
	refineMaxIter = 30
	refineEpsilon = 0.001
)

// Gray returns a single-channel copy of img. The caller owns the returned
// Mat.
func Gray(img gocv.Mat) gocv.Mat {
	if img.Channels() == 1 {
		return img.Clone()
	}
	gray := gocv.NewMat()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	return gray
}

// FindCorners locates the board's inner corner grid in gray. The corners
// come back in detector order, matching ObjectPoints. The returned Mat must
// be closed by the caller whether or not the board was found.
func (b Board) FindCorners(gray gocv.Mat) (gocv.Mat, bool) {
	corners := gocv.NewMat()
	found := gocv.FindChessboardCorners(gray, b.Size(), &corners,
		gocv.CalibCBAdaptiveThresh|gocv.CalibCBNormalizeImage)
	return corners, found
}

// RefineCorners refines detected corners to subpixel accuracy in place.
// gray must be the single-channel image the corners were found in.
func RefineCorners(gray gocv.Mat, corners *gocv.Mat) {
	criteria := gocv.NewTermCriteria(gocv.MaxIter+gocv.EPS, refineMaxIter, refineEpsilon)
	gocv.CornerSubPix(gray, corners, image.Pt(refineWinSize, refineWinSize), image.Pt(-1, -1), criteria)
}

// CornerPoints copies the corners out of the detector's Mat.
func CornerPoints(corners gocv.Mat) []gocv.Point2f {
	vec := gocv.NewPoint2fVectorFromMat(corners)
	defer vec.Close()
	return vec.ToPoints()
}
