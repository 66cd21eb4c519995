package calibrate

import (
	"github.com/golang/geo/r2"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcal/chessboard"
	"go.viam.com/camcal/transform"
	"go.viam.com/camcal/utils"
)

// PlaneHomography estimates the homography that maps pixels of an
// undistorted camera view onto world-plane millimeters. The reference plan
// image at refPath must show the full checkerboard lying on the working
// plane. Corners are left unrefined so the estimate matches what plain
// detection produces at preprocessing time.
func PlaneHomography(
	refPath string,
	k *mat.Dense,
	d *mat.VecDense,
	board chessboard.Board,
) (*transform.Homography, []gocv.Point2f, error) {
	ref := gocv.IMRead(refPath, gocv.IMReadColor)
	defer ref.Close()
	if ref.Empty() {
		return nil, nil, errors.Errorf("cannot read reference plan from %q", refPath)
	}

	undistorted := transform.Undistort(ref, k, d)
	defer undistorted.Close()
	gray := chessboard.Gray(undistorted)
	defer gray.Close()

	corners, found := board.FindCorners(gray)
	defer corners.Close()
	if !found {
		return nil, nil, errors.Errorf("no checkerboard found in reference plan %q", refPath)
	}
	pts := chessboard.CornerPoints(corners)

	estimated, err := utils.EstimateHomography(pts, board.WorldPlanePoints())
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reference plan %q", refPath)
	}
	h, err := transform.NewHomography(estimated)
	if err != nil {
		return nil, nil, err
	}
	return h, pts, nil
}

// Fit summarizes how well a homography maps detected corners onto their
// world targets, in millimeters.
type Fit struct {
	Mean      float64
	Max       float64
	StdDev    float64
	Residuals []float64
}

// HomographyFit measures the Euclidean distance between h applied to each
// corner and the corresponding world point. It diagnoses the quality of an
// estimate, it plays no part in producing one.
func HomographyFit(h *transform.Homography, corners, world []gocv.Point2f) (*Fit, error) {
	if len(corners) == 0 || len(corners) != len(world) {
		return nil, errors.Errorf(
			"cannot fit %d corners against %d world points", len(corners), len(world))
	}
	residuals := make([]float64, len(corners))
	for i, c := range corners {
		mapped := h.Apply(r2.Point{X: float64(c.X), Y: float64(c.Y)})
		target := r2.Point{X: float64(world[i].X), Y: float64(world[i].Y)}
		residuals[i] = mapped.Sub(target).Norm()
	}

	mean, err := stats.Mean(residuals)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(residuals)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(residuals)
	if err != nil {
		return nil, err
	}
	return &Fit{Mean: mean, Max: max, StdDev: stdDev, Residuals: residuals}, nil
}
