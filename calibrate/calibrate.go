// Package calibrate solves for a camera's intrinsic model and its
// working-plane homography from checkerboard captures.
package calibrate

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcal/chessboard"
	"go.viam.com/camcal/utils"
)

// Result holds the solved camera model for one calibration run.
type Result struct {
	// K is the 3x3 intrinsic camera matrix.
	K *mat.Dense
	// D holds the lens distortion coefficients.
	D *mat.VecDense
	// Rotations and Translations are the per-view extrinsic pose vectors,
	// in the order the views were added.
	Rotations    []r3.Vector
	Translations []r3.Vector
	// RMS is the root mean square re-projection error reported by the
	// solver.
	RMS float64
	// Views is the number of checkerboard views the solve used.
	Views int
}

// Calibrator accumulates checkerboard detections across views and solves for
// the camera model. It must be closed after use.
type Calibrator struct {
	board      chessboard.Board
	logger     golog.Logger
	overlayDir string

	objectPoints gocv.Points3fVector
	imagePoints  gocv.Points2fVector
	imageSize    image.Point
}

// NewCalibrator returns a Calibrator for the given board.
func NewCalibrator(board chessboard.Board, logger golog.Logger) (*Calibrator, error) {
	if err := board.CheckValid(); err != nil {
		return nil, err
	}
	return &Calibrator{
		board:        board,
		logger:       logger,
		objectPoints: gocv.NewPoints3fVector(),
		imagePoints:  gocv.NewPoints2fVector(),
	}, nil
}

// SetOverlayDir makes AddImage write a corner overlay image into dir for
// every detected view.
func (c *Calibrator) SetOverlayDir(dir string) {
	c.overlayDir = dir
}

// Close releases the accumulated point vectors.
func (c *Calibrator) Close() error {
	c.objectPoints.Close()
	c.imagePoints.Close()
	return nil
}

// AddImage looks for the calibrator's checkerboard in img and, when found,
// records the refined corner positions for the solve. Views without a
// detectable checkerboard are logged and skipped. The name is used only for
// logging and overlay file naming.
func (c *Calibrator) AddImage(name string, img gocv.Mat) (bool, error) {
	gray := chessboard.Gray(img)
	defer gray.Close()
	c.imageSize = image.Pt(gray.Cols(), gray.Rows())

	corners, found := c.board.FindCorners(gray)
	defer corners.Close()
	if !found {
		c.logger.Infow("no checkerboard found", "image", name)
		return false, nil
	}
	chessboard.RefineCorners(gray, &corners)
	c.logger.Infow("checkerboard detected", "image", name)

	objPts := gocv.NewPoint3fVectorFromPoints(c.board.ObjectPoints())
	defer objPts.Close()
	imgPts := gocv.NewPoint2fVectorFromPoints(chessboard.CornerPoints(corners))
	defer imgPts.Close()
	c.objectPoints.Append(objPts)
	c.imagePoints.Append(imgPts)

	if c.overlayDir != "" {
		out := filepath.Join(c.overlayDir, overlayName(name))
		if err := c.board.SaveCornerOverlay(out, img, corners, found); err != nil {
			return true, err
		}
		c.logger.Debugw("wrote corner overlay", "image", name, "overlay", out)
	}
	return true, nil
}

// Calibrate solves for the camera model from the accumulated views.
func (c *Calibrator) Calibrate() (*Result, error) {
	if c.imageSize == (image.Point{}) {
		return nil, errors.New("no images were added")
	}
	views := c.imagePoints.Size()
	if views == 0 {
		return nil, errors.New("no checkerboards were detected in the added images")
	}

	k := gocv.NewMat()
	defer k.Close()
	d := gocv.NewMat()
	defer d.Close()
	rvecs := gocv.NewMat()
	defer rvecs.Close()
	tvecs := gocv.NewMat()
	defer tvecs.Close()
	rms := gocv.CalibrateCamera(
		c.objectPoints, c.imagePoints, c.imageSize, &k, &d, &rvecs, &tvecs, gocv.CalibFlag(0))

	return &Result{
		K:            utils.MatToDense(&k),
		D:            utils.MatToVec(&d),
		Rotations:    poseVectors(&rvecs),
		Translations: poseVectors(&tvecs),
		RMS:          rms,
		Views:        views,
	}, nil
}

// poseVectors reads one 3-vector per row regardless of whether the solver
// returned an Nx3 single-channel or Nx1 three-channel Mat.
func poseVectors(m *gocv.Mat) []r3.Vector {
	out := make([]r3.Vector, 0, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		out = append(out, r3.Vector{
			X: m.GetDoubleAt(i, 0),
			Y: m.GetDoubleAt(i, 1),
			Z: m.GetDoubleAt(i, 2),
		})
	}
	return out
}

func overlayName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_corners.png"
}
