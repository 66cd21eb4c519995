// Package aruco generates and detects the ArUco fiducial markers used to
// register a camera against its working plane.
package aruco

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"go.viam.com/camcal/transform"
	"go.viam.com/camcal/utils"
)

// Markers come from the 4x4, 50-id dictionary.
const (
	dictionary       = gocv.ArucoDict4x4_50
	maxMarkers       = 50
	markerBorderBits = 1
)

// Marker is one detected fiducial.
type Marker struct {
	ID int
	// TopLeft is the marker's top-left corner in image pixels.
	TopLeft r2.Point
}

// MarkerFileName returns the file name GenerateMarkers uses for an id.
func MarkerFileName(id int) string {
	return fmt.Sprintf("aruco_marker_%d.jpg", id)
}

func checkMarkerArgs(count, sidePixels int) error {
	if count < 1 || count > maxMarkers {
		return errors.Errorf("marker count must be between 1 and %d, got %d", maxMarkers, count)
	}
	if sidePixels < 1 {
		return errors.Errorf("marker side must be positive, got %d", sidePixels)
	}
	return nil
}

// GenerateMarkers writes marker images for ids 0 through count-1 into dir,
// creating it if needed.
func GenerateMarkers(dir string, count, sidePixels int) error {
	if err := checkMarkerArgs(count, sidePixels); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create marker directory %q", dir)
	}
	for id := 0; id < count; id++ {
		img := gocv.NewMat()
		gocv.ArucoGenerateImageMarker(dictionary, id, sidePixels, img, markerBorderBits)
		path := filepath.Join(dir, MarkerFileName(id))
		ok := gocv.IMWrite(path, img)
		if err := img.Close(); err != nil {
			return err
		}
		if !ok {
			return errors.Errorf("cannot write marker image to %q", path)
		}
	}
	return nil
}

// DetectMarkers finds all dictionary markers in img.
func DetectMarkers(img gocv.Mat) []Marker {
	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() == 1 {
		img.CopyTo(&gray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}

	detector := gocv.NewArucoDetectorWithParams(
		gocv.GetPredefinedDictionary(dictionary), gocv.NewArucoDetectorParameters())
	defer detector.Close()
	corners, ids, _ := detector.DetectMarkers(gray)

	markers := make([]Marker, 0, len(ids))
	for i, id := range ids {
		if len(corners[i]) == 0 {
			continue
		}
		tl := corners[i][0]
		markers = append(markers, Marker{
			ID:      id,
			TopLeft: r2.Point{X: float64(tl.X), Y: float64(tl.Y)},
		})
	}
	return markers
}

// PlaneHomography estimates the homography mapping image pixels to
// world-plane millimeters from markers laid out at known world positions.
// Correspondence is keyed by marker id, so extra unregistered markers in the
// scene are ignored. At least four registered markers must be detected.
func PlaneHomography(img gocv.Mat, worldByID map[int]r2.Point) (*transform.Homography, error) {
	markers := DetectMarkers(img)
	imgPts := make([]gocv.Point2f, 0, len(markers))
	worldPts := make([]gocv.Point2f, 0, len(markers))
	for _, m := range markers {
		world, ok := worldByID[m.ID]
		if !ok {
			continue
		}
		imgPts = append(imgPts, gocv.Point2f{X: float32(m.TopLeft.X), Y: float32(m.TopLeft.Y)})
		worldPts = append(worldPts, gocv.Point2f{X: float32(world.X), Y: float32(world.Y)})
	}
	if len(imgPts) < 4 {
		return nil, errors.Errorf(
			"need at least 4 registered markers, matched %d of %d detected", len(imgPts), len(markers))
	}

	estimated, err := utils.EstimateHomography(imgPts, worldPts)
	if err != nil {
		return nil, err
	}
	return transform.NewHomography(estimated)
}
