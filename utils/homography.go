package utils

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// RANSAC parameters. The all-points estimation method ignores them but the
// estimator requires them anyway.
const (
	ransacThreshold  = 3.0
	ransacMaxIter    = 2000
	ransacConfidence = 0.995
)

// EstimateHomography fits the projective transform that maps the src points
// onto the dst points, using every correspondence.
func EstimateHomography(src, dst []gocv.Point2f) (*mat.Dense, error) {
	if len(src) < 4 || len(src) != len(dst) {
		return nil, errors.Errorf(
			"cannot estimate a homography from %d to %d points", len(src), len(dst))
	}
	srcMat := Point2fsToMat(src)
	defer srcMat.Close()
	dstMat := Point2fsToMat(dst)
	defer dstMat.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	hm := gocv.FindHomography(
		srcMat, &dstMat, gocv.HomograpyMethodAllPoints, ransacThreshold, &mask, ransacMaxIter, ransacConfidence)
	defer hm.Close()
	if hm.Empty() {
		return nil, errors.New("homography estimation failed")
	}
	return MatToDense(&hm), nil
}
