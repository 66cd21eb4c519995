package transform

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcal/utils"
)

// Default size of the warped working-plane view.
const (
	DefaultWarpWidth  = 640
	DefaultWarpHeight = 480
)

// imageExtensions are the file extensions BatchPreprocess recognizes.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
}

// Undistort corrects img for lens distortion using the camera matrix k and
// distortion coefficients d. The caller must close the returned Mat.
func Undistort(img gocv.Mat, k *mat.Dense, d *mat.VecDense) gocv.Mat {
	km := utils.DenseToMat(k)
	defer km.Close()
	dm := utils.VecToMat(d)
	defer dm.Close()
	out := gocv.NewMat()
	gocv.Undistort(img, &out, km, dm, km)
	return out
}

// Warp projects img onto the working plane, producing a width x height
// bird's-eye view. The caller must close the returned Mat.
func Warp(img gocv.Mat, h *Homography, width, height int) gocv.Mat {
	m := utils.DenseToMat(h.Dense())
	defer m.Close()
	out := gocv.NewMat()
	gocv.WarpPerspective(img, &out, m, image.Pt(width, height))
	return out
}

// Preprocess undistorts img and warps it onto the working plane. The caller
// must close the returned Mat.
func Preprocess(img gocv.Mat, coeffs *CameraCoefficients, width, height int) gocv.Mat {
	undistorted := Undistort(img, coeffs.K, coeffs.D)
	defer undistorted.Close()
	return Warp(undistorted, coeffs.H, width, height)
}

// PreprocessFile reads the image at path and preprocesses it. On success the
// caller must close the returned Mat.
func PreprocessFile(path string, coeffs *CameraCoefficients, width, height int) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	defer img.Close()
	if img.Empty() {
		return gocv.Mat{}, errors.Errorf("cannot read image from %q", path)
	}
	return Preprocess(img, coeffs, width, height), nil
}

// BatchPreprocess preprocesses every recognized image in inDir and writes the
// result under the same name in outDir, creating outDir if needed. It returns
// the number of images written and stops at the first failure.
func BatchPreprocess(
	ctx context.Context,
	inDir, outDir string,
	coeffs *CameraCoefficients,
	width, height int,
	logger golog.Logger,
) (int, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, errors.Wrapf(err, "cannot create output directory %q", outDir)
	}
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot read input directory %q", inDir)
	}
	processed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		inPath := filepath.Join(inDir, entry.Name())
		outPath := filepath.Join(outDir, entry.Name())
		if err := PreprocessToFile(inPath, outPath, coeffs, width, height); err != nil {
			return processed, err
		}
		logger.Infow("preprocessed image", "from", inPath, "to", outPath)
		processed++
	}
	return processed, nil
}

// PreprocessToFile preprocesses the image at inPath and writes the result to
// outPath.
func PreprocessToFile(inPath, outPath string, coeffs *CameraCoefficients, width, height int) error {
	out, err := PreprocessFile(inPath, coeffs, width, height)
	if err != nil {
		return err
	}
	defer out.Close()
	if !gocv.IMWrite(outPath, out) {
		return errors.Errorf("cannot write image to %q", outPath)
	}
	return nil
}
