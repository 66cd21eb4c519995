package calibrate

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"

	"go.viam.com/camcal/chessboard"
)

// CalibrateDirectory feeds every dir/*.format image through a Calibrator and
// solves for the camera model. If overlayDir is non-empty, a corner overlay
// is written there for every detected view.
func CalibrateDirectory(
	ctx context.Context,
	dir, format string,
	board chessboard.Board,
	overlayDir string,
	logger golog.Logger,
) (result *Result, err error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*."+format))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot list *.%s images in %q", format, dir)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("no *.%s images found in %q", format, dir)
	}
	sort.Strings(matches)

	c, err := NewCalibrator(board, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, c.Close())
	}()
	if overlayDir != "" {
		if err := os.MkdirAll(overlayDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "cannot create overlay directory %q", overlayDir)
		}
		c.SetOverlayDir(overlayDir)
	}

	for _, path := range matches {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := addImageFile(c, path); err != nil {
			return nil, err
		}
	}
	return c.Calibrate()
}

func addImageFile(c *Calibrator, path string) error {
	img := gocv.IMRead(path, gocv.IMReadColor)
	defer img.Close()
	if img.Empty() {
		return errors.Errorf("cannot read image from %q", path)
	}
	_, err := c.AddImage(path, img)
	return err
}
