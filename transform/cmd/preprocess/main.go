// Package main contains a command to apply a saved camera calibration to
// images, undistorting them and warping them onto the working plane.
package main

import (
	"context"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/camcal/transform"
)

var logger = golog.NewDevelopmentLogger("preprocess")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Calibration string `flag:"0,required,usage=path to the calibration JSON file"`
	Input       string `flag:"1,required,usage=image file or directory to preprocess"`
	Output      string `flag:"2,required,usage=output file or directory"`
	Width       int    `flag:"width,default=640,usage=output width in pixels"`
	Height      int    `flag:"height,default=480,usage=output height in pixels"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	coeffs, err := transform.LoadCoefficients(argsParsed.Calibration)
	if err != nil {
		return err
	}

	info, err := os.Stat(argsParsed.Input)
	if err != nil {
		return errors.Wrapf(err, "cannot stat input %q", argsParsed.Input)
	}
	if info.IsDir() {
		processed, err := transform.BatchPreprocess(
			ctx, argsParsed.Input, argsParsed.Output, coeffs, argsParsed.Width, argsParsed.Height, logger)
		if err != nil {
			return err
		}
		logger.Infow("batch preprocessing done", "images", processed, "output", argsParsed.Output)
		return nil
	}

	if err := transform.PreprocessToFile(
		argsParsed.Input, argsParsed.Output, coeffs, argsParsed.Width, argsParsed.Height); err != nil {
		return err
	}
	logger.Infow("preprocessed image", "from", argsParsed.Input, "to", argsParsed.Output)
	return nil
}
