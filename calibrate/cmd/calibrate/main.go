// Package main contains a command to calibrate a camera from checkerboard
// captures and register its working plane.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcal/calibrate"
	"go.viam.com/camcal/chessboard"
	"go.viam.com/camcal/transform"
)

var logger = golog.NewDevelopmentLogger("calibrate")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ImageDir    string          `flag:"0,required,usage=directory containing the calibration images"`
	ImageFormat string          `flag:"1,required,usage=calibration image extension (e.g. png)"`
	RefPlan     string          `flag:"2,required,usage=image of the checkerboard lying on the working plane"`
	SquareSize  millimetersFlag `flag:"square-size,default=25,usage=checkerboard square edge length in millimeters"`
	Width       int             `flag:"width,default=10,usage=checkerboard inner corners per row"`
	Height      int             `flag:"height,default=7,usage=checkerboard inner corners per column"`
	SaveTo      string          `flag:"save-to,default=calibration.json,usage=output path for the calibration file"`
	DebugDir    string          `flag:"debug-dir,usage=write corner overlay images to this directory"`
}

type millimetersFlag string

func (mf *millimetersFlag) String() string {
	return string(*mf)
}

func (mf *millimetersFlag) Set(val string) error {
	if _, err := strconv.ParseFloat(val, 64); err != nil {
		return errors.Wrapf(err, "invalid millimeter value %q", val)
	}
	*mf = millimetersFlag(val)
	return nil
}

func (mf *millimetersFlag) Get() interface{} {
	return mf.millimeters()
}

func (mf *millimetersFlag) millimeters() float64 {
	parsed, _ := strconv.ParseFloat(string(*mf), 64)
	return parsed
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	board := chessboard.Board{
		Width:      argsParsed.Width,
		Height:     argsParsed.Height,
		SquareSize: argsParsed.SquareSize.millimeters(),
	}
	if err := board.CheckValid(); err != nil {
		return err
	}

	result, err := calibrate.CalibrateDirectory(
		ctx, argsParsed.ImageDir, argsParsed.ImageFormat, board, argsParsed.DebugDir, logger)
	if err != nil {
		return err
	}
	printResult(result)

	h, corners, err := calibrate.PlaneHomography(argsParsed.RefPlan, result.K, result.D, board)
	if err != nil {
		return err
	}
	fmt.Printf("working plane homography H:\n%v\n", mat.Formatted(h.Dense(), mat.Squeeze()))

	fit, err := calibrate.HomographyFit(h, corners, board.WorldPlanePoints())
	if err != nil {
		return err
	}
	if err := printFit(fit); err != nil {
		return err
	}

	coeffs := &transform.CameraCoefficients{K: result.K, D: result.D, H: h}
	if err := transform.SaveCoefficients(coeffs, argsParsed.SaveTo); err != nil {
		return err
	}
	logger.Infow("saved calibration", "path", argsParsed.SaveTo, "views", result.Views)
	return nil
}

func printResult(result *calibrate.Result) {
	fmt.Printf("RMS re-projection error: %.4f\n", result.RMS)
	fmt.Printf("camera matrix K:\n%v\n", mat.Formatted(result.K, mat.Squeeze()))
	fmt.Printf("distortion coefficients D:\n%v\n", mat.Formatted(result.D.T(), mat.Squeeze()))
	fmt.Println("per view rotation vectors:")
	for i, r := range result.Rotations {
		fmt.Printf("  view %d: [%.4f %.4f %.4f]\n", i, r.X, r.Y, r.Z)
	}
	fmt.Println("per view translation vectors:")
	for i, tr := range result.Translations {
		fmt.Printf("  view %d: [%.4f %.4f %.4f]\n", i, tr.X, tr.Y, tr.Z)
	}
}

func printFit(fit *calibrate.Fit) error {
	fmt.Printf("homography fit residuals (mm): mean %.3f max %.3f stddev %.3f\n",
		fit.Mean, fit.Max, fit.StdDev)
	hist := histogram.Hist(10, fit.Residuals)
	return histogram.Fprint(os.Stdout, hist, histogram.Linear(5))
}
