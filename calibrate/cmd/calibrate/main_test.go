package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/camcal/testutils"
	"go.viam.com/camcal/transform"
)

func TestMainWithArgs(t *testing.T) {
	logger := golog.NewTestLogger(t)
	imagesDir := t.TempDir()
	testutils.WriteCheckerboardViews(t, imagesDir, 5, 4, 6)
	refPath := filepath.Join(t.TempDir(), "plan.png")
	testutils.WriteImagePNG(t, refPath, testutils.RenderChessboard(5, 4, 40, 40))
	savePath := filepath.Join(t.TempDir(), "calibration.json")

	err := mainWithArgs(context.Background(), []string{
		"calibrate",
		"--width=5", "--height=4", "--square-size=25",
		"--save-to=" + savePath,
		imagesDir, "png", refPath,
	}, logger)
	test.That(t, err, test.ShouldBeNil)

	coeffs, err := transform.LoadCoefficients(savePath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, coeffs.CheckValid(), test.ShouldBeNil)
}

func TestMainWithArgsMissingArgs(t *testing.T) {
	logger := golog.NewTestLogger(t)
	err := mainWithArgs(context.Background(), []string{"calibrate"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMainWithArgsBadBoard(t *testing.T) {
	logger := golog.NewTestLogger(t)
	err := mainWithArgs(context.Background(), []string{
		"calibrate", "--width=1", "--height=1",
		t.TempDir(), "png", "plan.png",
	}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMillimetersFlag(t *testing.T) {
	var mf millimetersFlag
	test.That(t, mf.Set("12.5"), test.ShouldBeNil)
	test.That(t, mf.millimeters(), test.ShouldEqual, 12.5)
	test.That(t, mf.Get(), test.ShouldEqual, 12.5)
	test.That(t, mf.String(), test.ShouldEqual, "12.5")
	test.That(t, mf.Set("not-a-number"), test.ShouldNotBeNil)
}
