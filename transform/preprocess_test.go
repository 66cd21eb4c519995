package transform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/camcal/testutils"
	"go.viam.com/camcal/transform"
)

func TestPreprocessDims(t *testing.T) {
	img := testutils.ChessboardMat(t, 5, 4, 40, 20)
	defer img.Close()

	out := transform.Preprocess(img, testutils.FlatCoefficients(), 320, 200)
	defer out.Close()
	test.That(t, out.Cols(), test.ShouldEqual, 320)
	test.That(t, out.Rows(), test.ShouldEqual, 200)
	test.That(t, out.Empty(), test.ShouldBeFalse)
}

func TestUndistortKeepsSize(t *testing.T) {
	img := testutils.ChessboardMat(t, 5, 4, 40, 20)
	defer img.Close()

	coeffs := testutils.FlatCoefficients()
	out := transform.Undistort(img, coeffs.K, coeffs.D)
	defer out.Close()
	test.That(t, out.Cols(), test.ShouldEqual, img.Cols())
	test.That(t, out.Rows(), test.ShouldEqual, img.Rows())
}

func TestPreprocessFileMissing(t *testing.T) {
	_, err := transform.PreprocessFile(
		filepath.Join(t.TempDir(), "missing.png"), testutils.FlatCoefficients(), 100, 100)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "missing.png")
}

func TestBatchPreprocess(t *testing.T) {
	logger, logs := golog.NewObservedTestLogger(t)
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	board := testutils.RenderChessboard(5, 4, 40, 20)
	testutils.WriteImagePNG(t, filepath.Join(inDir, "a.png"), board)
	testutils.WriteImagePNG(t, filepath.Join(inDir, "b.jpeg"), board)
	err := os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("not an image"), 0o644)
	test.That(t, err, test.ShouldBeNil)
	err = os.Mkdir(filepath.Join(inDir, "sub"), 0o755)
	test.That(t, err, test.ShouldBeNil)

	processed, err := transform.BatchPreprocess(
		context.Background(), inDir, outDir, testutils.FlatCoefficients(), 120, 90, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, processed, test.ShouldEqual, 2)
	test.That(t, logs.FilterMessageSnippet("preprocessed").Len(), test.ShouldEqual, 2)

	for _, name := range []string{"a.png", "b.jpeg"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		test.That(t, err, test.ShouldBeNil)
	}
	_, err = os.Stat(filepath.Join(outDir, "notes.txt"))
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)
}

func TestBatchPreprocessCanceled(t *testing.T) {
	logger := golog.NewTestLogger(t)
	inDir := t.TempDir()
	testutils.WriteImagePNG(t, filepath.Join(inDir, "a.png"), testutils.RenderChessboard(5, 4, 40, 20))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	processed, err := transform.BatchPreprocess(
		ctx, inDir, filepath.Join(t.TempDir(), "out"), testutils.FlatCoefficients(), 120, 90, logger)
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, processed, test.ShouldEqual, 0)
}

func TestBatchPreprocessMissingDir(t *testing.T) {
	logger := golog.NewTestLogger(t)
	_, err := transform.BatchPreprocess(
		context.Background(),
		filepath.Join(t.TempDir(), "nope"),
		filepath.Join(t.TempDir(), "out"),
		testutils.FlatCoefficients(), 120, 90, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "input directory")
}
