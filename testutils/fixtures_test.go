package testutils_test

import (
	"os"
	"testing"

	"go.viam.com/test"

	"go.viam.com/camcal/testutils"
)

func TestRenderChessboard(t *testing.T) {
	img := testutils.RenderChessboard(5, 4, 40, 20)
	// 6x5 squares of 40px plus a 20px margin all around
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 280)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 240)
}

func TestWriteCheckerboardViews(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteCheckerboardViews(t, dir, 5, 4, 3)
	entries, err := os.ReadDir(dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, entries, test.ShouldHaveLength, 3)
}

func TestFlatCoefficients(t *testing.T) {
	coeffs := testutils.FlatCoefficients()
	test.That(t, coeffs.CheckValid(), test.ShouldBeNil)
}
