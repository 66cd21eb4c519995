package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/camcal/aruco"
)

func TestMainWithArgs(t *testing.T) {
	logger := golog.NewTestLogger(t)
	outDir := filepath.Join(t.TempDir(), "markers")
	sheetPath := filepath.Join(t.TempDir(), "sheet.png")

	err := mainWithArgs(context.Background(), []string{
		"markers", "--out=" + outDir, "--n=3", "--size=64", "--sheet=" + sheetPath,
	}, logger)
	test.That(t, err, test.ShouldBeNil)

	for id := 0; id < 3; id++ {
		_, err := os.Stat(filepath.Join(outDir, aruco.MarkerFileName(id)))
		test.That(t, err, test.ShouldBeNil)
	}
	_, err = os.Stat(sheetPath)
	test.That(t, err, test.ShouldBeNil)
}

func TestMainWithArgsBadCount(t *testing.T) {
	logger := golog.NewTestLogger(t)
	err := mainWithArgs(context.Background(), []string{
		"markers", "--out=" + t.TempDir(), "--n=200",
	}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}
