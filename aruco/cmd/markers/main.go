// Package main contains a command to generate printable ArUco markers for
// laying out a working plane.
package main

import (
	"context"

	"github.com/edaniels/golog"
	"go.viam.com/utils"

	"go.viam.com/camcal/aruco"
)

var logger = golog.NewDevelopmentLogger("markers")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	OutDir string `flag:"out,default=.,usage=directory for the marker images"`
	Count  int    `flag:"n,default=4,usage=number of markers to generate"`
	Size   int    `flag:"size,default=100,usage=marker side length in pixels"`
	Sheet  string `flag:"sheet,usage=also write a printable sheet to this path"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if err := aruco.GenerateMarkers(argsParsed.OutDir, argsParsed.Count, argsParsed.Size); err != nil {
		return err
	}
	logger.Infow("wrote markers", "dir", argsParsed.OutDir, "count", argsParsed.Count)

	if argsParsed.Sheet != "" {
		if err := aruco.WriteMarkerSheet(argsParsed.Sheet, argsParsed.Count, argsParsed.Size); err != nil {
			return err
		}
		logger.Infow("wrote marker sheet", "path", argsParsed.Sheet)
	}
	return nil
}
