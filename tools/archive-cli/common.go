package main

import (
	"log"

	"github.com/urfave/cli/v2"

	"github.com/yanglaolee/grug/database/jmt"
)

var (
	dbDirectoryFlag = cli.StringFlag{
		Name:     "dir",
		Usage:    "the targeted archive directory",
		Required: true,
	}
	blockFlag = cli.Uint64Flag{
		Name:     "block",
		Usage:    "the targeted block number",
		Required: true,
	}
)

// withArchive opens the archive in the directory given on the command line,
// runs the given operation, and takes care of closing the archive again.
func withArchive(ctx *cli.Context, run func(archive *jmt.Archive) error) (err error) {
	dir := ctx.String(dbDirectoryFlag.Name)
	log.Printf("Opening archive in %v ...", dir)
	archive, err := jmt.OpenArchive(dir, jmt.KeccakConfig)
	if err != nil {
		return err
	}
	defer func() {
		log.Printf("Closing archive in %v ...", dir)
		if closeError := archive.Close(); closeError != nil {
			if err == nil {
				err = closeError
			} else {
				log.Printf("Failure closing archive: %v", closeError)
			}
		}
	}()
	return run(archive)
}
