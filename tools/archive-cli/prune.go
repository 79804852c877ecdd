package main

import (
	"fmt"
	"log"

	"github.com/urfave/cli/v2"

	"github.com/yanglaolee/grug/database/jmt"
)

var pruneCommand = cli.Command{
	Action: prune,
	Name:   "prune",
	Usage:  "removes all blocks older than the given block from an archive directory",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&blockFlag,
	},
}

func prune(ctx *cli.Context) error {
	block := ctx.Uint64(blockFlag.Name)
	return withArchive(ctx, func(archive *jmt.Archive) error {
		log.Printf("Pruning all blocks before block %d ...", block)
		if err := archive.PruneTo(block); err != nil {
			return err
		}
		oldest, err := archive.GetOldestRetainedBlock()
		if err != nil {
			return err
		}
		fmt.Printf("Oldest retained block is now %d.\n", oldest)
		return nil
	})
}
