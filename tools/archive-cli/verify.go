package main

import (
	"fmt"
	"log"

	"github.com/urfave/cli/v2"

	"github.com/yanglaolee/grug/database/jmt"
)

var verifyCommand = cli.Command{
	Action: verify,
	Name:   "verify",
	Usage:  "verifies the integrity of all retained blocks in an archive directory",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
	},
}

func verify(ctx *cli.Context) error {
	return withArchive(ctx, func(archive *jmt.Archive) error {
		height, exists, err := archive.GetBlockHeight()
		if err != nil {
			return err
		}
		if !exists {
			fmt.Printf("The archive is empty, nothing to verify.\n")
			return nil
		}
		oldest, err := archive.GetOldestRetainedBlock()
		if err != nil {
			return err
		}
		for block := oldest; block <= height; block++ {
			log.Printf("Verifying block %d of %d ...", block, height)
			if err := archive.VerifyVersion(block); err != nil {
				return fmt.Errorf("block %d is damaged: %w", block, err)
			}
		}
		fmt.Printf("All %d retained blocks are intact.\n", height-oldest+1)
		return nil
	})
}
