package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yanglaolee/grug/database/jmt"
)

var getInfoCommand = cli.Command{
	Action: getInfo,
	Name:   "info",
	Usage:  "prints summary information about an archive directory",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
	},
}

func getInfo(ctx *cli.Context) error {
	return withArchive(ctx, func(archive *jmt.Archive) error {
		height, exists, err := archive.GetBlockHeight()
		if err != nil {
			return err
		}
		if !exists {
			fmt.Printf("The archive is empty.\n")
			return nil
		}
		oldest, err := archive.GetOldestRetainedBlock()
		if err != nil {
			return err
		}
		hash, err := archive.GetHash(height)
		if err != nil {
			return err
		}
		fmt.Printf("Block height:          %d\n", height)
		fmt.Printf("Oldest retained block: %d\n", oldest)
		fmt.Printf("Head root hash:        %v\n", hash)
		return nil
	})
}
