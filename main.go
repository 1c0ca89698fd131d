package main

import (
	"context"
	"os"

	"github.com/secmon-lab/civicsnap/pkg/cli"
	"github.com/secmon-lab/civicsnap/pkg/utils/apperr"
)

func main() {
	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		apperr.Handle(ctx, err)
		os.Exit(1)
	}
}
