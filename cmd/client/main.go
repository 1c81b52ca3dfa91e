package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/kvauth/internal/client/cli"
)

func main() {

	ctx := context.Background()
	cmd := cli.NewRootCommand(os.Stdin)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
