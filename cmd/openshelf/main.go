package main

import (
	"os"

	"github.com/openshelf/openshelf/cmd/openshelf/subcmd"
)

func main() {
	if err := subcmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
