package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/EternisAI/recollect/pkg/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "recollect"))
		os.Exit(1)
	}
}
