package main

import (
	"os"

	"github.com/firefly-engineering/browser-conf/cmd"
	"github.com/firefly-engineering/browser-conf/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
