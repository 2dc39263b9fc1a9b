package main

import (
	"os"

	"github.com/runwrap/runwrap/cmd/runwrap/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
