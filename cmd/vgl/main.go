package main

import (
	"os"

	"github.com/jonbarril/vgl/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Execute())
}
