package main

import (
	"os"

	"github.com/arthur-debert/synctree/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
