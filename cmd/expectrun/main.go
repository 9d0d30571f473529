package main

import (
	"os"

	"github.com/mcpchecker/expectrun/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
