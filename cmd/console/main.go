package main

import (
	"os"

	"github.com/jwalitptl/admin-console/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
