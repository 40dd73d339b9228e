package main

import (
	"os"

	"github.com/brandonbloom/testlab/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
