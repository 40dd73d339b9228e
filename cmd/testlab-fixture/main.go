package main

import (
	"os"

	"github.com/brandonbloom/testlab/internal/fixture"
)

func main() {
	os.Exit(fixture.Execute())
}
